package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	DateLayout,
}

// ParseDate accepts full ISO-8601 timestamps and bare calendar dates. The result is UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// UnmarshalJSON lets clients send due dates as bare calendar dates.
func (a *ActionItem) UnmarshalJSON(data []byte) error {
	type alias ActionItem
	aux := struct {
		*alias
		DueDate *string `json:"due_date"`
	}{alias: (*alias)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	a.DueDate = nil
	if aux.DueDate != nil && strings.TrimSpace(*aux.DueDate) != "" {
		t, err := ParseDate(*aux.DueDate)
		if err != nil {
			return fmt.Errorf("due_date: %w", err)
		}
		a.DueDate = &t
	}
	return nil
}
