package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"coachloop/internal/model"

	"github.com/google/uuid"
)

const missingDescription = "No description provided"

type RawKind int

const (
	RawInvalid RawKind = iota
	RawPlain
	RawStructured
)

// RawActionItem is one stored or model-produced action item before normalization.
// Older records hold plain strings; current ones hold objects. Both coexist in the
// same collection, so only NormalizeActionItems looks at Kind.
type RawActionItem struct {
	Kind   RawKind
	Text   string
	Fields map[string]any
}

func PlainActionItem(text string) RawActionItem {
	return RawActionItem{Kind: RawPlain, Text: text}
}

func StructuredActionItem(fields map[string]any) RawActionItem {
	return RawActionItem{Kind: RawStructured, Fields: fields}
}

// RawFromActionItem is the inverse of normalization for an item that already has an id.
func RawFromActionItem(item model.ActionItem) RawActionItem {
	fields := map[string]any{
		"id":          item.ID,
		"description": item.Description,
		"status":      string(item.Status),
	}
	if item.DueDate != nil {
		fields["dueDate"] = item.DueDate.UTC().Format(time.RFC3339Nano)
	}
	return StructuredActionItem(fields)
}

// UnmarshalJSON accepts any JSON value; values that are neither strings nor objects
// decode to RawInvalid instead of failing the whole array.
func (r *RawActionItem) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch t := v.(type) {
	case string:
		*r = PlainActionItem(t)
	case map[string]any:
		*r = StructuredActionItem(t)
	default:
		*r = RawActionItem{Kind: RawInvalid}
	}
	return nil
}

// NormalizeActionItems turns raw items into canonical records. Plain strings get fresh
// ids; objects are completed field by field, with a position-derived id when theirs is
// missing. Owner name always comes from ownerName.
func NormalizeActionItems(raw []RawActionItem, ownerName, sessionID string) []model.ActionItem {
	items := make([]model.ActionItem, 0, len(raw))
	for i, r := range raw {
		switch r.Kind {
		case RawPlain:
			desc := r.Text
			if strings.TrimSpace(desc) == "" {
				desc = missingDescription
			}
			items = append(items, model.ActionItem{
				ID:          uuid.NewString(),
				Description: desc,
				Status:      model.StatusOpen,
				OwnerName:   ownerName,
			})
		case RawStructured:
			items = append(items, completeActionItem(r.Fields, i, ownerName, sessionID))
		}
	}
	return items
}

func completeActionItem(fields map[string]any, index int, ownerName, sessionID string) model.ActionItem {
	item := model.ActionItem{OwnerName: ownerName, Status: model.StatusOpen}

	if id, ok := stringField(fields["id"]); ok && strings.TrimSpace(id) != "" {
		item.ID = id
	} else {
		item.ID = fmt.Sprintf("%s-action-%d", sessionID, index)
	}

	if desc, ok := stringField(fields["description"]); ok && strings.TrimSpace(desc) != "" {
		item.Description = desc
	} else {
		item.Description = missingDescription
	}

	if s, ok := stringField(fields["status"]); ok {
		if status, valid := model.ParseStatus(s); valid {
			item.Status = status
		}
	}

	due, ok := fields["dueDate"]
	if !ok {
		due = fields["due_date"]
	}
	item.DueDate = parseDueDate(due)
	return item
}

func stringField(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	}
	return "", false
}

// parseDueDate understands ISO strings, epoch milliseconds and timestamp objects
// with a seconds field.
func parseDueDate(v any) *time.Time {
	var t time.Time
	switch d := v.(type) {
	case time.Time:
		t = d.UTC()
	case *time.Time:
		if d == nil {
			return nil
		}
		t = d.UTC()
	case string:
		if strings.TrimSpace(d) == "" {
			return nil
		}
		parsed, err := model.ParseDate(d)
		if err != nil {
			return nil
		}
		t = parsed
	case json.Number:
		ms, err := d.Int64()
		if err != nil {
			return nil
		}
		t = time.UnixMilli(ms).UTC()
	case float64:
		t = time.UnixMilli(int64(d)).UTC()
	case map[string]any:
		secs, ok := d["seconds"]
		if !ok {
			secs = d["_seconds"]
		}
		n, ok := secs.(json.Number)
		if !ok {
			return nil
		}
		s, err := n.Int64()
		if err != nil {
			return nil
		}
		t = time.Unix(s, 0).UTC()
	default:
		return nil
	}
	return &t
}

type storedActionItem struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Status      string `json:"status"`
	DueDate     string `json:"dueDate,omitempty"`
}

func encodeActionItems(items []model.ActionItem) (string, error) {
	stored := make([]storedActionItem, 0, len(items))
	for _, item := range items {
		s := storedActionItem{ID: item.ID, Description: item.Description, Status: string(item.Status)}
		if item.DueDate != nil {
			s.DueDate = item.DueDate.UTC().Format(time.RFC3339Nano)
		}
		stored = append(stored, s)
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("encode action items: %w", err)
	}
	return string(data), nil
}

func decodeActionItems(data string) ([]RawActionItem, error) {
	if strings.TrimSpace(data) == "" {
		return nil, nil
	}
	var raw []RawActionItem
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("decode action items: %w", err)
	}
	return raw, nil
}
