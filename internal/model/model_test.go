package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want ActionItemStatus
		ok   bool
	}{
		{"open", StatusOpen, true},
		{"in-progress", StatusInProgress, true},
		{"in progress", StatusInProgress, true},
		{"done", StatusDone, true},
		{"DONE", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseStatus(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-03-01T10:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC), d)

	_, err = ParseDate("March 1st")
	assert.Error(t, err)
}

func TestActionItemUnmarshalDateOnly(t *testing.T) {
	var items []ActionItem
	err := json.Unmarshal([]byte(`[
		{"id":"a1","description":"Follow up","status":"done","due_date":"2024-04-01"},
		{"id":"a2","description":"Read book","status":"open","due_date":""}
	]`), &items)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "a1", items[0].ID)
	assert.Equal(t, StatusDone, items[0].Status)
	require.NotNil(t, items[0].DueDate)
	assert.Equal(t, "2024-04-01", items[0].DueDate.Format(DateLayout))
	assert.Nil(t, items[1].DueDate)
}

func TestActionItemUnmarshalBadDate(t *testing.T) {
	var item ActionItem
	err := json.Unmarshal([]byte(`{"id":"a1","due_date":"soon"}`), &item)
	assert.Error(t, err)
}

func TestInsightsEmpty(t *testing.T) {
	var nilInsights *Insights
	assert.True(t, nilInsights.Empty())
	assert.True(t, (&Insights{}).Empty())
	assert.False(t, (&Insights{ActionItems: []string{"x"}}).Empty())
}
