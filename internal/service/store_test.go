package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"coachloop/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "coachloop.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestTeamMemberService(t *testing.T) {
	ctx := context.Background()
	svc := NewTeamMemberService(newTestDB(t))

	_, err := svc.CreateTeamMember(ctx, "   ")
	assert.True(t, errors.Is(err, ErrValidation))

	bo, err := svc.CreateTeamMember(ctx, "  Bo ")
	require.NoError(t, err)
	assert.Equal(t, "Bo", bo.Name)
	assert.NotEmpty(t, bo.ID)
	assert.NotNil(t, bo.CreatedAt)

	_, err = svc.CreateTeamMember(ctx, "Ada")
	require.NoError(t, err)

	list, err := svc.ListTeamMembers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ada", list[0].Name)
	assert.Equal(t, "Bo", list[1].Name)

	got, err := svc.GetTeamMember(ctx, bo.ID)
	require.NoError(t, err)
	assert.Equal(t, bo.ID, got.ID)

	missing, err := svc.GetTeamMember(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = svc.GetTeamMember(ctx, "")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestMatchTeamMember(t *testing.T) {
	members := []model.TeamMember{{ID: "1", Name: "Ada Lovelace"}, {ID: "2", Name: "Bo"}}
	assert.Equal(t, "2", MatchTeamMember("Bo", members).ID)
	assert.Equal(t, "1", MatchTeamMember("ada", members).ID)
	assert.Equal(t, "1", MatchTeamMember("Ada Lovelace (PM)", members).ID)
	assert.Nil(t, MatchTeamMember("Cy", members))
	assert.Nil(t, MatchTeamMember(" ", members))
}

func TestMatchTeamMemberAmbiguous(t *testing.T) {
	members := []model.TeamMember{{ID: "1", Name: "Alex Johnson"}, {ID: "2", Name: "Alice"}, {ID: "3", Name: "al"}}
	assert.Equal(t, "3", MatchTeamMember("AL", members).ID)
	assert.Nil(t, MatchTeamMember("Al ", members[:2]))
	assert.Equal(t, "2", MatchTeamMember("alic", members[:2]).ID)
}

func TestSessionServiceCreateAndList(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	members := NewTeamMemberService(db)
	svc := NewSessionService(db)

	ada, err := members.CreateTeamMember(ctx, "Ada")
	require.NoError(t, err)

	for _, d := range []time.Time{day(2024, 1, 5), day(2024, 3, 10), day(2024, 2, 1), day(2023, 12, 1)} {
		_, err := svc.CreateSession(ctx, &model.CoachingSession{
			TeamMemberName: "Ada",
			SessionDate:    d,
			Transcript:     "talked about " + d.Format(model.DateLayout),
			GrowthThemes:   []string{d.Month().String()},
			ActionItems:    []model.ActionItem{{ID: "x-" + d.Format(model.DateLayout), Description: "follow up", Status: model.StatusOpen}},
		}, ada.ID)
		require.NoError(t, err)
	}

	recent, err := svc.ListSessions(ctx, ada.ID, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.True(t, day(2024, 3, 10).Equal(recent[0].SessionDate))
	assert.True(t, day(2024, 2, 1).Equal(recent[1].SessionDate))
	assert.True(t, day(2024, 1, 5).Equal(recent[2].SessionDate))
	assert.Equal(t, "Ada", recent[0].ActionItems[0].OwnerName)
	assert.Equal(t, []string{}, recent[0].SkillsToDevelop)
	assert.NotNil(t, recent[0].CreatedAt)

	all, err := svc.ListSessions(ctx, ada.ID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := svc.ListSessions(ctx, "someone-else", 3)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = svc.ListSessions(ctx, " ", 3)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = svc.CreateSession(ctx, &model.CoachingSession{}, "")
	assert.True(t, errors.Is(err, ErrValidation))
	_, err = svc.CreateSession(ctx, nil, ada.ID)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestSessionServiceReadsLegacyActionItems(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewSessionService(db)

	rec := sessionRecord{
		TeamMemberID:   "tm-1",
		TeamMemberName: "Ada",
		SessionDate:    day(2024, 4, 1),
		ActionItems:    `["Read the book", {"description":"Demo","status":"in progress"}, 7]`,
	}
	require.NoError(t, db.Create(&rec).Error)

	got, err := svc.GetSession(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.ActionItems, 2)
	assert.Equal(t, "Read the book", got.ActionItems[0].Description)
	assert.Equal(t, model.StatusOpen, got.ActionItems[0].Status)
	assert.Equal(t, rec.ID+"-action-1", got.ActionItems[1].ID)
	assert.Equal(t, model.StatusInProgress, got.ActionItems[1].Status)
	assert.Equal(t, "Ada", got.ActionItems[1].OwnerName)

	broken := sessionRecord{TeamMemberID: "tm-1", SessionDate: day(2024, 4, 2), ActionItems: `{oops`}
	require.NoError(t, db.Create(&broken).Error)
	got, err = svc.GetSession(ctx, broken.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ActionItems)

	missing, err := svc.GetSession(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateSessionActionItems(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(newTestDB(t))

	id, err := svc.CreateSession(ctx, &model.CoachingSession{
		TeamMemberName: "Ada",
		SessionDate:    day(2024, 5, 1),
		Transcript:     "t",
		GrowthThemes:   []string{"focus"},
		ActionItems: []model.ActionItem{
			{ID: "a1", Description: "Write doc", Status: model.StatusOpen},
			{ID: "a2", Description: "Demo", Status: model.StatusOpen},
		},
	}, "tm-1")
	require.NoError(t, err)

	due := day(2024, 6, 1)
	require.NoError(t, svc.UpdateSessionActionItems(ctx, id, []model.ActionItem{
		{ID: "a1", Description: "Write doc", Status: model.StatusDone, DueDate: &due},
		{ID: "a2", Description: "Demo", Status: model.StatusOpen},
	}))

	got, err := svc.GetSession(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.ActionItems, 2)
	assert.Equal(t, model.StatusDone, got.ActionItems[0].Status)
	require.NotNil(t, got.ActionItems[0].DueDate)
	assert.True(t, due.Equal(*got.ActionItems[0].DueDate))
	assert.Equal(t, []string{"focus"}, got.GrowthThemes)

	// same payload again still counts as a match
	require.NoError(t, svc.UpdateSessionActionItems(ctx, id, got.ActionItems))

	require.NoError(t, svc.UpdateSessionActionItems(ctx, id, []model.ActionItem{}))
	got, err = svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.ActionItems)

	err = svc.UpdateSessionActionItems(ctx, "nope", []model.ActionItem{})
	assert.True(t, errors.Is(err, ErrNotFound))

	err = svc.UpdateSessionActionItems(ctx, "", nil)
	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, KindValidation, f.Kind)
	assert.Equal(t, []string{"Session ID is required.", "Action items are required."}, f.Issues)
}
