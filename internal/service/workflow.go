package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"coachloop/internal/config"
	"coachloop/internal/logger"
	"coachloop/internal/model"
)

// NewTeamMemberSelector in SubmitRequest.TeamMemberID asks the workflow to create the
// team member named by NewTeamMemberName.
const NewTeamMemberSelector = "new"

type Stage int

const (
	StageValidating Stage = iota
	StageResolvingTeamMember
	StageGatheringHistory
	StageExtracting
	StageNormalizing
	StagePersisting
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageValidating:
		return "validating"
	case StageResolvingTeamMember:
		return "resolving_team_member"
	case StageGatheringHistory:
		return "gathering_history"
	case StageExtracting:
		return "extracting"
	case StageNormalizing:
		return "normalizing"
	case StagePersisting:
		return "persisting"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type TeamMemberStore interface {
	CreateTeamMember(ctx context.Context, name string) (*model.TeamMember, error)
	GetTeamMember(ctx context.Context, id string) (*model.TeamMember, error)
}

type SessionStore interface {
	ListSessions(ctx context.Context, teamMemberID string, limit int) ([]model.CoachingSession, error)
	CreateSession(ctx context.Context, session *model.CoachingSession, teamMemberID string) (string, error)
	UpdateSessionActionItems(ctx context.Context, sessionID string, items []model.ActionItem) error
}

type InsightExtractor interface {
	ExtractInsights(ctx context.Context, transcript, historicalSummary string) (*model.Insights, error)
}

// Workflow turns a transcript submission into a persisted coaching session.
type Workflow struct {
	members          TeamMemberStore
	sessions         SessionStore
	extractor        InsightExtractor
	historyWindow    int
	minTranscriptLen int
}

func NewWorkflow(members TeamMemberStore, sessions SessionStore, extractor InsightExtractor, cfg config.CoachingConfig) *Workflow {
	w := &Workflow{
		members:          members,
		sessions:         sessions,
		extractor:        extractor,
		historyWindow:    cfg.HistoryWindow,
		minTranscriptLen: cfg.MinTranscriptLength,
	}
	if w.historyWindow <= 0 {
		w.historyWindow = 3
	}
	if w.minTranscriptLen <= 0 {
		w.minTranscriptLen = 10
	}
	return w
}

func (w *Workflow) Submit(ctx context.Context, req model.SubmitRequest) (*model.CoachingSession, error) {
	return w.SubmitWithProgress(ctx, req, nil)
}

// SubmitWithProgress runs the submission and calls progress with every stage entered,
// ending with StageDone or StageFailed. The session is written once, as the last step.
func (w *Workflow) SubmitWithProgress(ctx context.Context, req model.SubmitRequest, progress func(Stage)) (_ *model.CoachingSession, err error) {
	enter := func(s Stage) {
		if progress != nil {
			progress(s)
		}
	}
	defer func() {
		if err != nil {
			f := AsFailure(err)
			logger.Warn("workflow.failed", "kind", f.Kind.String(), "err", f)
			err = f
			enter(StageFailed)
		}
	}()

	enter(StageValidating)
	sessionDate, err := w.validate(req)
	if err != nil {
		return nil, err
	}

	enter(StageResolvingTeamMember)
	isNew := req.TeamMemberID == NewTeamMemberSelector
	var member *model.TeamMember
	if isNew {
		member, err = w.members.CreateTeamMember(ctx, req.NewTeamMemberName)
		if err != nil {
			return nil, err
		}
		logger.Info("workflow.team_member_created", "id", member.ID, "name", member.Name)
	} else {
		member, err = w.members.GetTeamMember(ctx, req.TeamMemberID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, notFoundFailure(fmt.Sprintf("Selected team member with ID %s not found.", req.TeamMemberID))
		}
	}

	var history string
	if !isNew {
		enter(StageGatheringHistory)
		history = w.gatherHistory(ctx, member.ID)
	}

	enter(StageExtracting)
	insights, err := w.extractor.ExtractInsights(ctx, req.Transcript, history)
	if err != nil {
		var f *Failure
		if !errors.As(err, &f) {
			err = &Failure{Kind: KindExtraction, Message: fmt.Sprintf("Failed to process transcript: %v", err), Err: err}
		}
		return nil, err
	}

	enter(StageNormalizing)
	raw := make([]RawActionItem, 0, len(insights.ActionItems))
	for _, desc := range insights.ActionItems {
		raw = append(raw, PlainActionItem(desc))
	}
	session := &model.CoachingSession{
		TeamMemberID:               member.ID,
		TeamMemberName:             member.Name,
		SessionDate:                sessionDate,
		Transcript:                 req.Transcript,
		GrowthThemes:               nonNil(insights.GrowthThemes),
		SkillsToDevelop:            nonNil(insights.SkillsToDevelop),
		SuggestedCoachingQuestions: nonNil(insights.SuggestedCoachingQuestions),
		ActionItems:                NormalizeActionItems(raw, member.Name, ""),
	}

	enter(StagePersisting)
	id, err := w.sessions.CreateSession(ctx, session, member.ID)
	if err != nil {
		return nil, err
	}
	session.ID = id
	logger.Info("workflow.session_saved", "session_id", id, "team_member_id", member.ID,
		"with_history", history != "", "action_items", len(session.ActionItems))

	enter(StageDone)
	return session, nil
}

// gatherHistory is best effort: a failed fetch means extraction runs without context.
func (w *Workflow) gatherHistory(ctx context.Context, teamMemberID string) string {
	past, err := w.sessions.ListSessions(ctx, teamMemberID, w.historyWindow)
	if err != nil {
		logger.Warn("workflow.history_unavailable", "team_member_id", teamMemberID, "err", err)
		return ""
	}
	digest, ok := FormatHistoricalContext(past)
	if !ok {
		return ""
	}
	return digest
}

func (w *Workflow) validate(req model.SubmitRequest) (sessionDate time.Time, err error) {
	var issues []string
	if utf8.RuneCountInString(strings.TrimSpace(req.Transcript)) < w.minTranscriptLen {
		issues = append(issues, fmt.Sprintf("Transcript must be at least %d characters long.", w.minTranscriptLen))
	}
	if strings.TrimSpace(req.TeamMemberID) == "" {
		issues = append(issues, "Team member selection is required.")
	} else if req.TeamMemberID == NewTeamMemberSelector && strings.TrimSpace(req.NewTeamMemberName) == "" {
		issues = append(issues, "New team member name is required when 'Add New' is selected.")
	}
	if strings.TrimSpace(req.SessionDate) == "" {
		issues = append(issues, "Session date cannot be empty.")
	} else if sessionDate, err = model.ParseDate(req.SessionDate); err != nil {
		issues = append(issues, "Session date must be an ISO-8601 date.")
	}
	if len(issues) > 0 {
		return sessionDate, validationFailure(issues...)
	}
	return sessionDate, nil
}

// UpdateActionItems replaces a session's action items. Items are re-normalized so
// statuses are canonical and every item has an id and description.
func (w *Workflow) UpdateActionItems(ctx context.Context, sessionID string, items []model.ActionItem) error {
	var issues []string
	if strings.TrimSpace(sessionID) == "" {
		issues = append(issues, "Session ID is required.")
	}
	if items == nil {
		issues = append(issues, "Action items are required.")
	}
	if len(issues) > 0 {
		return validationFailure(issues...)
	}

	raw := make([]RawActionItem, 0, len(items))
	for _, item := range items {
		raw = append(raw, RawFromActionItem(item))
	}
	if err := w.sessions.UpdateSessionActionItems(ctx, sessionID, NormalizeActionItems(raw, "", sessionID)); err != nil {
		f := AsFailure(err)
		logger.Warn("workflow.update_action_items_failed", "session_id", sessionID, "err", f)
		return f
	}
	logger.Info("workflow.action_items_updated", "session_id", sessionID, "count", len(items))
	return nil
}

// UpdateActionItemsAsync returns at once; the persistence outcome arrives on the
// channel, which is closed afterwards. Nothing is rolled back on failure.
func (w *Workflow) UpdateActionItemsAsync(ctx context.Context, sessionID string, items []model.ActionItem) <-chan error {
	ch := make(chan error, 1)
	ctx = context.WithoutCancel(ctx)
	go func() {
		defer close(ch)
		ch <- w.UpdateActionItems(ctx, sessionID, items)
	}()
	return ch
}
