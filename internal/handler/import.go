package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"coachloop/internal/logger"
	"coachloop/internal/model"
	"coachloop/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	previewTTL      = 10 * time.Minute
	maxImportUpload = 16 << 20
)

type ImportMemberStore interface {
	ListTeamMembers(ctx context.Context) ([]model.TeamMember, error)
	CreateTeamMember(ctx context.Context, name string) (*model.TeamMember, error)
}

type SessionCreator interface {
	CreateSession(ctx context.Context, session *model.CoachingSession, teamMemberID string) (string, error)
}

// ImportHandler loads sessions exported from the previous document store. Preview parses
// and caches; confirm writes what the preview showed.
type ImportHandler struct {
	members  ImportMemberStore
	sessions SessionCreator
	cache    sync.Map // token -> *previewCache
	stop     chan struct{}
	once     sync.Once
}

type previewCache struct {
	entries   []importEntry
	createdAt time.Time
}

// legacySession is one document of the export: camelCase keys, action items as plain
// strings or objects.
type legacySession struct {
	TeamMemberName             string                  `json:"teamMemberName"`
	SessionDate                string                  `json:"sessionDate"`
	Transcript                 string                  `json:"transcript"`
	GrowthThemes               []string                `json:"growthThemes"`
	SkillsToDevelop            []string                `json:"skillsToDevelop"`
	SuggestedCoachingQuestions []string                `json:"suggestedCoachingQuestions"`
	ActionItems                []service.RawActionItem `json:"actionItems"`
}

type importEntry struct {
	Index   int                   `json:"index"`
	Session model.CoachingSession `json:"session"`
	Matched bool                  `json:"matched"`
	Error   string                `json:"error,omitempty"`
}

func NewImportHandler(members ImportMemberStore, sessions SessionCreator) *ImportHandler {
	h := &ImportHandler{members: members, sessions: sessions, stop: make(chan struct{})}
	go h.sweepLoop(5 * time.Minute)
	return h
}

// Close stops the expiry sweep. Cached previews stay readable.
func (h *ImportHandler) Close() {
	h.once.Do(func() { close(h.stop) })
}

func (h *ImportHandler) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			h.sweep(now)
		case <-h.stop:
			return
		}
	}
}

func (h *ImportHandler) sweep(now time.Time) {
	h.cache.Range(func(k, v any) bool {
		if now.Sub(v.(*previewCache).createdAt) > previewTTL {
			h.cache.Delete(k)
		}
		return true
	})
}

// Preview handles POST /api/import/preview. The export comes as multipart "file" or as
// the raw request body.
func (h *ImportHandler) Preview(c *gin.Context) {
	data, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var docs []legacySession
	if err := json.Unmarshal(data, &docs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be a JSON array of sessions"})
		return
	}

	ctx := c.Request.Context()
	members, err := h.members.ListTeamMembers(ctx)
	if err != nil {
		respondFailure(c, err)
		return
	}

	token, err := genToken()
	if err != nil {
		logger.Error("import preview: token failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "preview unavailable"})
		return
	}
	entries := make([]importEntry, 0, len(docs))
	unmatchedSet := map[string]bool{}
	unmatched := []string{}
	for i, doc := range docs {
		e := buildImportEntry(i, doc, token, members)
		if e.Error == "" && !e.Matched && !unmatchedSet[e.Session.TeamMemberName] {
			unmatchedSet[e.Session.TeamMemberName] = true
			unmatched = append(unmatched, e.Session.TeamMemberName)
		}
		entries = append(entries, e)
	}
	h.cache.Store(token, &previewCache{entries: entries, createdAt: time.Now()})

	logger.Info("import preview: done", "token", token, "entries", len(entries), "unmatched", len(unmatched))
	c.JSON(http.StatusOK, gin.H{
		"token":             token,
		"entries":           entries,
		"unmatched_members": unmatched,
	})
}

func buildImportEntry(i int, doc legacySession, token string, members []model.TeamMember) importEntry {
	name := strings.TrimSpace(doc.TeamMemberName)
	e := importEntry{Index: i}
	e.Session = model.CoachingSession{
		TeamMemberName:             name,
		Transcript:                 doc.Transcript,
		GrowthThemes:               doc.GrowthThemes,
		SkillsToDevelop:            doc.SkillsToDevelop,
		SuggestedCoachingQuestions: doc.SuggestedCoachingQuestions,
	}
	if m := service.MatchTeamMember(name, members); m != nil {
		e.Matched = true
		e.Session.TeamMemberID = m.ID
		e.Session.TeamMemberName = m.Name
	}
	// owner labels follow the stored member name, not the spelling in the export
	e.Session.ActionItems = service.NormalizeActionItems(doc.ActionItems, e.Session.TeamMemberName,
		fmt.Sprintf("import-%s-%d", token[:8], i))
	if name == "" {
		e.Error = "missing teamMemberName"
		return e
	}
	date, err := model.ParseDate(doc.SessionDate)
	if err != nil {
		e.Error = "invalid sessionDate"
		return e
	}
	e.Session.SessionDate = date
	return e
}

// Confirm handles POST /api/import/confirm.
func (h *ImportHandler) Confirm(c *gin.Context) {
	var req struct {
		Token         string `json:"token"`
		CreateMissing bool   `json:"create_missing"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}
	val, ok := h.cache.LoadAndDelete(req.Token)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "preview expired, please upload again"})
		return
	}
	cached := val.(*previewCache)
	logger.Info("import confirm: start", "token", req.Token, "entries", len(cached.entries), "create_missing", req.CreateMissing)

	ctx := c.Request.Context()
	created := map[string]*model.TeamMember{}
	skippedSet := map[string]bool{}
	skippedMembers := []string{}
	imported, skipped, failed := 0, 0, 0
	for _, e := range cached.entries {
		if e.Error != "" {
			skipped++
			continue
		}
		sess := e.Session
		if !e.Matched {
			if !req.CreateMissing {
				if !skippedSet[sess.TeamMemberName] {
					skippedSet[sess.TeamMemberName] = true
					skippedMembers = append(skippedMembers, sess.TeamMemberName)
				}
				skipped++
				continue
			}
			m, ok := created[sess.TeamMemberName]
			if !ok {
				var err error
				if m, err = h.members.CreateTeamMember(ctx, sess.TeamMemberName); err != nil {
					logger.Error("import: create team member failed", "name", sess.TeamMemberName, "err", err)
					failed++
					continue
				}
				created[sess.TeamMemberName] = m
			}
			sess.TeamMemberID = m.ID
		}
		if _, err := h.sessions.CreateSession(ctx, &sess, sess.TeamMemberID); err != nil {
			logger.Error("import: save session failed", "index", e.Index, "err", err)
			failed++
			continue
		}
		imported++
	}

	logger.Info("import confirm: done", "imported", imported, "skipped", skipped, "failed", failed, "created_members", len(created))
	c.JSON(http.StatusOK, gin.H{
		"imported":        imported,
		"skipped":         skipped,
		"failed":          failed,
		"created_members": len(created),
		"skipped_members": skippedMembers,
		"total":           len(cached.entries),
	})
}

func readUpload(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("cannot read upload")
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxImportUpload))
	}
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportUpload))
	if err != nil || len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("please upload a file")
	}
	return data, nil
}

func genToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(b), nil
}
