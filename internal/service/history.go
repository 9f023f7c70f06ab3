package service

import (
	"fmt"
	"strings"

	"coachloop/internal/model"
)

// FormatHistoricalContext reduces prior sessions, newest first, to one line per session
// for the extraction prompt. It reports false when no session has anything to say.
func FormatHistoricalContext(sessions []model.CoachingSession) (string, bool) {
	var lines []string
	for _, s := range sessions {
		var parts []string
		if len(s.GrowthThemes) > 0 {
			parts = append(parts, "Growth Themes: "+strings.Join(s.GrowthThemes, ", "))
		}
		if len(s.SkillsToDevelop) > 0 {
			parts = append(parts, "Skills to Develop: "+strings.Join(s.SkillsToDevelop, ", "))
		}
		var descs []string
		for _, item := range s.ActionItems {
			if d := strings.TrimSpace(item.Description); d != "" {
				descs = append(descs, d)
			}
		}
		if len(descs) > 0 {
			parts = append(parts, "Previous Action Items: "+strings.Join(descs, ", "))
		}
		if len(parts) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("On %s: %s.", s.SessionDate.UTC().Format(model.DateLayout), strings.Join(parts, "; ")))
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}
