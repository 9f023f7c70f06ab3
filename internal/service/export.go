package service

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"coachloop/internal/model"

	"github.com/jung-kurt/gofpdf"
)

const dueDateLayout = "Jan 2, 2006"

type exportSection struct {
	title string
	rule  string
	items []string
}

func exportSections(s *model.CoachingSession) []exportSection {
	short := strings.Repeat("-", 25)
	actions := make([]string, 0, len(s.ActionItems))
	for _, item := range s.ActionItems {
		line := fmt.Sprintf("[%s] %s", item.Status, item.Description)
		if item.DueDate != nil {
			line += fmt.Sprintf(" (Due: %s)", item.DueDate.UTC().Format(dueDateLayout))
		}
		actions = append(actions, line)
	}
	return []exportSection{
		{"Key Growth Themes:", short, s.GrowthThemes},
		{"Skills to Develop:", short, s.SkillsToDevelop},
		{"Suggested Coaching Questions (for next 1:1):", strings.Repeat("-", 45), s.SuggestedCoachingQuestions},
		{"Action Items:", short, actions},
	}
}

// FormatSessionText renders the plain-text summary a manager downloads.
func FormatSessionText(s *model.CoachingSession) string {
	var sb strings.Builder
	sb.WriteString("CoachLoop Session Summary\n")
	sb.WriteString("=========================\n\n")
	fmt.Fprintf(&sb, "Team Member: %s\n", s.TeamMemberName)
	fmt.Fprintf(&sb, "Session Date: %s\n\n", s.SessionDate.UTC().Format(model.DateLayout))
	for _, sec := range exportSections(s) {
		fmt.Fprintf(&sb, "%s\n%s\n%s\n", sec.rule, sec.title, sec.rule)
		for _, item := range sec.items {
			fmt.Fprintf(&sb, "- %s\n", item)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9]`)

// ExportFileName builds coachloop_insights_<name>_<date>.<ext>.
func ExportFileName(s *model.CoachingSession, ext string) string {
	safe := unsafeNameChars.ReplaceAllString(strings.ToLower(s.TeamMemberName), "_")
	return fmt.Sprintf("coachloop_insights_%s_%s.%s", safe, s.SessionDate.UTC().Format(model.DateLayout), ext)
}

// RenderSessionPDF writes the same summary as FormatSessionText as an A4 PDF.
func RenderSessionPDF(w io.Writer, s *model.CoachingSession) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("CoachLoop Session Summary", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(190, 10, "CoachLoop Session Summary", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(190, 6, tr("Team Member: "+s.TeamMemberName))
	pdf.Ln(6)
	pdf.Cell(190, 6, "Session Date: "+s.SessionDate.UTC().Format(model.DateLayout))
	pdf.Ln(10)

	for _, sec := range exportSections(s) {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(190, 8, strings.TrimSuffix(sec.title, ":"))
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		if len(sec.items) == 0 {
			pdf.SetFont("Arial", "I", 10)
			pdf.Cell(190, 5, "None")
			pdf.Ln(5)
		}
		for _, item := range sec.items {
			pdf.MultiCell(190, 5, tr("- "+item), "", "", false)
		}
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
