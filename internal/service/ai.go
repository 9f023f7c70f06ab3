package service

import (
	"context"
	"fmt"
	"strings"

	"coachloop/internal/llm"
	"coachloop/internal/model"

	"golang.org/x/time/rate"
)

type AIService struct {
	llm     llm.Completer
	limiter *rate.Limiter
}

// NewAIService wraps a completer. A nil limiter means calls are not throttled.
func NewAIService(c llm.Completer, limiter *rate.Limiter) *AIService {
	return &AIService{llm: c, limiter: limiter}
}

// NewLimiter allows perMinute extraction calls per minute with a burst of the same size.
func NewLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(float64(perMinute)/60), perMinute)
}

const insightsSystemPrompt = `You are an AI assistant designed to analyze coaching session transcripts and extract key insights.
You need to help team members grow over time.

Reply with a single JSON object and nothing else:
{"growthThemes":[string],"skillsToDevelop":[string],"suggestedCoachingQuestions":[string],"actionItems":[string]}
Each action item is one short imperative sentence.`

// BuildInsightsPrompt renders the user message. The historical block is present only
// when historicalSummary is non-empty.
func BuildInsightsPrompt(transcript, historicalSummary string) string {
	var sb strings.Builder
	if historicalSummary != "" {
		sb.WriteString("Consider the following summary of key points from recent previous sessions with this team member:\n")
		sb.WriteString("--- HISTORICAL SUMMARY START ---\n")
		sb.WriteString(historicalSummary)
		sb.WriteString("\n--- HISTORICAL SUMMARY END ---\n")
		sb.WriteString("When generating your insights, reflect on this history. For example, if a skill was identified previously, " +
			"note if there's progress or if it remains an area for development. If new themes emerge, consider how they relate to past discussions.\n\n")
	} else {
		sb.WriteString("No summary of recent past sessions was provided. Base your analysis solely on the current transcript.\n\n")
	}
	sb.WriteString("Based on the provided CURRENT transcript")
	if historicalSummary != "" {
		sb.WriteString(" AND the historical summary above")
	}
	sb.WriteString(", identify the following:\n")
	sb.WriteString("- Key growth themes for the team member.\n")
	sb.WriteString("- Skills that the team member should develop.\n")
	sb.WriteString("- Suggested coaching questions to help the team member improve.\n")
	sb.WriteString("- Action items for the team member.\n\n")
	sb.WriteString("Current Transcript:\n")
	sb.WriteString(transcript)
	return sb.String()
}

// ExtractInsights makes exactly one model call. An empty historicalSummary means there
// is no history.
func (s *AIService) ExtractInsights(ctx context.Context, transcript, historicalSummary string) (*model.Insights, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, validationFailure("Transcript cannot be empty.")
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, &Failure{Kind: KindExtraction, Message: "AI service is busy, please try again shortly.", Err: err}
		}
	}

	reply, err := s.llm.Complete(ctx, insightsSystemPrompt, BuildInsightsPrompt(transcript, historicalSummary))
	if err != nil {
		return nil, &Failure{Kind: KindExtraction, Message: fmt.Sprintf("Failed to process transcript: %v", err), Err: err}
	}

	insights, err := llm.ParseJSON[*model.Insights](reply)
	if err != nil {
		return nil, &Failure{Kind: KindExtraction, Message: fmt.Sprintf("Failed to process transcript: %v", err), Err: err}
	}
	if insights.Empty() {
		return nil, &Failure{
			Kind:    KindEmptyResult,
			Message: "AI processing returned no insights. The transcript might be too short or unclear.",
		}
	}
	return insights, nil
}
