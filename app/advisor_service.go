package app

import (
	"context"
	"fmt"
	"strings"

	"gocrop/domain/stats"
	"gocrop/internal"
	"gocrop/internal/config"
	"gocrop/internal/errors"
	"gocrop/ports"
)

// fallbackAdvice is returned when the provider answers with an empty message
const fallbackAdvice = "I couldn't generate an insight at this time."

// maxQuestionLength bounds the user question sent to the provider
const maxQuestionLength = 2000

// AdvisorService answers agronomy questions using the dataset statistics as context
type AdvisorService struct {
	crops  *CropService
	client ports.LLMClient // nil when the advisor is not configured
	config config.AdvisorConfig
	logger *internal.Logger
}

// AdviceResponse is the advisor's answer and the context it was given
type AdviceResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Context  string `json:"context"`
	Model    string `json:"model"`
}

// NewAdvisorService creates an advisor. A nil client disables it.
func NewAdvisorService(crops *CropService, client ports.LLMClient, cfg config.AdvisorConfig, logger *internal.Logger) *AdvisorService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AdvisorService{crops: crops, client: client, config: cfg, logger: logger}
}

// Enabled reports whether an LLM client is wired in
func (s *AdvisorService) Enabled() bool {
	return s.client != nil
}

// Ask sends question together with the current ranking and summary
func (s *AdvisorService) Ask(ctx context.Context, question string) (*AdviceResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.ValidationError("question is required")
	}
	if len(question) > maxQuestionLength {
		return nil, errors.ValidationError(fmt.Sprintf("question exceeds %d characters", maxQuestionLength))
	}
	if !s.Enabled() {
		return nil, errors.ExternalServiceError("llm", fmt.Errorf("advisor is not configured; set LLM_API_KEY"))
	}

	summary, err := s.crops.Summary(ctx)
	if err != nil {
		return nil, err
	}
	ranking, err := s.crops.Rank(ctx, true)
	if err != nil {
		return nil, err
	}

	contextText := BuildAdvisorContext(summary, ranking)
	prompt := buildAdvisorPrompt(question, contextText)

	answer, err := s.client.ChatCompletion(ctx, s.config.Model, prompt, s.config.MaxTokens)
	if err != nil {
		s.logger.Error("[AdvisorService] LLM call failed: %v", err)
		return nil, errors.ExternalServiceError("llm", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = fallbackAdvice
	}

	return &AdviceResponse{
		Question: question,
		Answer:   answer,
		Context:  contextText,
		Model:    s.config.Model,
	}, nil
}

// BuildAdvisorContext summarizes the dataset and feature ranking as plain text
func BuildAdvisorContext(summary stats.DatasetSummary, ranking []stats.FeatureRankEntry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Dataset: %d records across %d crops.\n", summary.TotalRecords, summary.CropCount)
	if len(summary.CropDistribution) > 0 {
		parts := make([]string, 0, len(summary.CropDistribution))
		for _, share := range summary.CropDistribution {
			parts = append(parts, fmt.Sprintf("%s %.1f%%", share.Crop, share.Percentage))
		}
		fmt.Fprintf(&b, "Crop distribution: %s.\n", strings.Join(parts, ", "))
	}

	fmt.Fprintf(&b, "We analyzed %d features to predict crop type. Feature importance (F-score, higher separates crops better):\n", len(ranking))
	for _, e := range ranking {
		fmt.Fprintf(&b, "- %s: Score %.2f\n", e.Feature, e.FScore)
	}
	return b.String()
}

func buildAdvisorPrompt(question, contextText string) string {
	return fmt.Sprintf(`You are an expert agricultural consultant.
Use the following statistical context about a farming dataset to answer the user's question.

Context:
%s
User Question: %s

Keep your answer concise, practical, and farmer-friendly.`, contextText, question)
}
