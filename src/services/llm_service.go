// backend/src/services/llm_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/username/adlytics/backend/src/config"
	"github.com/username/adlytics/backend/src/logger"
	"github.com/username/adlytics/backend/src/models"
)

// InsightService turns an analytics snapshot into natural-language insights.
// Implementations must be best-effort: analytics endpoints never fail because
// an upstream language model is down.
type InsightService interface {
	GenerateInsights(ctx context.Context, analytics *models.Analytics) (*models.Insights, error)
}

func NewInsightService() InsightService {
	if config.Cfg == nil {
		logger.L.Error("Configuration (config.Cfg) is nil. Insight service will default to stub.")
		return &StubInsightService{}
	}

	provider := strings.ToLower(config.Cfg.InsightProvider)
	logger.L.Info("Initializing insight service", "provider", provider)

	switch provider {
	case "openrouter":
		if config.Cfg.OpenRouterAPIKey == "" {
			logger.L.Warn("OpenRouter configuration incomplete (API key missing). Falling back to StubInsightService.")
			return &StubInsightService{}
		}
		return &OpenRouterInsightService{
			apiKey:  config.Cfg.OpenRouterAPIKey,
			model:   config.Cfg.OpenRouterModel,
			baseURL: config.Cfg.OpenRouterBaseURL,
			client:  &http.Client{Timeout: 30 * time.Second},
		}
	default:
		logger.L.Info("Defaulting to StubInsightService.")
		return &StubInsightService{}
	}
}

// OpenRouterInsightService calls an OpenAI-compatible chat completions
// endpoint hosted by OpenRouter.
type OpenRouterInsightService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const insightSystemPrompt = "You are an Amazon advertising analyst helping self-published authors. " +
	"Given campaign performance data, respond with JSON containing three string arrays: " +
	"\"insights\", \"recommendations\" and \"priority_actions\". Be specific and actionable."

func (s *OpenRouterInsightService) GenerateInsights(ctx context.Context, analytics *models.Analytics) (*models.Insights, error) {
	payload, err := json.Marshal(chatCompletionRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: insightSystemPrompt},
			{Role: "user", Content: buildInsightPrompt(analytics)},
		},
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling insight request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building insight request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling openrouter: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openrouter returned status %d", resp.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("decoding openrouter response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("openrouter returned no choices")
	}

	content := completion.Choices[0].Message.Content
	insights := parseInsightContent(content)
	return insights, nil
}

// parseInsightContent interprets the model's reply as the expected JSON
// document. Models occasionally ignore format instructions, so a reply that
// fails to parse is preserved verbatim as a single insight rather than
// discarded.
func parseInsightContent(content string) *models.Insights {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var insights models.Insights
	if err := json.Unmarshal([]byte(trimmed), &insights); err != nil {
		logger.L.Warn("Insight response was not valid JSON, keeping raw text", "error", err)
		return &models.Insights{Insights: []string{content}}
	}
	return &insights
}

func buildInsightPrompt(analytics *models.Analytics) string {
	var b strings.Builder
	s := analytics.PerformanceSummary
	fmt.Fprintf(&b, "Overall performance:\n")
	fmt.Fprintf(&b, "- Spend: $%.2f, Sales: $%.2f\n", s.TotalSpend, s.TotalSales)
	fmt.Fprintf(&b, "- Impressions: %d, Clicks: %d\n", s.TotalImpressions, s.TotalClicks)
	fmt.Fprintf(&b, "- ACOS: %.2f%%, ROAS: %.2f, CTR: %.2f%%, CPC: $%.2f\n",
		s.OverallACOS, s.OverallROAS, s.OverallCTR, s.OverallCPC)

	if analytics.CampaignAnalysis != nil {
		fmt.Fprintf(&b, "\nCampaigns analysed: %d\n", analytics.CampaignAnalysis.TotalCampaigns)
		if len(analytics.CampaignAnalysis.TopPerformers) > 0 {
			fmt.Fprintf(&b, "Top performers by ROAS:\n")
			for _, c := range analytics.CampaignAnalysis.TopPerformers {
				fmt.Fprintf(&b, "- %s: ROAS %.2f, ACOS %.2f%%, spend $%.2f\n", c.Name, c.ROAS, c.ACOS, c.TotalSpend)
			}
		}
		if len(analytics.CampaignAnalysis.WorstPerformers) > 0 {
			fmt.Fprintf(&b, "Worst performers by ACOS:\n")
			for _, c := range analytics.CampaignAnalysis.WorstPerformers {
				fmt.Fprintf(&b, "- %s: ACOS %.2f%%, ROAS %.2f, spend $%.2f\n", c.Name, c.ACOS, c.ROAS, c.TotalSpend)
			}
		}
	}
	if analytics.TrendAnalysis != nil {
		fmt.Fprintf(&b, "\nTrend direction: %s\n", analytics.TrendAnalysis.TrendDirection)
	}
	b.WriteString("\nProvide insights, recommendations and priority actions for this account.")
	return b.String()
}

// StubInsightService produces deterministic insights from threshold checks
// on the summary. It backs development setups and any environment without an
// API key, and is the fallback when the remote provider fails.
type StubInsightService struct{}

func (s *StubInsightService) GenerateInsights(_ context.Context, analytics *models.Analytics) (*models.Insights, error) {
	out := &models.Insights{
		Insights:        []string{},
		Recommendations: []string{},
		PriorityActions: []string{},
	}
	if analytics == nil || analytics.PerformanceSummary == nil {
		out.Insights = append(out.Insights, "No performance data available yet. Upload a report to get started.")
		return out, nil
	}

	sum := analytics.PerformanceSummary
	switch {
	case sum.OverallACOS > 50:
		out.Insights = append(out.Insights,
			fmt.Sprintf("Your overall ACOS of %.1f%% is above the 50%% profitability line for most KDP royalty rates.", sum.OverallACOS))
		out.Recommendations = append(out.Recommendations,
			"Reduce bids on your highest-ACOS campaigns and pause keywords with spend but no sales.")
		out.PriorityActions = append(out.PriorityActions,
			"Review worst-performing campaigns and cut wasted spend this week.")
	case sum.OverallACOS > 30:
		out.Insights = append(out.Insights,
			fmt.Sprintf("Your overall ACOS of %.1f%% is workable but leaves little margin after printing costs.", sum.OverallACOS))
		out.Recommendations = append(out.Recommendations,
			"Trim bids selectively where ACOS exceeds your royalty percentage.")
	default:
		out.Insights = append(out.Insights,
			fmt.Sprintf("Your overall ACOS of %.1f%% is healthy. There is room to scale spend on proven campaigns.", sum.OverallACOS))
		out.Recommendations = append(out.Recommendations,
			"Increase budgets gradually on campaigns with ROAS above 3 and monitor weekly.")
	}

	if sum.OverallCTR > 0 && sum.OverallCTR < 0.3 {
		out.Insights = append(out.Insights,
			fmt.Sprintf("Click-through rate of %.2f%% is low, which usually points at weak targeting or an unappealing cover/title.", sum.OverallCTR))
		out.Recommendations = append(out.Recommendations,
			"Tighten keyword targeting and test new ad creative to lift CTR.")
	}

	if analytics.TrendAnalysis != nil {
		switch analytics.TrendAnalysis.TrendDirection {
		case models.TrendImproving:
			out.Insights = append(out.Insights, "ACOS is trending down over the reporting period. Recent changes are working.")
		case models.TrendDeclining:
			out.Insights = append(out.Insights, "ACOS is trending up over the reporting period. Efficiency is slipping.")
			out.PriorityActions = append(out.PriorityActions, "Investigate what changed in the most recent days of the report.")
		}
	}

	if len(out.PriorityActions) == 0 {
		out.PriorityActions = append(out.PriorityActions, "Keep uploading fresh reports to track week-over-week performance.")
	}
	return out, nil
}
