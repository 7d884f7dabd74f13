package classify

import (
	"encoding/json"
	"fmt"
	"strings"

	"leadsnap-engine/internal/domain"
)

const (
	defaultSummary  = "No summary"
	defaultNextStep = "Review manually"
)

// NotConfigured is returned when no API key is available.
func NotConfigured() domain.LeadAnalysis {
	return domain.LeadAnalysis{
		Summary:   "API key not configured",
		Status:    domain.StatusCold,
		NextStep:  "Configure OpenAI API key",
		DealValue: domain.UnknownValue,
	}
}

// Failed is returned when the service call or the response parsing failed.
func Failed(err error) domain.LeadAnalysis {
	return domain.LeadAnalysis{
		Summary:   "AI analysis failed: " + err.Error(),
		Status:    domain.StatusCold,
		NextStep:  "Manual review required",
		DealValue: domain.UnknownValue,
	}
}

// ParseAnalysis decodes the model's JSON reply. Missing or empty keys get
// their own default instead of failing the whole reply.
func ParseAnalysis(content string) (domain.LeadAnalysis, error) {
	if strings.TrimSpace(content) == "" {
		content = "{}"
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(content), &m); err != nil {
		return domain.LeadAnalysis{}, fmt.Errorf("decode analysis: %w", err)
	}
	return domain.AnalysisFromMap(m, domain.LeadAnalysis{
		Summary:   defaultSummary,
		Status:    domain.StatusCold,
		NextStep:  defaultNextStep,
		DealValue: domain.UnknownValue,
	}), nil
}
