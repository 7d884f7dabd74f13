package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// AnalysisFromMap reads the four analysis keys out of a decoded JSON object.
// Absent or falsy values take the matching field of def. Numbers and other
// non-string values are kept as text.
func AnalysisFromMap(m map[string]any, def LeadAnalysis) LeadAnalysis {
	return LeadAnalysis{
		Summary:   textField(m, "summary", def.Summary),
		Status:    textField(m, "status", def.Status),
		NextStep:  textField(m, "next_step", def.NextStep),
		DealValue: textField(m, "deal_value", def.DealValue),
	}
}

func textField(m map[string]any, key, def string) string {
	switch v := m[key].(type) {
	case nil:
		return def
	case string:
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	case float64:
		if v == 0 {
			return def
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if !v {
			return def
		}
		return "true"
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return def
		}
		return string(b)
	}
}
