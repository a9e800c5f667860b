package autopilot

import (
	"fmt"
	"strings"
)

// Metrics is the per-entity health snapshot the rule predicates evaluate.
// Monetary values are minor currency units; CTR/ROAS are ratios.
type Metrics struct {
	CPA           float64 `json:"cpa"`
	CTR           float64 `json:"ctr"`
	CTRTrend      float64 `json:"ctr_trend"`
	ROAS          float64 `json:"roas"`
	Spend         float64 `json:"spend"`
	Impressions   int64   `json:"impressions"`
	DaysHighCPA   int     `json:"days_high_cpa"`
	DaysDeclining int     `json:"days_declining"`
	DaysLowCTR    int     `json:"days_low_ctr"`
}

// vars returns the formatted values available to reason templates.
func (m Metrics) vars() map[string]string {
	return map[string]string{
		"cpa":            fmt.Sprintf("%.2f", m.CPA),
		"ctr":            fmt.Sprintf("%.4f", m.CTR),
		"ctr_trend":      fmt.Sprintf("%.2f", m.CTRTrend),
		"roas":           fmt.Sprintf("%.2f", m.ROAS),
		"spend":          fmt.Sprintf("%.0f", m.Spend),
		"impressions":    fmt.Sprintf("%d", m.Impressions),
		"days_high_cpa":  fmt.Sprintf("%d", m.DaysHighCPA),
		"days_declining": fmt.Sprintf("%d", m.DaysDeclining),
		"days_low_ctr":   fmt.Sprintf("%d", m.DaysLowCTR),
	}
}

// formatReason fills ${name} placeholders in a rule's reason template
// from the metric snapshot.
func formatReason(template string, m Metrics) string {
	out := template
	for name, value := range m.vars() {
		out = strings.ReplaceAll(out, "${"+name+"}", value)
	}
	return out
}
