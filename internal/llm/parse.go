package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/unifymed/unifymed/constants"
	"github.com/unifymed/unifymed/internal/entity"
)

// noDataSentinels are phrases the model uses instead of leaving an answer
// blank. An answer containing any of them counts as "not found".
var noDataSentinels = []string{"not available", "no information", "blank"}

// numberedLineRe matches one "<n>. <answer>" response line.
var numberedLineRe = regexp.MustCompile(`^\s*(\d+)\.\s*(.*)$`)

// ParseNumberedAnswers maps a numbered-line model response back onto the
// question list. For question i (1-based) the first response line numbered
// i wins; questions with no matching line get an empty answer.
func ParseNumberedAnswers(questions []string, response string) []entity.QA {
	answers := make(map[int]string, len(questions))
	for _, line := range strings.Split(response, "\n") {
		m := numberedLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if _, seen := answers[n]; !seen {
			answers[n] = strings.TrimSpace(m[2])
		}
	}

	out := make([]entity.QA, 0, len(questions))
	for i, q := range questions {
		out = append(out, entity.QA{Question: q, Answer: scrubNoData(answers[i+1])})
	}
	return out
}

// scrubNoData converts sentinel "no data" answers to the empty string.
func scrubNoData(answer string) string {
	lower := strings.ToLower(answer)
	for _, s := range noDataSentinels {
		if strings.Contains(lower, s) {
			return ""
		}
	}
	return answer
}

// StripCodeFence removes a leading and trailing markdown code fence,
// including an optional language tag on the opening fence. Unfenced input
// comes back trimmed only.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		// drop the language tag line ("json", "JSON", or empty)
		first := strings.TrimSpace(s[:i])
		if len(first) <= 8 && !strings.ContainsAny(first, "[{") {
			s = s[i+1:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// rawMetric is the loose wire shape of one model-reported metric entry.
// The medication field's presence discriminates the variant.
type rawMetric struct {
	Metric         string   `json:"metric"`
	Value          *float64 `json:"value"`
	Unit           string   `json:"unit"`
	Date           string   `json:"date"`
	Interpretation string   `json:"interpretation"`
	Medication     *string  `json:"medication"`
}

// ParseMetricArray decodes the model's metric response into typed entries.
// The response may be fenced; the fence is stripped first. A response that
// is not a JSON array is an error (callers degrade to an empty list).
// Individual elements failing loose validation are skipped with a warning
// rather than failing the batch.
func ParseMetricArray(response string, logger *slog.Logger) ([]entity.Metric, error) {
	if logger == nil {
		logger = slog.Default()
	}
	body := StripCodeFence(response)
	if body == "" {
		return nil, fmt.Errorf("empty metric response")
	}

	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(body), &elems); err != nil {
		return nil, fmt.Errorf("decode metric array: %w", err)
	}

	out := make([]entity.Metric, 0, len(elems))
	for i, raw := range elems {
		if err := ValidateMetricEntry(raw); err != nil {
			logger.Warn("llm.metrics.element_invalid", "index", i, "error", err)
			continue
		}
		var rm rawMetric
		if err := json.Unmarshal(raw, &rm); err != nil {
			logger.Warn("llm.metrics.element_decode_failed", "index", i, "error", err)
			continue
		}
		out = append(out, coerceMetric(rm))
	}
	return out, nil
}

// coerceMetric decides the variant once, at the trust boundary.
func coerceMetric(rm rawMetric) entity.Metric {
	interp, _ := constants.CanonicalizeInterpretation(rm.Interpretation)
	if rm.Medication != nil && strings.TrimSpace(*rm.Medication) != "" {
		label := rm.Metric
		if label == "" {
			label = "Medication"
		}
		return entity.NewMedication(label, strings.TrimSpace(*rm.Medication), rm.Date, interp)
	}
	value := 0.0
	if rm.Value != nil {
		value = *rm.Value
	}
	return entity.NewMeasurement(rm.Metric, value, rm.Unit, rm.Date, interp)
}
