package constants

import (
	"strings"
)

type Interpretation string

const (
	Normal       Interpretation = "Normal"
	High         Interpretation = "High"
	Low          Interpretation = "Low"
	Critical     Interpretation = "Critical"
	Abnormal     Interpretation = "Abnormal"
	Inconclusive Interpretation = "Inconclusive"
)

var allInterpretations = []Interpretation{
	Normal,
	High,
	Low,
	Critical,
	Abnormal,
	Inconclusive,
}

func InterpretationStrings() []string {
	result := make([]string, len(allInterpretations))
	for i, v := range allInterpretations {
		result[i] = string(v)
	}
	return result
}

// CanonicalizeInterpretation maps a model-reported interpretation onto the
// canonical vocabulary. Unrecognized input is returned as-is with ok=false
// so free-text clinical notes survive untouched.
func CanonicalizeInterpretation(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", false
	}

	normalized := strings.ToLower(trimmed)

	// synonyms map
	synonyms := map[string]Interpretation{
		"within normal limits": Normal,
		"wnl":                  Normal,
		"negative":             Normal,
		"unremarkable":         Normal,
		"elevated":             High,
		"above range":          High,
		"alto":                 High,
		"decreased":            Low,
		"below range":          Low,
		"bajo":                 Low,
		"critical high":        Critical,
		"critical low":         Critical,
		"positive":             Abnormal,
		"borderline":           Inconclusive,
	}

	if v, ok := synonyms[normalized]; ok {
		return string(v), true
	}

	for _, v := range allInterpretations {
		if normalized == strings.ToLower(string(v)) {
			return string(v), true
		}
	}

	return trimmed, false
}
