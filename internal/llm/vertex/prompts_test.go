package vertex

import (
	"strings"
	"testing"

	"github.com/unifymed/unifymed/constants"
)

func TestMetricsPromptListsInterpretationVocabulary(t *testing.T) {
	for _, v := range constants.InterpretationStrings() {
		if !strings.Contains(metricsUserPromptTemplate, v) {
			t.Errorf("metrics prompt missing interpretation %q", v)
		}
	}
}

func TestPromptTemplatesHavePlaceholders(t *testing.T) {
	if n := strings.Count(fillerUserPromptTemplate, "%s"); n != 2 {
		t.Errorf("filler prompt has %d placeholders, want 2", n)
	}
	if n := strings.Count(metricsUserPromptTemplate, "%s"); n != 1 {
		t.Errorf("metrics prompt has %d placeholders, want 1", n)
	}
}
