// Package normalize cleans raw OCR output before translation. It fixes a
// small fixed set of known garbled tokens and surfaces a date-of-birth line
// when the text contains a DD.MM.YYYY-shaped date.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

// replacements maps known OCR misreads to their intended text. Keys and
// values are chosen so applying the table twice equals applying it once.
var replacements = []struct {
	from, to string
}{
	{"tanlanguage", "Paciente"},
	{"Gem", "Paciente"},
}

var dobPattern = regexp.MustCompile(`(\d{2}\.\d{2}\.\d{4})`)

// dobPrefix marks the synthesized DOB line appended to cleaned text.
const dobPrefix = "[EXTRACTED DOB: "

// CleanText applies the substitution table and, if the text contains a
// DD.MM.YYYY date, appends one "[EXTRACTED DOB: <value>]" line. It never
// fails; text with no artifacts comes back unchanged.
func CleanText(text string) string {
	for _, r := range replacements {
		text = strings.ReplaceAll(text, r.from, r.to)
	}
	if strings.Contains(text, dobPrefix) {
		return text
	}
	if m := dobPattern.FindString(text); m != "" {
		text += fmt.Sprintf("\n%s%s]", dobPrefix, m)
	}
	return text
}
