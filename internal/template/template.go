// Package template derives the question list from a caller-supplied
// template payload.
package template

import (
	"path/filepath"
	"strings"

	"github.com/unifymed/unifymed/constants"
	"github.com/unifymed/unifymed/internal/entity"
)

// IsPlainForm reports whether the template is a plain-text field list
// (one question per line) rather than a document that must be OCR'd.
func IsPlainForm(doc entity.Document) bool {
	if constants.MapExtToFormat(filepath.Ext(doc.Filename)) == constants.TXT {
		return true
	}
	return strings.HasPrefix(doc.ContentType, "text/plain")
}

// QuestionsFromPlainText treats each non-empty, non-comment line as one
// question verbatim. Lines starting with '#' are comments.
func QuestionsFromPlainText(text string) []string {
	var questions []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		questions = append(questions, line)
	}
	return questions
}

// QuestionsFromOCRText detects fields in OCR'd template text: trimmed
// lines ending with ':' are questions.
func QuestionsFromOCRText(text string) []string {
	var questions []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasSuffix(line, ":") {
			questions = append(questions, line)
		}
	}
	return questions
}
