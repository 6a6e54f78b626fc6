package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/unifymed/unifymed/internal/entity"
)

// formData is the pdfcpu form-fill JSON payload shape.
type formData struct {
	Forms []struct {
		TextField []formTextField `json:"textfield"`
	} `json:"forms"`
}

type formTextField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FillTemplatePDF writes the combined answers into the caller's PDF
// template. It first tries AcroForm filling by heuristic field-name
// matching; templates without usable form fields get the answers overlaid
// at fixed coordinates on the first page instead. A template that cannot
// be parsed at all is the caller's error; individual fields that cannot be
// placed are skipped.
func (g *Generator) FillTemplatePDF(templatePDF []byte, combined []entity.QA) ([]byte, error) {
	start := time.Now()

	if _, err := api.PageCount(bytes.NewReader(templatePDF), nil); err != nil {
		return nil, fmt.Errorf("load template pdf: %w", err)
	}

	if out, err := g.fillAcroForm(templatePDF, combined); err == nil {
		g.logger.Info("report.formfill.ok", "mode", "acroform",
			"fields", len(combined), "elapsed_ms", time.Since(start).Milliseconds())
		return out, nil
	} else {
		g.logger.Warn("report.formfill.acroform_unavailable", "error", err)
	}

	out := g.overlayAnswers(templatePDF, combined)
	g.logger.Info("report.formfill.ok", "mode", "overlay",
		"fields", len(combined), "elapsed_ms", time.Since(start).Milliseconds())
	return out, nil
}

// fillAcroForm fills the template's form fields, matching each field by
// the question text with its trailing colon removed.
func (g *Generator) fillAcroForm(templatePDF []byte, combined []entity.QA) ([]byte, error) {
	var data formData
	data.Forms = make([]struct {
		TextField []formTextField `json:"textfield"`
	}, 1)
	for _, qa := range combined {
		name := fieldNameForQuestion(qa.Question)
		if name == "" || qa.Answer == "" {
			continue
		}
		data.Forms[0].TextField = append(data.Forms[0].TextField, formTextField{
			Name:  name,
			Value: qa.Answer,
		})
	}
	if len(data.Forms[0].TextField) == 0 {
		return nil, fmt.Errorf("no fillable answers")
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal form data: %w", err)
	}

	var out bytes.Buffer
	if err := api.FillForm(bytes.NewReader(templatePDF), bytes.NewReader(payload), &out, nil); err != nil {
		return nil, fmt.Errorf("fill form: %w", err)
	}
	return out.Bytes(), nil
}

// overlayAnswers stamps "question: answer" lines onto the first page at
// fixed coordinates, one line per field, top-down. A line that fails to
// stamp is skipped; the remaining lines are unaffected.
func (g *Generator) overlayAnswers(templatePDF []byte, combined []entity.QA) []byte {
	current := templatePDF
	y := -60 // offset from top-left, in points; grows downward per line
	for _, qa := range combined {
		if qa.Answer == "" {
			continue
		}
		text := fmt.Sprintf("%s %s", qa.Question, qa.Answer)
		desc := fmt.Sprintf("fontname:Helvetica, points:10, scalefactor:1 abs, position:tl, offset:36 %d, rotation:0", y)
		wm, err := api.TextWatermark(text, desc, true, false, types.POINTS)
		if err != nil {
			g.logger.Warn("report.overlay.field_skipped", "question", qa.Question, "error", err)
			continue
		}
		var out bytes.Buffer
		if err := api.AddWatermarks(bytes.NewReader(current), &out, []string{"1"}, wm, nil); err != nil {
			g.logger.Warn("report.overlay.field_skipped", "question", qa.Question, "error", err)
			continue
		}
		current = out.Bytes()
		y -= 16
	}
	return current
}

// fieldNameForQuestion derives the AcroForm field name a template is
// likely to use for a question.
func fieldNameForQuestion(question string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(question), ":"))
}
