package template

import (
	"reflect"
	"testing"

	"github.com/unifymed/unifymed/internal/entity"
)

func TestIsPlainForm(t *testing.T) {
	tests := []struct {
		name string
		doc  entity.Document
		want bool
	}{
		{"txt extension", entity.Document{Filename: "form.txt"}, true},
		{"plain content type", entity.Document{Filename: "form", ContentType: "text/plain; charset=utf-8"}, true},
		{"pdf", entity.Document{Filename: "form.pdf", ContentType: "application/pdf"}, false},
		{"image", entity.Document{Filename: "scan.png", ContentType: "image/png"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPlainForm(tt.doc); got != tt.want {
				t.Errorf("IsPlainForm = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuestionsFromPlainText(t *testing.T) {
	text := "# intake form\nPatient Name:\n\nDate of Birth:\n  Allergies:  \n# end\n"
	got := QuestionsFromPlainText(text)
	want := []string{"Patient Name:", "Date of Birth:", "Allergies:"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("QuestionsFromPlainText = %v, want %v", got, want)
	}
}

func TestQuestionsFromOCRText(t *testing.T) {
	text := "CLINICA SAN JOSE\nPatient Name:\nsome instructions here\nDate of Birth:\nSignature"
	got := QuestionsFromOCRText(text)
	want := []string{"Patient Name:", "Date of Birth:"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("QuestionsFromOCRText = %v, want %v", got, want)
	}
}

func TestQuestionsEmptyInput(t *testing.T) {
	if got := QuestionsFromPlainText(""); got != nil {
		t.Errorf("QuestionsFromPlainText(empty) = %v, want nil", got)
	}
	if got := QuestionsFromOCRText("no fields here"); got != nil {
		t.Errorf("QuestionsFromOCRText = %v, want nil", got)
	}
}
