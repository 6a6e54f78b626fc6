package normalize

import (
	"strings"
	"testing"
)

func TestCleanTextSubstitutions(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"garbled patient token", "tanlanguage: Juan Perez", "Paciente: Juan Perez"},
		{"short misread", "Gem: Maria", "Paciente: Maria"},
		{"clean text untouched", "Paciente: Juan Perez", "Paciente: Juan Perez"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanTextIdempotent(t *testing.T) {
	inputs := []string{
		"tanlanguage Gem tanlanguage",
		"Fecha de nacimiento: 03.07.1961",
		"no artifacts at all",
	}
	for _, in := range inputs {
		once := CleanText(in)
		twice := CleanText(once)
		if once != twice {
			t.Errorf("CleanText not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestCleanTextAppendsDOB(t *testing.T) {
	got := CleanText("Nacido el 03.07.1961 en Madrid")
	if !strings.HasSuffix(got, "[EXTRACTED DOB: 03.07.1961]") {
		t.Fatalf("expected DOB line appended, got %q", got)
	}
	if strings.Count(got, "[EXTRACTED DOB:") != 1 {
		t.Fatalf("expected exactly one DOB line, got %q", got)
	}
}

func TestCleanTextFirstDOBWins(t *testing.T) {
	got := CleanText("01.01.1950 y 02.02.1960")
	if !strings.Contains(got, "[EXTRACTED DOB: 01.01.1950]") {
		t.Fatalf("expected first date captured, got %q", got)
	}
}

func TestCleanTextNoDOBNoChange(t *testing.T) {
	in := "Presion arterial 120/80, pulso 72"
	if got := CleanText(in); got != in {
		t.Errorf("text without artifacts changed: %q", got)
	}
}
