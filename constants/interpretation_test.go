package constants

import "testing"

func TestCanonicalizeInterpretation(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"normal", "Normal", true},
		{"WNL", "Normal", true},
		{"elevated", "High", true},
		{"bajo", "Low", true},
		{"critical high", "Critical", true},
		{"  Borderline ", "Inconclusive", true},
		{"slightly above reference range", "slightly above reference range", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := CanonicalizeInterpretation(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("CanonicalizeInterpretation(%q) = (%q, %v), want (%q, %v)",
				tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestMapExtToFormat(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".pdf", PDF},
		{"PDF", PDF},
		{".JPG", IMAGE},
		{"jpeg", IMAGE},
		{"png", IMAGE},
		{".txt", TXT},
		{".docx", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := MapExtToFormat(tt.ext); got != tt.want {
			t.Errorf("MapExtToFormat(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}
