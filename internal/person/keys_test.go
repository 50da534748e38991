package person

import "testing"

func TestNameKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "João Silva", "joão silva"},
		{"trim and collapse", "  João   Silva ", "joão silva"},
		{"tabs and newlines", "João\t\nSilva", "joão silva"},
		{"decomposed accent", "Joa\u0303o", "jo\u00e3o"},
		{"empty", "", ""},
		{"only whitespace", " \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NameKey(tt.input); got != tt.want {
				t.Errorf("NameKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNameKey_Equivalence(t *testing.T) {
	if NameKey("  João   Silva ") != NameKey("joão silva") {
		t.Error("padded and lowercase names should share a key")
	}
	if NameKey("Jo\u00e3o") != NameKey("Joa\u0303o") {
		t.Error("composed and decomposed forms should share a key")
	}
}

func TestDocumentKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"123.456.789-00", "12345678900"},
		{"123456 78900", "12345678900"},
		{" AB-12.c ", "ab12c"},
		{"RG: 12.345.678-X", "rg12345678x"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := DocumentKey(tt.input); got != tt.want {
			t.Errorf("DocumentKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestBirthDateKey(t *testing.T) {
	for _, s := range []string{"1985-05-10", "31/04/2020", ""} {
		if got := BirthDateKey(s); got != s {
			t.Errorf("BirthDateKey(%q) = %q, want identity", s, got)
		}
	}
}
