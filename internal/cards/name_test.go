package cards

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Scalding Tarn", want: "Scalding Tarn"},
		{name: "duplicate marker", in: "Scalding Tarn 2", want: "Scalding Tarn"},
		{name: "multi digit marker", in: "Island 12", want: "Island"},
		{name: "surrounding whitespace", in: "  Scalding Tarn 3  ", want: "Scalding Tarn"},
		{name: "digits inside name", in: "Borrowing 100,000 Arrows", want: "Borrowing 100,000 Arrows"},
		{name: "digits without space", in: "R2D2", want: "R2D2"},
		{name: "only digits", in: "42", want: "42"},
		{name: "empty", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.in); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeName_Idempotent(t *testing.T) {
	inputs := []string{"Scalding Tarn 2", "Scalding Tarn", " Force of Will ", "Island 7", "Jace, the Mind Sculptor"}
	for _, in := range inputs {
		once := NormalizeName(in)
		if twice := NormalizeName(once); twice != once {
			t.Errorf("NormalizeName not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestLookupKey(t *testing.T) {
	if LookupKey("Scalding Tarn 2") != LookupKey("scalding tarn") {
		t.Errorf("expected duplicate and lowercase names to share a key")
	}
	if got := LookupKey(" Force of Will "); got != "force of will" {
		t.Errorf("LookupKey() = %q, want %q", got, "force of will")
	}
}
