package textnorm

import "testing"

func TestNormalize_ReplacementTable(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"curly double quotes", "“Hello”", `"Hello"`},
		{"curly single quotes", "it’s ‘ok’", "it's 'ok'"},
		{"dashes", "a–b—c", "a-b-c"},
		{"bullet glyph", "• item", "- item"},
		{"ellipsis", "wait…", "wait..."},
		{"non-breaking hyphen", "e‑commerce", "e-commerce"},
		{"plain ascii untouched", "React + Node.js: 4 months", "React + Node.js: 4 months"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("%s: Normalize(%q)=%q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestNormalize_DropsOtherNonASCII(t *testing.T) {
	in := "\U0001F3AF Recommendation: café اردو done"
	want := " Recommendation: caf  done"
	if got := Normalize(in); got != want {
		t.Fatalf("Normalize=%q, want %q", got, want)
	}
}

func TestNormalize_KeepsLineStructure(t *testing.T) {
	in := "Line one\r\n\tLine two\nLine three"
	if got := Normalize(in); got != in {
		t.Fatalf("line structure changed: %q", got)
	}
}

func TestNormalize_OutputIsPrintableASCII(t *testing.T) {
	inputs := []string{
		"",
		"\x00\x01\x1b[31mred\x7f",
		"\xff\xfe invalid utf-8 \xc3",
		" non-breaking space",
		"mixed “quotes” — and ☃ snowman \U0001F600",
	}
	for _, in := range inputs {
		out := Normalize(in)
		for i := 0; i < len(out); i++ {
			c := out[i]
			if c == '\n' || c == '\r' || c == '\t' {
				continue
			}
			if c < 0x20 || c > 0x7e {
				t.Fatalf("Normalize(%q) produced byte 0x%02x at %d: %q", in, c, i, out)
			}
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"“Smart” – text…",
		"Already plain: nothing to do.",
		"éèê accents only",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalize_InvalidUTF8AndControls(t *testing.T) {
	cases := map[string]string{
		"a\xffb":          "ab",
		"x\x00y\x1bz\x7f": "xyz",
		"\xc3tail":        "tail",
	}
	for in, want := range cases {
		got := Normalize(in)
		if got != want {
			t.Fatalf("Normalize(%q)=%q, want %q", in, got, want)
		}
		if again := Normalize(got); again != got {
			t.Fatalf("Normalize not stable for %q: %q", in, again)
		}
	}
}
