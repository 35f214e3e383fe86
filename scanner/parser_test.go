package scanner

import (
	"testing"

	"imagecompare/config"
	"imagecompare/types"
)

func newDefaultParser(t *testing.T) *Parser {
	t.Helper()
	p := config.Default()
	parser, err := NewParser(p.Families, p.Datatypes, p.Extension)
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	return parser
}

func TestParseMatches(t *testing.T) {
	parser := newDefaultParser(t)

	tests := []struct {
		name   string
		key    types.ParameterKey
		tag    types.DatatypeTag
		family string
	}{
		{"mandelbrot_-0.500000_0.000000_1e-06_float.png", "-0.500000_0.000000_1e-06", "float", "mandelbrot"},
		{"mandelbrot_-0.500000_0.000000_1e-06_double.png", "-0.500000_0.000000_1e-06", "double", "mandelbrot"},
		{"mandelbrot_+0.250000_-1.000000_3_posit32_2.png", "+0.250000_-1.000000_3", "posit32_2", "mandelbrot"},
		{"mandelbrot_-0.745480_+0.116690_+0.012760_bfloat16.png", "-0.745480_+0.116690_+0.012760", "bfloat16", "mandelbrot"},
		{"mandelbrot_1.000000_2.000000_2.5E+3_cpp_dec_float_1000.png", "1.000000_2.000000_2.5E+3", "cpp_dec_float_1000", "mandelbrot"},
		{
			"julia_set_+0.000000_+0.000000_+3.000000_-0.800000_+0.156000_half.png",
			"+0.000000_+0.000000_+3.000000_-0.800000_+0.156000", "half", "julia_set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parser.Parse(tt.name)
			if !ok {
				t.Fatalf("Parse(%q) did not match", tt.name)
			}
			if got.Key != tt.key || got.Tag != tt.tag || got.Family != tt.family {
				t.Errorf("Parse(%q) = (%q, %q, %q), want (%q, %q, %q)",
					tt.name, got.Key, got.Tag, got.Family, tt.key, tt.tag, tt.family)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	parser := newDefaultParser(t)

	rejects := []string{
		"",
		"notes.txt",
		"comparison_results.csv",
		"mandelbrot_-0.500000_0.000000_1e-06_quad.png",           // unknown tag
		"mandelbrot_-0.500000_0.000000_1e-06_float.jpg",          // wrong extension
		"mandelbrot_-0.500000_0.000000_1e-06_float.PNG",          // case sensitive
		"Mandelbrot_-0.500000_0.000000_1e-06_float.png",          // case sensitive prefix
		"mandelbrot_-0.50000_0.000000_1e-06_float.png",           // five fractional digits
		"mandelbrot_-0.5000000_0.000000_1e-06_float.png",         // seven fractional digits
		"mandelbrot_-0.500000_0.000000_float.png",                // missing field
		"xmandelbrot_-0.500000_0.000000_1e-06_float.png",         // not anchored at start
		"mandelbrot_-0.500000_0.000000_1e-06_float.png.bak",      // not anchored at end
		"julia_set_0.000000_0.000000_3_-0.800000_double.png",     // four julia fields
		"julia_set_0.000000_0.000000_3_-0.800000_0.15_double.png", // loose where fixed expected
	}

	for _, name := range rejects {
		if got, ok := parser.Parse(name); ok {
			t.Errorf("Parse(%q) matched unexpectedly: %+v", name, got)
		}
	}
}

func TestParseSameFieldsSameKey(t *testing.T) {
	parser := newDefaultParser(t)

	a, okA := parser.Parse("julia_set_0.100000_0.200000_1_0.300000_0.400000_float.png")
	b, okB := parser.Parse("julia_set_0.100000_0.200000_1_0.300000_0.400000_posit16_2.png")
	if !okA || !okB {
		t.Fatal("expected both names to match")
	}
	if a.Key != b.Key {
		t.Errorf("keys differ: %q vs %q", a.Key, b.Key)
	}
	if a.Tag == b.Tag {
		t.Errorf("tags should differ, both %q", a.Tag)
	}
}

func TestParseCustomFamilyAndExtension(t *testing.T) {
	families := []types.Family{{Name: "burning_ship", Prefix: "ship", Fields: []types.FieldKind{types.FieldLoose}}}
	parser, err := NewParser(families, []types.DatatypeTag{"f32", "f64"}, ".tiff")
	if err != nil {
		t.Fatal(err)
	}

	got, ok := parser.Parse("ship_1e3_f32.tiff")
	if !ok || got.Key != "1e3" || got.Tag != "f32" || got.Family != "burning_ship" {
		t.Errorf("unexpected parse result %+v (ok=%v)", got, ok)
	}
	if _, ok := parser.Parse("ship_1e3_f32.png"); ok {
		t.Error("png must not match a tiff profile")
	}
}

func TestNewParserRejectsEmptyTags(t *testing.T) {
	if _, err := NewParser(config.Default().Families, nil, "png"); err == nil {
		t.Error("expected error without tags")
	}
}
