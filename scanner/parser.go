package scanner

import (
	"fmt"
	"regexp"
	"strings"

	"imagecompare/types"
)

const (
	fixed6Pattern = `[+-]?\d+\.\d{6}`
	loosePattern  = `[0-9.eE+-]+`
)

// Parser matches filenames against the configured families
type Parser struct {
	families []compiledFamily
}

type compiledFamily struct {
	family types.Family
	re     *regexp.Regexp
}

// NewParser compiles one anchored pattern per family. The datatype
// alternation and the extension are shared by all families.
func NewParser(families []types.Family, tags []types.DatatypeTag, extension string) (*Parser, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("parser needs at least one datatype tag")
	}

	quoted := make([]string, len(tags))
	for i, tag := range tags {
		quoted[i] = regexp.QuoteMeta(string(tag))
	}
	tagGroup := "(" + strings.Join(quoted, "|") + ")"
	ext := regexp.QuoteMeta(strings.TrimPrefix(extension, "."))

	p := &Parser{}
	for _, f := range families {
		var b strings.Builder
		b.WriteString("^")
		b.WriteString(regexp.QuoteMeta(f.Prefix))
		for _, kind := range f.Fields {
			switch kind {
			case types.FieldFixed6:
				b.WriteString("_(" + fixed6Pattern + ")")
			case types.FieldLoose:
				b.WriteString("_(" + loosePattern + ")")
			default:
				return nil, fmt.Errorf("family %q: unknown field kind %q", f.Name, kind)
			}
		}
		b.WriteString("_" + tagGroup + `\.` + ext + "$")

		re, err := regexp.Compile(b.String())
		if err != nil {
			return nil, fmt.Errorf("family %q: %w", f.Name, err)
		}
		p.families = append(p.families, compiledFamily{family: f, re: re})
	}
	return p, nil
}

// Parse extracts the parameter key and datatype tag from a bare filename.
// The second return value is false for names that match no family.
func (p *Parser) Parse(filename string) (types.ParsedName, bool) {
	for _, cf := range p.families {
		m := cf.re.FindStringSubmatch(filename)
		if m == nil {
			continue
		}
		fields := len(cf.family.Fields)
		return types.ParsedName{
			Filename: filename,
			Key:      types.ParameterKey(strings.Join(m[1:1+fields], types.KeySeparator)),
			Tag:      types.DatatypeTag(m[1+fields]),
			Family:   cf.family.Name,
		}, true
	}
	return types.ParsedName{}, false
}

// Patterns returns the compiled expressions, one per family
func (p *Parser) Patterns() []string {
	out := make([]string, len(p.families))
	for i, cf := range p.families {
		out[i] = cf.re.String()
	}
	return out
}
