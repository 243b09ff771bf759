package boundary

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/stylesheet-ai/xsltchunk/internal/document"
)

var (
	unitOpenRe  = regexp.MustCompile(`^\s*<xsl:template\b`)
	unitCloseRe = regexp.MustCompile(`^\s*</xsl:template>`)
	unitLabelRe = regexp.MustCompile(`(?:match|name)="([^"]*)"`)

	forEachRe = regexp.MustCompile(`^\s*<xsl:for-each\b`)
	varDeclRe = regexp.MustCompile(`^\s*<xsl:(?:variable|param)\b`)

	// Complete conditional tags on one line. A tag whose attributes spill
	// onto following lines will not match; the detector then refuses to
	// report for the whole range rather than track depth it cannot see.
	condTagRe = regexp.MustCompile(`<(/?)xsl:(if|choose)\b[^<>]*(/?)>`)
)

// UnitDetector matches template open and close markers, the top-level units
// of a stylesheet. Splitting never happens inside one without its say-so.
type UnitDetector struct{}

func (UnitDetector) Detect(doc *document.Document, start, end int) []Candidate {
	var out []Candidate
	for n := start; n <= end; n++ {
		line := doc.Line(n)
		switch {
		case unitOpenRe.MatchString(line):
			label := "template"
			if m := unitLabelRe.FindStringSubmatch(line); m != nil {
				label = "template " + m[1]
			}
			out = append(out, Candidate{Line: n, Kind: KindUnitStart, Label: label})
		case unitCloseRe.MatchString(line):
			out = append(out, Candidate{Line: n, Kind: KindUnitEnd, Label: "end template"})
		}
	}
	return out
}

// OutputElementDetector matches opening tags of literal result elements that
// sit at the shallowest indentation seen in the range. Those are the sibling
// output blocks a template is usually organized around, and the gaps between
// them are the most natural interior split points.
type OutputElementDetector struct{}

func (OutputElementDetector) Detect(doc *document.Document, start, end int) []Candidate {
	type open struct {
		line   int
		name   string
		indent int
	}

	var opens []open
	shallowest := -1
	for n := start; n <= end; n++ {
		name, indent, ok := literalOpenTag(doc.Line(n))
		if !ok {
			continue
		}
		opens = append(opens, open{line: n, name: name, indent: indent})
		if shallowest < 0 || indent < shallowest {
			shallowest = indent
		}
	}

	var out []Candidate
	for _, o := range opens {
		if o.indent != shallowest {
			continue
		}
		out = append(out, Candidate{Line: o.line, Kind: KindOutputElement, Label: "<" + o.name + ">"})
	}
	return out
}

// RepetitionDetector matches for-each loops at the base indentation of the
// range body. Nested loops are deliberately not reported.
type RepetitionDetector struct{}

func (RepetitionDetector) Detect(doc *document.Document, start, end int) []Candidate {
	base := baseBodyIndent(doc, start, end)
	if base < 0 {
		return nil
	}

	var out []Candidate
	for n := start; n <= end; n++ {
		line := doc.Line(n)
		if !forEachRe.MatchString(line) {
			continue
		}
		if indentWidth(line) != base {
			continue
		}
		out = append(out, Candidate{Line: n, Kind: KindRepetition, Label: "for-each"})
	}
	return out
}

// VariableClusterDetector groups runs of adjacent variable and param
// declarations into a single candidate at the first line of the run, so a
// split never lands between closely related declarations.
type VariableClusterDetector struct{}

func (VariableClusterDetector) Detect(doc *document.Document, start, end int) []Candidate {
	var out []Candidate
	n := start
	for n <= end {
		if !varDeclRe.MatchString(doc.Line(n)) {
			n++
			continue
		}
		first := n
		for n <= end && varDeclRe.MatchString(doc.Line(n)) {
			n++
		}
		out = append(out, Candidate{
			Line:  first,
			Kind:  KindVariableCluster,
			Label: fmt.Sprintf("%d declaration(s)", n-first),
		})
	}
	return out
}

// ConditionalDetector matches if and choose blocks at nesting depth zero
// relative to the scanned range. Depth is tracked lexically; if the range
// closes a conditional it never opened, the markup is malformed or the tags
// span lines, and the detector reports nothing for the range.
type ConditionalDetector struct{}

func (ConditionalDetector) Detect(doc *document.Document, start, end int) []Candidate {
	var out []Candidate
	depth := 0
	for n := start; n <= end; n++ {
		for _, m := range condTagRe.FindAllStringSubmatch(doc.Line(n), -1) {
			closing := m[1] == "/"
			selfClosing := m[3] == "/"
			switch {
			case closing:
				depth--
				if depth < 0 {
					return nil
				}
			case selfClosing:
				// No body, nothing to split around.
			default:
				if depth == 0 {
					out = append(out, Candidate{Line: n, Kind: KindConditional, Label: m[2]})
				}
				depth++
			}
		}
	}
	return out
}

// literalOpenTag reports the element name and indentation of a line that
// opens a non-xsl element. Closing tags, comments, processing instructions
// and xsl-namespace tags do not qualify.
func literalOpenTag(line string) (name string, indent int, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, "<") {
		return "", 0, false
	}
	rest := trimmed[1:]
	if rest == "" {
		return "", 0, false
	}
	switch rest[0] {
	case '/', '!', '?':
		return "", 0, false
	}

	i := 0
	for i < len(rest) && isNameByte(rest[i]) {
		i++
	}
	if i == 0 {
		return "", 0, false
	}
	name = rest[:i]
	if strings.HasPrefix(name, "xsl:") {
		return "", 0, false
	}
	return name, indentWidth(line), true
}

func isNameByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == ':', b == '-', b == '_', b == '.':
		return true
	}
	return false
}

// indentWidth measures leading whitespace in columns, tabs counting as four.
func indentWidth(line string) int {
	w := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			w++
		case '\t':
			w += 4
		default:
			return w
		}
	}
	return w
}

// baseBodyIndent finds the shallowest indentation of content lines in the
// range, ignoring the unit's own template tags. Returns -1 when the range
// has no content lines.
func baseBodyIndent(doc *document.Document, start, end int) int {
	base := -1
	for n := start; n <= end; n++ {
		line := doc.Line(n)
		if strings.TrimSpace(line) == "" {
			continue
		}
		if unitOpenRe.MatchString(line) || unitCloseRe.MatchString(line) {
			continue
		}
		if w := indentWidth(line); base < 0 || w < base {
			base = w
		}
	}
	return base
}
