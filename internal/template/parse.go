package template

import (
	"strings"
)

const (
	markerOpen  = "//[["
	markerClose = "]]"
)

// BeginMarker renders the opening marker for a section.
func BeginMarker(name string) string {
	return markerOpen + name + markerClose
}

// EndMarker renders the closing marker for a section.
func EndMarker(name string) string {
	return markerOpen + "/" + name + markerClose
}

// Token is one piece of a parsed template. A token with an empty Section is
// literal text; otherwise it is a delimited section and Text holds the body
// between the begin and end markers.
type Token struct {
	Section string
	Text    string
}

// IsSection reports whether the token is a delimited section.
func (t Token) IsSection() bool {
	return t.Section != ""
}

// Document is a parsed template.
type Document struct {
	tokens []Token
}

// Parse splits text into literal and section tokens. A begin marker opens a
// section whose end is the first matching end marker after it; markers found
// inside that range are part of the body. A begin marker with no matching
// end, and any stray end marker, stay literal text.
func Parse(text string) *Document {
	doc := &Document{}
	var literal strings.Builder
	rest := text

	for {
		idx := strings.Index(rest, markerOpen)
		if idx < 0 {
			literal.WriteString(rest)
			break
		}

		name, markerLen, ok := readMarker(rest[idx:])
		if !ok || strings.HasPrefix(name, "/") {
			// Not a begin marker, keep scanning after the opening bracket.
			literal.WriteString(rest[:idx+len(markerOpen)])
			rest = rest[idx+len(markerOpen):]
			continue
		}

		bodyStart := idx + markerLen
		bodyLen := strings.Index(rest[bodyStart:], EndMarker(name))
		if bodyLen < 0 {
			literal.WriteString(rest[:bodyStart])
			rest = rest[bodyStart:]
			continue
		}

		literal.WriteString(rest[:idx])
		doc.appendLiteral(literal.String())
		literal.Reset()

		doc.tokens = append(doc.tokens, Token{
			Section: name,
			Text:    rest[bodyStart : bodyStart+bodyLen],
		})
		rest = rest[bodyStart+bodyLen+len(EndMarker(name)):]
	}

	doc.appendLiteral(literal.String())
	return doc
}

// readMarker reads a "//[[name]]" marker at the start of s. Names are
// non-empty and may not span lines.
func readMarker(s string) (name string, length int, ok bool) {
	inner := s[len(markerOpen):]
	end := strings.Index(inner, markerClose)
	if end <= 0 {
		return "", 0, false
	}
	name = inner[:end]
	if strings.ContainsAny(name, "\r\n") || name == "/" {
		return "", 0, false
	}
	return name, len(markerOpen) + end + len(markerClose), true
}

func (d *Document) appendLiteral(s string) {
	if s == "" {
		return
	}
	d.tokens = append(d.tokens, Token{Text: s})
}

// Tokens returns a copy of the document's token stream.
func (d *Document) Tokens() []Token {
	out := make([]Token, len(d.tokens))
	copy(out, d.tokens)
	return out
}

// Sections returns the section names in document order.
func (d *Document) Sections() []string {
	var names []string
	for _, t := range d.tokens {
		if t.IsSection() {
			names = append(names, t.Section)
		}
	}
	return names
}

// String renders the document back to source text. An untouched document
// renders to exactly the text it was parsed from.
func (d *Document) String() string {
	var b strings.Builder
	for _, t := range d.tokens {
		if !t.IsSection() {
			b.WriteString(t.Text)
			continue
		}
		b.WriteString(BeginMarker(t.Section))
		b.WriteString(t.Text)
		b.WriteString(EndMarker(t.Section))
	}
	return b.String()
}
