package template

import "fmt"

// SectionNotFoundError is returned when a section has no begin marker or no
// matching end marker after it.
type SectionNotFoundError struct {
	Name string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("section %q not found: expected %s followed by %s", e.Name, BeginMarker(e.Name), EndMarker(e.Name))
}

// DuplicateSectionError is returned when a section name is delimited more
// than once, which leaves the injection target ambiguous.
type DuplicateSectionError struct {
	Name  string
	Count int
}

func (e *DuplicateSectionError) Error() string {
	return fmt.Sprintf("section %q is delimited %d times, expected exactly once", e.Name, e.Count)
}

// Inject replaces the body of the named section with a fresh begin-marker
// line followed by code. Text before the begin marker and from the end
// marker onward is left untouched. The document is not modified on error.
func (d *Document) Inject(name, code string) error {
	if name == "" {
		return &SectionNotFoundError{Name: name}
	}

	at := -1
	count := 0
	for i, t := range d.tokens {
		if t.Section == name {
			if at < 0 {
				at = i
			}
			count++
		}
	}
	switch {
	case count == 0:
		return &SectionNotFoundError{Name: name}
	case count > 1:
		return &DuplicateSectionError{Name: name, Count: count}
	}

	d.tokens[at].Text = "\n" + code
	return nil
}
