// Package codegen defines the code bundle a platform adapter produces for a
// program tree, and the adapters that produce it.
package codegen

import (
	"fmt"
	"strings"
)

// Global group names read by the assembler and link flag resolver.
const (
	GroupIncludes       = "includes"
	GroupGlobals        = "globals"
	GroupInitialization = "initialization"
	GroupLinkTo         = "linkTo"
)

// RequiredGroups must be present in every bundle, even when empty.
var RequiredGroups = []string{GroupInitialization, GroupLinkTo}

// Groups maps a category name to its ordered entries.
type Groups map[string][]string

// Bundle is the generated code for one program tree on one platform.
type Bundle struct {
	HeaderCode     string `json:"header_code"`
	InitCode       string `json:"init_code"`
	ProcessingCode string `json:"processing_code"`
	GlobalGroups   Groups `json:"global_groups"`
}

// MissingGroupError reports required global groups absent from a bundle.
type MissingGroupError struct {
	Groups []string
}

func (e *MissingGroupError) Error() string {
	return fmt.Sprintf("code bundle is missing required global groups: %s", strings.Join(e.Groups, ", "))
}

// Validate checks that every required group exists.
func (b *Bundle) Validate() error {
	var missing []string
	for _, name := range RequiredGroups {
		if _, ok := b.GlobalGroups[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingGroupError{Groups: missing}
	}
	return nil
}

// Group returns the entries of a group, or nil when it is absent.
func (b *Bundle) Group(name string) []string {
	return b.GlobalGroups[name]
}

// LinkTo returns the library names the generated code needs linked.
func (b *Bundle) LinkTo() []string {
	return b.Group(GroupLinkTo)
}
