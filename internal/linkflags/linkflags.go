// Package linkflags turns the link targets collected by code generation into
// native linker flags.
package linkflags

// Prefix is prepended to every library name to form a link flag.
const Prefix = "-l"

// Set is an ordered list of link flags with no repeats.
type Set []string

// Resolve returns one flag per distinct library name, in order of first
// appearance. Names are compared as exact strings, so "Gamma" and "gamma"
// both survive.
func Resolve(names []string) Set {
	flags := make(Set, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		flag := Prefix + name
		if _, ok := seen[flag]; ok {
			continue
		}
		seen[flag] = struct{}{}
		flags = append(flags, flag)
	}
	return flags
}

// Strings returns the flags as a plain slice.
func (s Set) Strings() []string {
	return []string(s)
}
