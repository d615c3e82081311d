// Package template parses C++ source templates that carry named section
// markers of the form
//
//	//[[Name]]
//	...
//	//[[/Name]]
//
// into a sequence of literal and section tokens. Code is injected by
// replacing a section token's body, never by searching the rendered text,
// so marker-like text inside generated fragments can not confuse later
// injections.
package template
