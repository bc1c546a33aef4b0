// Package textutil turns report titles into filesystem-safe names.
//
// Titles arrive as free text from the commentary source and may contain
// punctuation, slashes, or nothing at all; the helpers here always return a
// usable name so callers never have to special-case an empty title.
package textutil
