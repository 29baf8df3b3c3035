// Package template wraps resolved content with pre/post text when the
// content carries a leading template reference.
package template

import "regexp"

// Template is a pre/post wrapper applied around resolved content.
type Template struct {
	Name string
	Pre  string
	Post string
}

// Dict maps template ids to templates. Read-only during one expansion.
type Dict map[string]Template

// markerRe matches a leading [template:<name>] reference. The rest of the
// content may be empty or span multiple lines.
var markerRe = regexp.MustCompile(`^\[template:(\w+)\]`)

// Apply detects a leading [template:<name>] marker in content. When the
// marker is present the marker itself is always stripped; if <name> exists
// in the dictionary the remainder is wrapped as pre + rest + post,
// otherwise the bare remainder is returned. Content without a marker is
// returned unchanged.
func Apply(content string, dict Dict) string {
	loc := markerRe.FindStringSubmatchIndex(content)
	if loc == nil {
		return content
	}

	name := content[loc[2]:loc[3]]
	rest := content[loc[1]:]

	tmpl, ok := dict[name]
	if !ok {
		// Marker recognized but name unknown: strip the marker and fall
		// through to the bare remainder.
		return rest
	}

	return tmpl.Pre + rest + tmpl.Post
}

// HasMarker reports whether content begins with a template reference.
func HasMarker(content string) bool {
	return markerRe.MatchString(content)
}
