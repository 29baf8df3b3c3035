// Package dictionary holds the snippet and template dictionaries the
// expansion engine resolves triggers against.
//
// Dictionaries are loaded from TOML files and treated as immutable for
// the duration of one expansion; a reload swaps the whole mapping. A
// file watcher can keep the store in sync with on-disk edits.
package dictionary

import (
	"sync"

	"github.com/dshills/snipstorm/internal/engine/template"
)

// Snippet is named content substituted for a trigger. Content may contain
// {{variable}} placeholders and an optional leading template reference.
type Snippet struct {
	Content     string `toml:"content"`
	Description string `toml:"description"`
}

// Dictionary is the in-memory snippet/template store.
// All methods are safe for concurrent use.
type Dictionary struct {
	mu        sync.RWMutex
	snippets  map[string]Snippet
	templates template.Dict
	variables map[string]string // scripted variable name -> Lua source
}

// New creates an empty dictionary.
func New() *Dictionary {
	return &Dictionary{
		snippets:  make(map[string]Snippet),
		templates: make(template.Dict),
		variables: make(map[string]string),
	}
}

// Lookup returns the snippet for a trigger key.
func (d *Dictionary) Lookup(trigger string) (Snippet, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.snippets[trigger]
	return s, ok
}

// Templates returns a copy of the template dictionary, safe to hold for
// the duration of one expansion.
func (d *Dictionary) Templates() template.Dict {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(template.Dict, len(d.templates))
	for k, v := range d.templates {
		out[k] = v
	}
	return out
}

// ScriptVariables returns a copy of the scripted variable sources.
func (d *Dictionary) ScriptVariables() map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]string, len(d.variables))
	for k, v := range d.variables {
		out[k] = v
	}
	return out
}

// Replace swaps the entire dictionary contents. Nil maps clear.
func (d *Dictionary) Replace(snippets map[string]Snippet, templates template.Dict, variables map[string]string) {
	if snippets == nil {
		snippets = make(map[string]Snippet)
	}
	if templates == nil {
		templates = make(template.Dict)
	}
	if variables == nil {
		variables = make(map[string]string)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.snippets = snippets
	d.templates = templates
	d.variables = variables
}

// Counts returns the number of snippets and templates.
func (d *Dictionary) Counts() (snippets, templates int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.snippets), len(d.templates)
}
