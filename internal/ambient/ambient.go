// Package ambient builds the per-expansion context bag: page metadata,
// the active selection, clipboard text, and caller-supplied form values.
//
// Clipboard access may fail or be denied by the host; the clipboard key
// then degrades to the empty string rather than aborting an expansion.
package ambient

import (
	"context"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/dshills/snipstorm/internal/engine/resolve"
)

// Provider supplies the ambient values for one expansion.
type Provider interface {
	// Snapshot builds the context bag at expansion time. It never fails;
	// unavailable values degrade to empty strings.
	Snapshot(ctx context.Context) resolve.Context
}

// ClipboardReader reads the ambient clipboard. Errors degrade to "".
type ClipboardReader func() (string, error)

// Page is a Provider backed by static page metadata plus a live
// clipboard read. The zero value is usable and yields empty ambient
// values.
type Page struct {
	Title        string
	URL          string
	SelectedText string
	FormData     map[string]string

	// Clipboard overrides the system clipboard read, for tests or hosts
	// with their own clipboard plumbing. Nil uses the system clipboard.
	Clipboard ClipboardReader
}

// Snapshot builds the resolve context. The domain is derived from the
// page URL; a malformed URL yields an empty domain.
func (p *Page) Snapshot(ctx context.Context) resolve.Context {
	rc := resolve.Context{
		PageTitle:    p.Title,
		PageURL:      p.URL,
		Domain:       DomainOf(p.URL),
		SelectedText: p.SelectedText,
	}

	if len(p.FormData) > 0 {
		rc.FormData = make(map[string]string, len(p.FormData))
		for k, v := range p.FormData {
			rc.FormData[k] = v
		}
	}

	read := p.Clipboard
	if read == nil {
		read = clipboard.ReadAll
	}
	if text, err := read(); err == nil {
		rc.Clipboard = text
	}

	return rc
}

// DomainOf extracts the host from a URL, dropping any www. prefix.
// Malformed or host-less URLs yield "".
func DomainOf(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}

	return strings.TrimPrefix(u.Hostname(), "www.")
}
