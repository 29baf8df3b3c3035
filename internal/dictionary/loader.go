package dictionary

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/snipstorm/internal/engine/template"
)

// ParseError describes a malformed dictionary file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

// Error returns the error message.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing dictionary %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// fileSchema is the on-disk TOML shape:
//
//	[snippets.hello]
//	content = "Hi {{domain}}!"
//	description = "Greeting"
//
//	[templates.cot]
//	name = "Chain of thought"
//	pre = "Think step-by-step:\n"
//	post = "\n\nFinal answer."
//
//	[variables.ticket]
//	script = "return string.upper(ctx.selected_text)"
type fileSchema struct {
	Snippets  map[string]Snippet        `toml:"snippets"`
	Templates map[string]templateSchema `toml:"templates"`
	Variables map[string]variableSchema `toml:"variables"`
}

type templateSchema struct {
	Name string `toml:"name"`
	Pre  string `toml:"pre"`
	Post string `toml:"post"`
}

type variableSchema struct {
	Script string `toml:"script"`
}

// Load reads a dictionary file into the store, replacing its contents.
// A missing file clears the store and is not an error.
func Load(d *Dictionary, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			d.Replace(nil, nil, nil)
			return nil
		}
		return fmt.Errorf("reading dictionary %s: %w", path, err)
	}

	snippets, templates, variables, err := parse(path, data)
	if err != nil {
		return err
	}

	d.Replace(snippets, templates, variables)
	return nil
}

// parse decodes TOML dictionary data.
func parse(path string, data []byte) (map[string]Snippet, template.Dict, map[string]string, error) {
	var f fileSchema
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, nil, nil, &ParseError{
			Path:    path,
			Message: err.Error(),
			Err:     err,
		}
	}

	templates := make(template.Dict, len(f.Templates))
	for id, t := range f.Templates {
		templates[id] = template.Template{Name: t.Name, Pre: t.Pre, Post: t.Post}
	}

	variables := make(map[string]string, len(f.Variables))
	for name, v := range f.Variables {
		variables[name] = v.Script
	}

	return f.Snippets, templates, variables, nil
}
