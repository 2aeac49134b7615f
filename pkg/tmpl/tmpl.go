// Package tmpl provides template rendering for user-configurable strings such
// as commit messages.
package tmpl

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
)

var funcs = template.FuncMap{
	"join":  strings.Join,
	"base":  filepath.Base,
	"lower": strings.ToLower,
	"plural": func(n int, singular, plural string) string {
		if n == 1 {
			return singular
		}
		return plural
	},
}

// Render executes a Go template string with the given data.
// Returns an error if the template is invalid or references undefined keys.
//
// Available template functions:
//   - join: Join string slice with separator (e.g., join .Files ", ")
//   - base: Last element of a path
//   - lower: Lowercase a string
//   - plural: Pick a word by count (e.g., plural .Count "file" "files")
func Render(tmpl string, data any) (string, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}

// Validate renders tmpl against sample data and discards the output, so only
// syntax and field errors are reported.
func Validate(tmpl string, sample any) error {
	_, err := Render(tmpl, sample)
	return err
}
