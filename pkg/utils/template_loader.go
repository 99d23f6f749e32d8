package utils

import (
	"fmt"
	"html/template"
	"io/fs"
	"sort"
)

// LoadTemplates parses every *.html file of fsys (top level and partials/)
// into one template set, base.html first.
func LoadTemplates(fsys fs.FS) (*template.Template, error) {
	var files []string
	for _, pattern := range []string{"*.html", "partials/*.html"} {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob templates: %w", err)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found")
	}

	sort.Strings(files)

	ordered := make([]string, 0, len(files))
	for _, file := range files {
		if file == "base.html" {
			ordered = append(ordered, file)
		}
	}
	for _, file := range files {
		if file != "base.html" {
			ordered = append(ordered, file)
		}
	}

	root := template.New(ordered[0]).Funcs(GetTemplateFuncs())

	if _, err := root.ParseFS(fsys, ordered...); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return root, nil
}
