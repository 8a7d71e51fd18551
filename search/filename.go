package search

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Column names for the file and year fields.
const (
	ColumnFile  = "file"
	ColumnYear  = "year"
	ColumnPages = "pages"
)

// A 19xx or 20xx run that is not part of a longer number.
var yearPattern = regexp.MustCompile(`(?:^|[^0-9])((?:19|20)[0-9]{2})(?:[^0-9]|$)`)

// SplitColumn takes part Index of the name split on its separator.
// Negative indices count from the end.
type SplitColumn struct {
	Name  string
	Index int
}

type Separator struct {
	Sep     string
	Columns []SplitColumn
}

// Separators is the compiled --dsep specification, in declaration order.
type Separators []Separator

// ParseSeparators compiles a mapping literal such as {'_': {'project': 0}}.
// Both quote styles are accepted and declaration order is kept.
func ParseSeparators(literal string) (Separators, error) {
	if strings.TrimSpace(literal) == "" {
		return nil, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(literal), &root); err != nil {
		return nil, fmt.Errorf("not a mapping literal: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 || root.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New("expected a mapping of separator to {column: index}")
	}

	top := root.Content[0]
	seps := make(Separators, 0, len(top.Content)/2)
	seen := make(map[string]bool)

	for i := 0; i+1 < len(top.Content); i += 2 {
		key, value := top.Content[i], top.Content[i+1]
		if key.Kind != yaml.ScalarNode || key.Value == "" {
			return nil, fmt.Errorf("line %d: separator must be a non-empty string", key.Line)
		}
		if value.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("separator %q: expected a mapping of column to index", key.Value)
		}

		sep := Separator{Sep: key.Value}
		for j := 0; j+1 < len(value.Content); j += 2 {
			name, index := value.Content[j], value.Content[j+1]
			if name.Kind != yaml.ScalarNode || strings.TrimSpace(name.Value) == "" {
				return nil, fmt.Errorf("separator %q: column name must be a non-empty string", key.Value)
			}

			var idx int
			if index.Kind != yaml.ScalarNode || index.Decode(&idx) != nil {
				return nil, fmt.Errorf("column %q: index %q is not an integer", name.Value, index.Value)
			}
			if seen[name.Value] {
				return nil, fmt.Errorf("column %q is defined twice", name.Value)
			}
			seen[name.Value] = true
			sep.Columns = append(sep.Columns, SplitColumn{Name: name.Value, Index: idx})
		}
		seps = append(seps, sep)
	}
	return seps, nil
}

// Columns returns the column names in declaration order.
func (s Separators) Columns() []string {
	var cols []string
	for _, sep := range s {
		for _, c := range sep.Columns {
			cols = append(cols, c.Name)
		}
	}
	return cols
}

// Apply splits name on each separator. An index outside the parts gives an
// empty value.
func (s Separators) Apply(name string) map[string]string {
	fields := make(map[string]string)
	for _, sep := range s {
		parts := strings.Split(name, sep.Sep)
		for _, c := range sep.Columns {
			idx := c.Index
			if idx < 0 {
				idx += len(parts)
			}
			if idx >= 0 && idx < len(parts) {
				fields[c.Name] = strings.TrimSpace(parts[idx])
			} else {
				fields[c.Name] = ""
			}
		}
	}
	return fields
}

// FindYear returns the first plausible year in the base name of path, or "".
func FindYear(path string) string {
	m := yearPattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return ""
	}
	return m[1]
}

// BaseName strips the directory and, unless keepExt is set, the extension.
func BaseName(path string, keepExt bool) string {
	base := filepath.Base(path)
	if keepExt {
		return base
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FilenameParser derives the file column and metadata columns from a path.
type FilenameParser struct {
	Separators    Separators
	Year          bool
	KeepExtension bool
}

// Columns lists the metadata columns Parse fills, in table order.
func (p FilenameParser) Columns() []string {
	var cols []string
	if p.Year {
		cols = append(cols, ColumnYear)
	}
	return append(cols, p.Separators.Columns()...)
}

// Parse returns the base name shown in the file column and the metadata fields.
func (p FilenameParser) Parse(path string) (string, map[string]string) {
	base := BaseName(path, p.KeepExtension)
	fields := p.Separators.Apply(base)
	if p.Year {
		fields[ColumnYear] = FindYear(path)
	}
	return base, fields
}
