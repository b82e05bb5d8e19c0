package schema

import (
	"fmt"
	"strings"

	"instituteweb/admin-console/internal"
	"instituteweb/admin-console/internal/record"
)

// Schema is the declared field set of one content section. Schemas are built
// once at startup and never mutated afterwards.
type Schema struct {
	Section string
	Title   string

	// ReadOnly sections (e.g. activity logs) can be listed and deleted but
	// never edited through a form.
	ReadOnly bool

	Fields []FieldSpec
}

// Field returns the spec for the named field.
func (s Schema) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// NewDraftValues seeds an empty draft from field defaults.
func (s Schema) NewDraftValues() map[string]any {
	values := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		values[f.Name] = f.ZeroValue()
	}
	return values
}

// CopyValues copies a record's field values into a fresh draft, field by field
// per the schema, so in-form edits never leak into the still-listed record.
// Fetched records carry JSON-decoded shapes ([]any list entries, string slices
// for split long text); each value is restored to its draft shape on the way in.
func (s Schema) CopyValues(r record.Record) map[string]any {
	values := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		value, ok := r.Fields[f.Name]
		if !ok {
			values[f.Name] = f.ZeroValue()
			continue
		}
		values[f.Name] = f.normalizeValue(value)
	}
	return values
}

// normalizeValue converts one fetched field value into the shape the editor
// works on. Values already in draft shape pass through as a deep copy.
func (f FieldSpec) normalizeValue(value any) any {
	switch f.Kind {
	case KindArrayOfObject:
		if entries, ok := normalizeEntries(value); ok {
			return entries
		}
	case KindLongText:
		if f.SplitLines {
			if lines, ok := toStringSlice(value); ok {
				return strings.Join(lines, "\n")
			}
		}
	}
	return record.CloneValue(value)
}

func normalizeEntries(value any) ([]map[string]any, bool) {
	switch v := value.(type) {
	case []map[string]any:
		out := make([]map[string]any, len(v))
		for i, entry := range v {
			out[i] = record.CloneValues(entry)
		}
		return out, true
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, item := range v {
			entry, ok := item.(map[string]any)
			if !ok {
				return nil, false
			}
			out = append(out, record.CloneValues(entry))
		}
		return out, true
	}
	return nil, false
}

func toStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// Registry maps section identifiers to their schemas.
type Registry struct {
	schemas map[string]Schema
	order   []string
}

// NewRegistry builds a registry, rejecting duplicate sections and duplicate
// field names within a schema.
func NewRegistry(schemas ...Schema) (*Registry, error) {
	r := &Registry{schemas: make(map[string]Schema, len(schemas))}

	for _, s := range schemas {
		if _, exists := r.schemas[s.Section]; exists {
			return nil, fmt.Errorf("%w: %s", internal.ErrDuplicateSection, s.Section)
		}

		seen := make(map[string]struct{}, len(s.Fields))
		for _, f := range s.Fields {
			if _, exists := seen[f.Name]; exists {
				return nil, fmt.Errorf("%w: %s.%s", internal.ErrDuplicateField, s.Section, f.Name)
			}
			seen[f.Name] = struct{}{}
		}

		r.schemas[s.Section] = s
		r.order = append(r.order, s.Section)
	}

	return r, nil
}

// SchemaFor returns the schema registered for a section.
func (r *Registry) SchemaFor(section string) (Schema, error) {
	s, ok := r.schemas[section]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %s", internal.ErrUnknownSection, section)
	}
	return s, nil
}

// Knows reports whether a section is registered.
func (r *Registry) Knows(section string) bool {
	_, ok := r.schemas[section]
	return ok
}

// Sections lists every registered schema in registration order.
func (r *Registry) Sections() []Schema {
	out := make([]Schema, 0, len(r.order))
	for _, section := range r.order {
		out = append(out, r.schemas[section])
	}
	return out
}
