package editor

import (
	"fmt"

	"instituteweb/admin-console/internal"
	"instituteweb/admin-console/internal/record"
	"instituteweb/admin-console/internal/schema"
)

// Draft is the working copy of a record's field values while a form is open.
// It is owned exclusively by the controller: discarded on cancel, promoted to
// a persisted record on successful submit.
type Draft struct {
	schema    schema.Schema
	recordID  string
	values    map[string]any
	uploading map[string]bool
	errors    []internal.FieldError
}

// newDraft seeds an empty draft from schema defaults.
func newDraft(s schema.Schema) *Draft {
	return &Draft{
		schema:    s,
		values:    s.NewDraftValues(),
		uploading: make(map[string]bool),
	}
}

// draftFrom copies a record field by field, so edits cannot leak back into
// the listed record before submit succeeds.
func draftFrom(s schema.Schema, r record.Record) *Draft {
	return &Draft{
		schema:    s,
		recordID:  r.ID,
		values:    s.CopyValues(r),
		uploading: make(map[string]bool),
	}
}

func (d *Draft) set(name string, value any) error {
	f, ok := d.schema.Field(name)
	if !ok {
		return fmt.Errorf("%w: %s", internal.ErrUnknownField, name)
	}

	coerced, err := coerce(f, value)
	if err != nil {
		return err
	}

	d.values[name] = coerced
	d.errors = nil
	return nil
}

func (d *Draft) appendEntry(name string) error {
	f, entries, err := d.arrayField(name)
	if err != nil {
		return err
	}

	blank := make(map[string]any, len(f.Elem))
	for _, sub := range f.Elem {
		blank[sub.Name] = sub.ZeroValue()
	}

	d.values[name] = append(entries, blank)
	d.errors = nil
	return nil
}

func (d *Draft) removeEntry(name string, index int) error {
	f, entries, err := d.arrayField(name)
	if err != nil {
		return err
	}

	if index < 0 || index >= len(entries) {
		return fmt.Errorf("%w: %s[%d]", internal.ErrArrayIndexOutOfRange, name, index)
	}
	if f.Required && len(entries) == 1 {
		return fmt.Errorf("%w: %s", internal.ErrLastRequiredEntry, name)
	}

	out := make([]map[string]any, 0, len(entries)-1)
	out = append(out, entries[:index]...)
	out = append(out, entries[index+1:]...)
	d.values[name] = out
	d.errors = nil
	return nil
}

func (d *Draft) setEntryField(name string, index int, sub string, value any) error {
	f, entries, err := d.arrayField(name)
	if err != nil {
		return err
	}

	if index < 0 || index >= len(entries) {
		return fmt.Errorf("%w: %s[%d]", internal.ErrArrayIndexOutOfRange, name, index)
	}

	var subSpec schema.FieldSpec
	found := false
	for _, s := range f.Elem {
		if s.Name == sub {
			subSpec = s
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s.%s", internal.ErrUnknownField, name, sub)
	}

	coerced, err := coerce(subSpec, value)
	if err != nil {
		return err
	}

	entries[index][sub] = coerced
	d.errors = nil
	return nil
}

func (d *Draft) arrayField(name string) (schema.FieldSpec, []map[string]any, error) {
	f, ok := d.schema.Field(name)
	if !ok {
		return schema.FieldSpec{}, nil, fmt.Errorf("%w: %s", internal.ErrUnknownField, name)
	}
	if f.Kind != schema.KindArrayOfObject {
		return schema.FieldSpec{}, nil, fmt.Errorf("%w: %s", internal.ErrNotArrayField, name)
	}

	entries, _ := d.values[name].([]map[string]any)
	return f, entries, nil
}

// coerce type-checks an incoming value against the field kind. Numbers are
// kept as given (string or numeric); Validate catches unparseable ones at
// submit time so a half-typed value does not block editing.
func coerce(f schema.FieldSpec, value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch f.Kind {
	case schema.KindText, schema.KindLongText, schema.KindEnumSelect, schema.KindFileRef:
		text, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects text", internal.ErrBadFieldValue, f.Name)
		}
		return text, nil
	case schema.KindBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects a boolean", internal.ErrBadFieldValue, f.Name)
		}
		return b, nil
	case schema.KindNumber:
		switch value.(type) {
		case string, float64, float32, int, int32, int64:
			return value, nil
		default:
			return nil, fmt.Errorf("%w: %s expects a number", internal.ErrBadFieldValue, f.Name)
		}
	default:
		return nil, fmt.Errorf("%w: %s cannot be set directly", internal.ErrBadFieldValue, f.Name)
	}
}

// DraftSnapshot is a detached copy of the draft for rendering.
type DraftSnapshot struct {
	RecordID  string
	Values    map[string]any
	Uploading map[string]bool
	Errors    []internal.FieldError
}

func (d *Draft) snapshot() *DraftSnapshot {
	if d == nil {
		return nil
	}

	uploading := make(map[string]bool, len(d.uploading))
	for k, v := range d.uploading {
		uploading[k] = v
	}

	errs := make([]internal.FieldError, len(d.errors))
	copy(errs, d.errors)

	return &DraftSnapshot{
		RecordID:  d.recordID,
		Values:    record.CloneValues(d.values),
		Uploading: uploading,
		Errors:    errs,
	}
}
