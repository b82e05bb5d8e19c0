// Package view projects editor state into the JSON view models served to the
// console frontend. Rendering is pure: nothing here mutates the editor.
package view

import (
	"fmt"

	"instituteweb/admin-console/internal"
	"instituteweb/admin-console/internal/editor"
	"instituteweb/admin-console/internal/schema"
)

// ControlKind names the input widget a field renders as.
type ControlKind string

const (
	ControlTextInput   ControlKind = "text_input"
	ControlTextarea    ControlKind = "textarea"
	ControlNumberInput ControlKind = "number_input"
	ControlCheckbox    ControlKind = "checkbox"
	ControlSelect      ControlKind = "select"
	ControlArrayEditor ControlKind = "array_editor"
	ControlFilePicker  ControlKind = "file_picker"
)

type InputView struct {
	Name      string      `json:"name"`
	Label     string      `json:"label"`
	Control   ControlKind `json:"control"`
	Required  bool        `json:"required"`
	Options   []string    `json:"options,omitempty"`
	Value     any         `json:"value"`
	Error     string      `json:"error,omitempty"`
	Uploading bool        `json:"uploading,omitempty"`
	Rows      []ArrayRow  `json:"rows,omitempty"`
}

type ArrayRow struct {
	Index  int         `json:"index"`
	Inputs []InputView `json:"inputs"`
}

type FormView struct {
	Section  string          `json:"section"`
	Title    string          `json:"title"`
	Mode     editor.FormMode `json:"mode"`
	RecordID string          `json:"recordId,omitempty"`
	Inputs   []InputView     `json:"inputs"`
}

// RenderForm lays out the open draft field by field, in schema order, with
// validation errors attached to the inputs they belong to.
func RenderForm(s schema.Schema, mode editor.FormMode, d *editor.DraftSnapshot) FormView {
	form := FormView{
		Section:  s.Section,
		Title:    s.Title,
		Mode:     mode,
		RecordID: d.RecordID,
		Inputs:   make([]InputView, 0, len(s.Fields)),
	}

	errs := indexErrors(d.Errors)

	for _, f := range s.Fields {
		in := InputView{
			Name:      f.Name,
			Label:     f.Label,
			Control:   controlFor(f.Kind),
			Required:  f.Required,
			Options:   f.Options,
			Value:     d.Values[f.Name],
			Error:     errs[f.Name],
			Uploading: d.Uploading[f.Name],
		}

		if f.Kind == schema.KindArrayOfObject {
			in.Value = nil
			in.Rows = renderRows(f, d.Values[f.Name], errs)
		}

		form.Inputs = append(form.Inputs, in)
	}

	return form
}

func renderRows(f schema.FieldSpec, value any, errs map[string]string) []ArrayRow {
	entries, _ := value.([]map[string]any)
	rows := make([]ArrayRow, 0, len(entries))

	for i, entry := range entries {
		row := ArrayRow{Index: i, Inputs: make([]InputView, 0, len(f.Elem))}
		for _, sub := range f.Elem {
			row.Inputs = append(row.Inputs, InputView{
				Name:     sub.Name,
				Label:    sub.Label,
				Control:  controlFor(sub.Kind),
				Required: sub.Required,
				Options:  sub.Options,
				Value:    entry[sub.Name],
				Error:    errs[fmt.Sprintf("%s[%d].%s", f.Name, i, sub.Name)],
			})
		}
		rows = append(rows, row)
	}

	return rows
}

func indexErrors(fieldErrs []internal.FieldError) map[string]string {
	if len(fieldErrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Reason
		}
	}
	return out
}

func controlFor(kind schema.FieldKind) ControlKind {
	switch kind {
	case schema.KindLongText:
		return ControlTextarea
	case schema.KindNumber:
		return ControlNumberInput
	case schema.KindBoolean:
		return ControlCheckbox
	case schema.KindEnumSelect:
		return ControlSelect
	case schema.KindArrayOfObject:
		return ControlArrayEditor
	case schema.KindFileRef:
		return ControlFilePicker
	default:
		return ControlTextInput
	}
}
