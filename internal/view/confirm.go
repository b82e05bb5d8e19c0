package view

import (
	"fmt"

	"instituteweb/admin-console/internal/record"
	"instituteweb/admin-console/internal/schema"
)

type Confirmation struct {
	RecordID string `json:"recordId"`
	Label    string `json:"label"`
	Message  string `json:"message"`
}

// RenderConfirmation builds the delete gate shown before a destructive
// operation fires. The label is the record's first non-empty text field, so
// the person confirming sees what they are about to remove.
func RenderConfirmation(s schema.Schema, target record.Record) Confirmation {
	label := recordLabel(s, target)

	message := fmt.Sprintf("Delete this %s record? This cannot be undone.", s.Title)
	if label != "" {
		message = fmt.Sprintf("Delete %q from %s? This cannot be undone.", label, s.Title)
	}

	return Confirmation{
		RecordID: target.ID,
		Label:    label,
		Message:  message,
	}
}

func recordLabel(s schema.Schema, target record.Record) string {
	for _, f := range s.Fields {
		if f.Kind != schema.KindText && f.Kind != schema.KindEnumSelect {
			continue
		}
		if v, ok := target.Fields[f.Name].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
