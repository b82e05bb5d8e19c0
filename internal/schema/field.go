package schema

// FieldKind discriminates how a field is edited, validated and encoded.
type FieldKind string

const (
	KindText          FieldKind = "text"
	KindLongText      FieldKind = "long_text"
	KindNumber        FieldKind = "number"
	KindBoolean       FieldKind = "boolean"
	KindEnumSelect    FieldKind = "enum_select"
	KindArrayOfObject FieldKind = "array_of_object"
	KindFileRef       FieldKind = "file_ref"
)

// FieldSpec declares one field of a section schema.
//
// For KindArrayOfObject, Elem holds the shape of each list entry; entries whose
// required sub-fields are all blank count as "not yet provided" rather than
// invalid, mirroring the trailing blank row a repeater form keeps around.
// For KindLongText, SplitLines encodes the value as a newline-separated string
// list on submit, and Sanitize strips any HTML markup before sending.
type FieldSpec struct {
	Name     string
	Label    string
	Kind     FieldKind
	Required bool

	MaxLength int
	Min       *float64
	Max       *float64
	Options   []string
	Elem      []FieldSpec
	Default   any

	SplitLines bool
	Sanitize   bool

	// Category names the upload bucket for KindFileRef fields; Accept
	// restricts what the field takes.
	Category string
	Accept   FileAccept
}

// FileAccept narrows the uploads a KindFileRef field accepts.
type FileAccept string

const (
	// AcceptImage takes JPEG, PNG or WebP, verified by magic bytes.
	AcceptImage FileAccept = "image"
	// AcceptDocument takes PDF documents.
	AcceptDocument FileAccept = "document"
)

// ZeroValue seeds a fresh draft value for the field. Required list fields start
// with a single blank entry so the form always shows one editable row.
func (f FieldSpec) ZeroValue() any {
	if f.Default != nil {
		return f.Default
	}

	switch f.Kind {
	case KindBoolean:
		return false
	case KindNumber:
		return nil
	case KindArrayOfObject:
		if f.Required {
			return []map[string]any{blankEntry(f.Elem)}
		}
		return []map[string]any{}
	default:
		return ""
	}
}

func blankEntry(elem []FieldSpec) map[string]any {
	entry := make(map[string]any, len(elem))
	for _, sub := range elem {
		entry[sub.Name] = sub.ZeroValue()
	}
	return entry
}

func floatPtr(v float64) *float64 {
	return &v
}
