package schema

import (
	"fmt"
	"strconv"
	"strings"

	"instituteweb/admin-console/internal"
)

// Validate checks draft values against the schema. It returns one FieldError
// per offending field; an empty slice means the draft may be submitted.
// List entries whose required sub-fields are blank are treated as "not yet
// provided" and skipped, never reported as errors.
func (s Schema) Validate(values map[string]any) []internal.FieldError {
	var errs []internal.FieldError

	for _, f := range s.Fields {
		value := values[f.Name]

		switch f.Kind {
		case KindText, KindLongText, KindEnumSelect, KindFileRef:
			errs = appendStringErrors(errs, f, value)
		case KindNumber:
			errs = appendNumberErrors(errs, f, value)
		case KindBoolean:
			if value != nil {
				if _, ok := value.(bool); !ok {
					errs = append(errs, internal.FieldError{Field: f.Name, Reason: "must be true or false"})
				}
			}
		case KindArrayOfObject:
			errs = appendArrayErrors(errs, f, value)
		}
	}

	return errs
}

func appendStringErrors(errs []internal.FieldError, f FieldSpec, value any) []internal.FieldError {
	text, ok := value.(string)
	if !ok && value != nil {
		return append(errs, internal.FieldError{Field: f.Name, Reason: "must be text"})
	}

	if strings.TrimSpace(text) == "" {
		if f.Required {
			return append(errs, internal.FieldError{Field: f.Name, Reason: "is required"})
		}
		return errs
	}

	if f.MaxLength > 0 && len(text) > f.MaxLength {
		return append(errs, internal.FieldError{
			Field:  f.Name,
			Reason: fmt.Sprintf("exceeds maximum length of %d", f.MaxLength),
		})
	}

	if f.Kind == KindEnumSelect && len(f.Options) > 0 {
		for _, opt := range f.Options {
			if text == opt {
				return errs
			}
		}
		return append(errs, internal.FieldError{
			Field:  f.Name,
			Reason: "must be one of " + strings.Join(f.Options, ", "),
		})
	}

	return errs
}

func appendNumberErrors(errs []internal.FieldError, f FieldSpec, value any) []internal.FieldError {
	if isBlank(value) {
		if f.Required {
			return append(errs, internal.FieldError{Field: f.Name, Reason: "is required"})
		}
		return errs
	}

	n, ok := toNumber(value)
	if !ok {
		return append(errs, internal.FieldError{Field: f.Name, Reason: "must be a number"})
	}

	if f.Min != nil && n < *f.Min {
		return append(errs, internal.FieldError{Field: f.Name, Reason: fmt.Sprintf("must be at least %g", *f.Min)})
	}
	if f.Max != nil && n > *f.Max {
		return append(errs, internal.FieldError{Field: f.Name, Reason: fmt.Sprintf("must be at most %g", *f.Max)})
	}

	return errs
}

func appendArrayErrors(errs []internal.FieldError, f FieldSpec, value any) []internal.FieldError {
	entries, ok := value.([]map[string]any)
	if !ok && value != nil {
		return append(errs, internal.FieldError{Field: f.Name, Reason: "must be a list"})
	}

	complete := 0
	for i, entry := range entries {
		if !entryProvided(f.Elem, entry) {
			continue
		}
		complete++

		for _, sub := range f.Elem {
			text, _ := entry[sub.Name].(string)
			if sub.MaxLength > 0 && len(text) > sub.MaxLength {
				errs = append(errs, internal.FieldError{
					Field:  fmt.Sprintf("%s[%d].%s", f.Name, i, sub.Name),
					Reason: fmt.Sprintf("exceeds maximum length of %d", sub.MaxLength),
				})
			}
		}
	}

	if f.Required && complete == 0 {
		errs = append(errs, internal.FieldError{Field: f.Name, Reason: "needs at least one entry"})
	}

	return errs
}

// entryProvided reports whether every required sub-field of a list entry is
// filled in. Entries failing this are the repeater's blank "add more" rows.
func entryProvided(elem []FieldSpec, entry map[string]any) bool {
	for _, sub := range elem {
		if !sub.Required {
			continue
		}
		text, _ := entry[sub.Name].(string)
		if strings.TrimSpace(text) == "" {
			return false
		}
	}
	return true
}

func isBlank(value any) bool {
	if value == nil {
		return true
	}
	if text, ok := value.(string); ok {
		return strings.TrimSpace(text) == ""
	}
	return false
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
