package schema

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// sanitizePolicy strips all HTML markup from long-text values flagged with
// Sanitize before they are sent to the backend.
var sanitizePolicy = bluemonday.StrictPolicy()

// Encode turns validated draft values into the wire payload for the record
// store: blank list entries are dropped, SplitLines long text becomes a string
// slice with blank lines removed, sanitized fields lose any markup and numbers
// are coerced to float64. Encode assumes Validate has already passed.
func (s Schema) Encode(values map[string]any) map[string]any {
	payload := make(map[string]any, len(s.Fields))

	for _, f := range s.Fields {
		value := values[f.Name]

		switch f.Kind {
		case KindText, KindEnumSelect, KindFileRef:
			text, _ := value.(string)
			payload[f.Name] = strings.TrimSpace(text)
		case KindLongText:
			payload[f.Name] = encodeLongText(f, value)
		case KindNumber:
			if isBlank(value) {
				payload[f.Name] = nil
				continue
			}
			n, _ := toNumber(value)
			payload[f.Name] = n
		case KindBoolean:
			b, _ := value.(bool)
			payload[f.Name] = b
		case KindArrayOfObject:
			payload[f.Name] = encodeEntries(f, value)
		}
	}

	return payload
}

func encodeLongText(f FieldSpec, value any) any {
	text, _ := value.(string)
	if f.Sanitize {
		text = sanitizePolicy.Sanitize(text)
	}

	if !f.SplitLines {
		return text
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if lines == nil {
		lines = []string{}
	}
	return lines
}

func encodeEntries(f FieldSpec, value any) []map[string]any {
	entries, _ := value.([]map[string]any)

	out := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		if !entryProvided(f.Elem, entry) {
			continue
		}

		encoded := make(map[string]any, len(f.Elem))
		for _, sub := range f.Elem {
			text, _ := entry[sub.Name].(string)
			encoded[sub.Name] = strings.TrimSpace(text)
		}
		out = append(out, encoded)
	}
	return out
}
