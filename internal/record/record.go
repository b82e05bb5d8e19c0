package record

import "time"

// Record is one persisted piece of site content within a section. Field values
// are schema-typed: string for text kinds, float64 for numbers, bool for
// booleans, []map[string]any for list fields and a filename string for file
// references. Records without an ID have not been persisted yet.
type Record struct {
	ID          string         `json:"id"`
	SortOrder   int            `json:"sortOrder"`
	IsPublished bool           `json:"isPublished"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Fields      map[string]any `json:"fields"`
}

// Clone returns a deep copy so form drafts never alias the listed record.
func (r Record) Clone() Record {
	out := r
	out.Fields = CloneValues(r.Fields)
	return out
}

// CloneValues deep-copies a field value map, including list-field elements.
func CloneValues(values map[string]any) map[string]any {
	if values == nil {
		return nil
	}

	out := make(map[string]any, len(values))
	for name, value := range values {
		out[name] = CloneValue(value)
	}
	return out
}

// CloneValue deep-copies a single field value.
func CloneValue(value any) any {
	switch v := value.(type) {
	case []map[string]any:
		entries := make([]map[string]any, len(v))
		for i, entry := range v {
			entries[i] = CloneValues(entry)
		}
		return entries
	case []any:
		entries := make([]any, len(v))
		for i, entry := range v {
			entries[i] = CloneValue(entry)
		}
		return entries
	case map[string]any:
		return CloneValues(v)
	case []string:
		entries := make([]string, len(v))
		copy(entries, v)
		return entries
	default:
		return v
	}
}
