package view

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"instituteweb/admin-console/internal/record"
	"instituteweb/admin-console/internal/schema"
)

const cellRuneLimit = 80

type Column struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

type ListRow struct {
	ID          string            `json:"id"`
	SortOrder   int               `json:"sortOrder"`
	IsPublished bool              `json:"isPublished"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Cells       map[string]string `json:"cells"`
}

type ListView struct {
	Section  string    `json:"section"`
	Title    string    `json:"title"`
	ReadOnly bool      `json:"readOnly"`
	Columns  []Column  `json:"columns"`
	Rows     []ListRow `json:"rows"`
}

// RenderList projects records into table rows ordered by SortOrder ascending.
// Records sharing a SortOrder keep their fetched order.
func RenderList(s schema.Schema, records []record.Record) ListView {
	list := ListView{
		Section:  s.Section,
		Title:    s.Title,
		ReadOnly: s.ReadOnly,
		Columns:  make([]Column, 0, len(s.Fields)),
		Rows:     make([]ListRow, 0, len(records)),
	}

	for _, f := range s.Fields {
		list.Columns = append(list.Columns, Column{Name: f.Name, Label: f.Label})
	}

	ordered := make([]record.Record, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SortOrder < ordered[j].SortOrder
	})

	for _, r := range ordered {
		row := ListRow{
			ID:          r.ID,
			SortOrder:   r.SortOrder,
			IsPublished: r.IsPublished,
			UpdatedAt:   r.UpdatedAt,
			Cells:       make(map[string]string, len(s.Fields)),
		}
		for _, f := range s.Fields {
			row.Cells[f.Name] = truncate(CellText(f, r.Fields[f.Name]))
		}
		list.Rows = append(list.Rows, row)
	}

	return list
}

// CellText flattens a field value into a single display string.
func CellText(f schema.FieldSpec, value any) string {
	if value == nil {
		return ""
	}

	switch f.Kind {
	case schema.KindBoolean:
		if b, ok := value.(bool); ok && b {
			return "Yes"
		}
		return "No"
	case schema.KindNumber:
		switch n := value.(type) {
		case float64:
			return strconv.FormatFloat(n, 'f', -1, 64)
		case int:
			return strconv.Itoa(n)
		case string:
			return n
		}
	case schema.KindArrayOfObject:
		switch entries := value.(type) {
		case []map[string]any:
			return entryCount(len(entries))
		case []any:
			return entryCount(len(entries))
		}
	case schema.KindLongText:
		switch lines := value.(type) {
		case []string:
			return strings.Join(lines, "; ")
		case []any:
			parts := make([]string, 0, len(lines))
			for _, line := range lines {
				if s, ok := line.(string); ok {
					parts = append(parts, s)
				}
			}
			return strings.Join(parts, "; ")
		}
	}

	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func entryCount(n int) string {
	if n == 1 {
		return "1 entry"
	}
	return fmt.Sprintf("%d entries", n)
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= cellRuneLimit {
		return s
	}
	return string(runes[:cellRuneLimit-1]) + "…"
}
