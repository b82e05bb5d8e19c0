package view

import (
	"strings"
	"testing"

	"instituteweb/admin-console/internal"
	"instituteweb/admin-console/internal/editor"
	"instituteweb/admin-console/internal/record"
	"instituteweb/admin-console/internal/schema"
	"instituteweb/admin-console/test/testdata/recordbuilder"

	"github.com/stretchr/testify/require"
)

func mouSchema(t *testing.T) schema.Schema {
	t.Helper()

	s, err := schema.Builtin().SchemaFor("mou")
	require.NoError(t, err)
	return s
}

func TestRenderList(t *testing.T) {
	t.Run("Should order rows by sort order keeping ties stable", func(t *testing.T) {
		s := mouSchema(t)
		builder := recordbuilder.New(t)
		records := []record.Record{
			builder.Mou(recordbuilder.WithID("c"), recordbuilder.WithSortOrder(2)),
			builder.Mou(recordbuilder.WithID("a"), recordbuilder.WithSortOrder(1)),
			builder.Mou(recordbuilder.WithID("b"), recordbuilder.WithSortOrder(1)),
		}

		list := RenderList(s, records)

		require.Len(t, list.Rows, 3)
		require.Equal(t, "a", list.Rows[0].ID)
		require.Equal(t, "b", list.Rows[1].ID)
		require.Equal(t, "c", list.Rows[2].ID)
		// input order untouched
		require.Equal(t, "c", records[0].ID)
	})

	t.Run("Should render one column per schema field", func(t *testing.T) {
		s := mouSchema(t)

		list := RenderList(s, nil)

		require.Len(t, list.Columns, len(s.Fields))
		require.Equal(t, "organization", list.Columns[0].Name)
		require.Empty(t, list.Rows)
	})

	t.Run("Should truncate long cell text", func(t *testing.T) {
		s := mouSchema(t)
		long := strings.Repeat("x", 200)
		records := []record.Record{
			recordbuilder.New(t).Mou(recordbuilder.WithField("organization", long)),
		}

		list := RenderList(s, records)

		require.Equal(t, strings.Repeat("x", cellRuneLimit-1)+"…", list.Rows[0].Cells["organization"])
	})
}

func TestCellText(t *testing.T) {
	testCases := []struct {
		name  string
		field schema.FieldSpec
		value any
		want  string
	}{
		{
			name:  "Should render nil as empty",
			field: schema.FieldSpec{Kind: schema.KindText},
			value: nil,
			want:  "",
		},
		{
			name:  "Should render booleans as Yes or No",
			field: schema.FieldSpec{Kind: schema.KindBoolean},
			value: true,
			want:  "Yes",
		},
		{
			name:  "Should render numbers without a trailing fraction",
			field: schema.FieldSpec{Kind: schema.KindNumber},
			value: float64(4),
			want:  "4",
		},
		{
			name:  "Should render list fields as an entry count",
			field: schema.FieldSpec{Kind: schema.KindArrayOfObject},
			value: []map[string]any{{"name": "x"}, {"name": "y"}},
			want:  "2 entries",
		},
		{
			name:  "Should join split long text lines",
			field: schema.FieldSpec{Kind: schema.KindLongText},
			value: []string{"Joint research", "Student exchange"},
			want:  "Joint research; Student exchange",
		},
		{
			name:  "Should join JSON-decoded long text lines",
			field: schema.FieldSpec{Kind: schema.KindLongText},
			value: []any{"Joint research", "Student exchange"},
			want:  "Joint research; Student exchange",
		},
		{
			name:  "Should count JSON-decoded list entries",
			field: schema.FieldSpec{Kind: schema.KindArrayOfObject},
			value: []any{map[string]any{"name": "x"}},
			want:  "1 entry",
		},
		{
			name:  "Should keep long values whole",
			field: schema.FieldSpec{Kind: schema.KindText},
			value: strings.Repeat("x", 200),
			want:  strings.Repeat("x", 200),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, CellText(tc.field, tc.value))
		})
	}
}

func TestRenderForm(t *testing.T) {
	t.Run("Should lay out inputs in schema order with draft values", func(t *testing.T) {
		s := mouSchema(t)
		d := &editor.DraftSnapshot{
			Values: map[string]any{
				"organization": "Acme Corp",
				"type":         "Industry",
				"partners": []map[string]any{
					{"name": "Acme Labs", "description": ""},
				},
			},
			Uploading: map[string]bool{"logo": true},
		}

		form := RenderForm(s, editor.ModeCreate, d)

		require.Len(t, form.Inputs, len(s.Fields))
		require.Equal(t, "organization", form.Inputs[0].Name)
		require.Equal(t, ControlTextInput, form.Inputs[0].Control)
		require.Equal(t, "Acme Corp", form.Inputs[0].Value)

		byName := map[string]InputView{}
		for _, in := range form.Inputs {
			byName[in.Name] = in
		}
		require.Equal(t, ControlSelect, byName["type"].Control)
		require.Equal(t, []string{"Govt", "Industry", "Academia"}, byName["type"].Options)
		require.True(t, byName["logo"].Uploading)
		require.Equal(t, ControlFilePicker, byName["logo"].Control)

		partners := byName["partners"]
		require.Equal(t, ControlArrayEditor, partners.Control)
		require.Len(t, partners.Rows, 1)
		require.Equal(t, "Acme Labs", partners.Rows[0].Inputs[0].Value)
	})

	t.Run("Should attach validation errors to their inputs", func(t *testing.T) {
		s := mouSchema(t)
		d := &editor.DraftSnapshot{
			Values: map[string]any{
				"partners": []map[string]any{{"name": "", "description": "present"}},
			},
			Errors: []internal.FieldError{
				{Field: "organization", Reason: "is required"},
				{Field: "partners[0].name", Reason: "is required"},
			},
		}

		form := RenderForm(s, editor.ModeEdit, d)

		byName := map[string]InputView{}
		for _, in := range form.Inputs {
			byName[in.Name] = in
		}
		require.Equal(t, "is required", byName["organization"].Error)
		require.Equal(t, "is required", byName["partners"].Rows[0].Inputs[0].Error)
		require.Empty(t, byName["title"].Error)
	})
}

func TestRenderConfirmation(t *testing.T) {
	t.Run("Should name the record in the message", func(t *testing.T) {
		s := mouSchema(t)
		target := recordbuilder.New(t).Mou(
			recordbuilder.WithID("m1"),
			recordbuilder.WithField("organization", "Acme Corp"),
		)

		confirm := RenderConfirmation(s, target)

		require.Equal(t, "m1", confirm.RecordID)
		require.Equal(t, "Acme Corp", confirm.Label)
		require.Contains(t, confirm.Message, `"Acme Corp"`)
		require.Contains(t, confirm.Message, "cannot be undone")
	})

	t.Run("Should fall back to a generic message without a label field", func(t *testing.T) {
		s := mouSchema(t)
		target := record.Record{ID: "m2", Fields: map[string]any{}}

		confirm := RenderConfirmation(s, target)

		require.Empty(t, confirm.Label)
		require.Contains(t, confirm.Message, s.Title)
	})
}
