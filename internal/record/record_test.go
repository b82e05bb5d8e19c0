package record

import "testing"

func TestClone_DoesNotAliasFields(t *testing.T) {
	original := Record{
		ID:        "rec-1",
		SortOrder: 3,
		Fields: map[string]any{
			"title": "Annual Report",
			"partners": []map[string]any{
				{"name": "Acme", "description": "sponsor"},
			},
		},
	}

	clone := original.Clone()
	clone.Fields["title"] = "Changed"
	clone.Fields["partners"].([]map[string]any)[0]["name"] = "Changed"

	if original.Fields["title"] != "Annual Report" {
		t.Errorf("Expected original title to stay %q, got %q", "Annual Report", original.Fields["title"])
	}
	if got := original.Fields["partners"].([]map[string]any)[0]["name"]; got != "Acme" {
		t.Errorf("Expected original partner name to stay %q, got %q", "Acme", got)
	}
}

func TestCloneValues_NilStaysNil(t *testing.T) {
	if CloneValues(nil) != nil {
		t.Error("Expected nil input to produce nil output")
	}
}
