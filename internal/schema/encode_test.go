package schema

import (
	"reflect"
	"testing"
)

func TestSchema_Encode_SplitsObjectiveLines(t *testing.T) {
	s, err := Builtin().SchemaFor("mou")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	values := s.NewDraftValues()
	values["organization"] = "X"
	values["type"] = "Govt"
	values["category"] = "Y"
	values["title"] = "T"
	values["description"] = "D"
	values["objectives"] = "a\nb"

	payload := s.Encode(values)

	objectives, ok := payload["objectives"].([]string)
	if !ok {
		t.Fatalf("Expected objectives to encode as []string, got %T", payload["objectives"])
	}
	if !reflect.DeepEqual(objectives, []string{"a", "b"}) {
		t.Errorf("Expected objectives [a b], got %v", objectives)
	}
}

func TestSchema_Encode_DropsBlankLinesAndEntries(t *testing.T) {
	s, err := Builtin().SchemaFor("mou")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	values := s.NewDraftValues()
	values["objectives"] = "  first  \n\n   \nsecond\n"
	values["partners"] = []map[string]any{
		{"name": "Acme", "description": " lead "},
		{"name": "  ", "description": "blank add-more row"},
	}

	payload := s.Encode(values)

	objectives := payload["objectives"].([]string)
	if !reflect.DeepEqual(objectives, []string{"first", "second"}) {
		t.Errorf("Expected blank lines dropped, got %v", objectives)
	}

	partners := payload["partners"].([]map[string]any)
	if len(partners) != 1 {
		t.Fatalf("Expected blank partner entry dropped, got %d entries", len(partners))
	}
	if partners[0]["name"] != "Acme" || partners[0]["description"] != "lead" {
		t.Errorf("Expected trimmed partner entry, got %v", partners[0])
	}
}

func TestSchema_Encode_SanitizesMarkup(t *testing.T) {
	s, err := Builtin().SchemaFor("news")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	values := s.NewDraftValues()
	values["title"] = "Campus update"
	values["content"] = `Welcome <script>alert("x")</script>everyone`

	payload := s.Encode(values)

	if payload["content"] != "Welcome everyone" {
		t.Errorf("Expected markup stripped, got %q", payload["content"])
	}
}

func TestSchema_Encode_CoercesNumbers(t *testing.T) {
	s, err := Builtin().SchemaFor("testimonial")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	values := s.NewDraftValues()
	values["authorName"] = "A"
	values["quote"] = "Q"
	values["rating"] = "4"

	payload := s.Encode(values)

	if payload["rating"] != float64(4) {
		t.Errorf("Expected rating 4, got %v (%T)", payload["rating"], payload["rating"])
	}

	values["rating"] = ""
	payload = s.Encode(values)
	if payload["rating"] != nil {
		t.Errorf("Expected blank rating to encode as nil, got %v", payload["rating"])
	}
}
