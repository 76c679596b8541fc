package vision

import "testing"

func TestParseExtraction(t *testing.T) {
	ext, err := ParseExtraction(`{"title":"Miso Soup","body_text":"dashi, miso...","ingredientTags":["miso","tofu"]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ext.Title != "Miso Soup" {
		t.Errorf("title = %q", ext.Title)
	}
	if len(ext.IngredientTags) != 2 {
		t.Errorf("tags = %v", ext.IngredientTags)
	}
}

func TestParseExtractionFenced(t *testing.T) {
	raw := "```json\n{\"title\":\"Curry\",\"body_text\":\"...\",\"ingredientTags\":[]}\n```"
	ext, err := ParseExtraction(raw)
	if err != nil {
		t.Fatalf("parse fenced: %v", err)
	}
	if ext.Title != "Curry" {
		t.Errorf("title = %q", ext.Title)
	}
}

func TestParseExtractionError(t *testing.T) {
	ext, err := ParseExtraction(`{"error": "no recipe found"}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ext.Error != "no recipe found" {
		t.Errorf("error = %q", ext.Error)
	}
}

func TestParseExtractionGarbage(t *testing.T) {
	if _, err := ParseExtraction("I could not read the image, sorry."); err == nil {
		t.Fatal("expected parse error")
	}
}
