package themes

import "testing"

func TestLoadEmbeddedRegistry(t *testing.T) {
	r, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	names := r.Names()
	if len(names) != 2 || names[0] != "minimalist" || names[1] != "floral" {
		t.Errorf("Names = %v, want [minimalist floral]", names)
	}
}

func TestFieldShorthandAndDescriptor(t *testing.T) {
	r, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	page, ok := r.Page("minimalist", "home")
	if !ok {
		t.Fatal("minimalist/home not found")
	}

	if len(page.Fields) != 4 {
		t.Fatalf("fields = %d, want 4", len(page.Fields))
	}

	// Bare string shorthand becomes a text field.
	if page.Fields[0].Name != "title" || page.Fields[0].Type != FieldText {
		t.Errorf("field 0 = %+v, want title/text", page.Fields[0])
	}

	// Structured descriptor keeps its declared type.
	if page.Fields[2].Name != "heroImage" || page.Fields[2].Type != FieldImage {
		t.Errorf("field 2 = %+v, want heroImage/image", page.Fields[2])
	}
}

func TestImageSequenceMax(t *testing.T) {
	r, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	page, ok := r.Page("floral", "our-story")
	if !ok {
		t.Fatal("floral/our-story not found")
	}

	var images *Field
	for i := range page.Fields {
		if page.Fields[i].Name == "images" {
			images = &page.Fields[i]
		}
	}
	if images == nil {
		t.Fatal("images field not found")
	}
	if images.Type != FieldImages || images.Max != 4 {
		t.Errorf("images = %+v, want type images, max 4", images)
	}
}

func TestActiveByDefault(t *testing.T) {
	r, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	home, _ := r.Page("minimalist", "home")
	if !home.ActiveByDefault {
		t.Error("home should be active by default")
	}

	story, _ := r.Page("minimalist", "our-story")
	if story.ActiveByDefault {
		t.Error("our-story should not be active by default")
	}
}

func TestUnknownLookups(t *testing.T) {
	r, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, ok := r.Theme("baroque"); ok {
		t.Error("unknown theme should miss")
	}
	if _, ok := r.Page("minimalist", "rsvp"); ok {
		t.Error("unknown page should miss")
	}
}

func TestPageOrderMatchesDeclaration(t *testing.T) {
	r, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	theme, _ := r.Theme("minimalist")
	order := theme.PageOrder()
	want := []string{"home", "our-story", "gallery"}
	if len(order) != len(want) {
		t.Fatalf("PageOrder = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("PageOrder[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}
