package patch

import (
	"errors"
	"testing"

	"github.com/betahouse/listings/internal/domain"
	"github.com/betahouse/listings/internal/domain/property"
)

func strPtr(s string) *string { return &s }

const placeholder = "https://placehold.co/600x400?text=No+Image"

func TestNew_Empty(t *testing.T) {
	p, err := New(property.Input{}, placeholder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.IsEmpty() {
		t.Error("expected empty patch")
	}
}

func TestNew_TitleDerivesSlug(t *testing.T) {
	p, err := New(property.Input{Title: strPtr("  New Shiny Title ")}, placeholder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Title() == nil || *p.Title() != "New Shiny Title" {
		t.Errorf("title = %v", p.Title())
	}
	if p.Slug() == nil || *p.Slug() != "new-shiny-title" {
		t.Fatalf("slug = %v", p.Slug())
	}
}

func TestNew_SlugUntouchedWithoutTitle(t *testing.T) {
	p, err := New(property.Input{Price: strPtr("500")}, placeholder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Slug() != nil || p.Title() != nil {
		t.Error("slug set without title")
	}
	if p.Price() == nil || *p.Price() != 500 {
		t.Errorf("price = %v", p.Price())
	}
}

func TestNew_EmptyImagesResolveToPlaceholder(t *testing.T) {
	p, err := New(property.Input{Images: []string{}}, placeholder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.Images(); len(got) != 1 || got[0] != placeholder {
		t.Errorf("images = %v", got)
	}
}

func TestWithImages_Replaces(t *testing.T) {
	p, _ := New(property.Input{}, placeholder)
	p = p.WithImages([]string{"x.png", "y.png"}, placeholder)
	if got := p.Images(); len(got) != 2 || got[0] != "x.png" {
		t.Errorf("images = %v", got)
	}
	if p.IsEmpty() {
		t.Error("patch with images reported empty")
	}
}

func TestNew_FieldsExposed(t *testing.T) {
	loc := property.Location{City: "Lekki", Area: "Phase 1"}
	p, err := New(property.Input{
		Description: strPtr("Sea view"),
		Currency:    strPtr(" USD "),
		Status:      strPtr("rent"),
		Type:        strPtr("Studio"),
		Location:    &loc,
		Bedrooms:    strPtr("2"),
		Bathrooms:   strPtr("1"),
		Sqft:        strPtr("85.5"),
		Features:    []string{"pool", "  "},
		Featured:    strPtr("true"),
	}, placeholder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantType, _ := property.ParseType("Studio")

	switch {
	case p.Description() == nil || *p.Description() != "Sea view":
		t.Errorf("description = %v", p.Description())
	case p.Currency() == nil || *p.Currency() != "USD":
		t.Errorf("currency = %v", p.Currency())
	case p.Status() == nil || *p.Status() != property.Status("rent"):
		t.Errorf("status = %v", p.Status())
	case p.Type() == nil || *p.Type() != wantType:
		t.Errorf("type = %v", p.Type())
	case p.Location() == nil || p.Location().City != "Lekki":
		t.Errorf("location = %v", p.Location())
	case p.Bedrooms() == nil || *p.Bedrooms() != 2, p.Bathrooms() == nil || *p.Bathrooms() != 1:
		t.Errorf("bedrooms/bathrooms = %v/%v", p.Bedrooms(), p.Bathrooms())
	case p.Sqft() == nil || *p.Sqft() != 85.5:
		t.Errorf("sqft = %v", p.Sqft())
	case len(p.Features()) != 1 || p.Features()[0] != "pool":
		t.Errorf("features = %v", p.Features())
	case p.Featured() == nil || !*p.Featured():
		t.Errorf("featured = %v", p.Featured())
	}
	if p.Images() != nil || p.Title() != nil {
		t.Error("unsupplied fields must stay nil")
	}
}

func TestNew_ZeroBedroomsAllowed(t *testing.T) {
	p, err := New(property.Input{Bedrooms: strPtr("0")}, placeholder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Bedrooms() == nil || *p.Bedrooms() != 0 {
		t.Errorf("bedrooms = %v", p.Bedrooms())
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name  string
		in    property.Input
		field string
	}{
		{"short title", property.Input{Title: strPtr("ab")}, property.FieldTitle},
		{"bad price", property.Input{Price: strPtr("x")}, property.FieldPrice},
		{"negative price", property.Input{Price: strPtr("-5")}, property.FieldPrice},
		{"bad status", property.Input{Status: strPtr("sold")}, property.FieldStatus},
		{"bad type", property.Input{Type: strPtr("Castle")}, property.FieldType},
		{"negative bedrooms", property.Input{Bedrooms: strPtr("-1")}, property.FieldBedrooms},
		{"bad bathrooms", property.Input{Bathrooms: strPtr("two")}, property.FieldBathrooms},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.in, placeholder)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if f := domain.Fields(err); len(f) != 1 || f[0].Field != tt.field {
				t.Errorf("fields = %+v", f)
			}
		})
	}
}

func TestNew_Featured(t *testing.T) {
	p, _ := New(property.Input{Featured: strPtr("yes")}, placeholder)
	if p.Featured() == nil || *p.Featured() {
		t.Errorf("featured = %v, want explicit false", p.Featured())
	}
}
