package domain

import (
	"errors"
	"testing"
)

func TestValidateUploads(t *testing.T) {
	ok := []Upload{{Filename: "a.JPG", Size: 10}, {Filename: "b.webp", Size: MaxUploadBytes}}
	if err := ValidateUploads(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateUploads(nil); err != nil {
		t.Fatalf("unexpected error for no files: %v", err)
	}

	tests := []struct {
		name  string
		files []Upload
	}{
		{"too many", make([]Upload, MaxUploadFiles+1)},
		{"too large", []Upload{{Filename: "a.png", Size: MaxUploadBytes + 1}}},
		{"bad format", []Upload{{Filename: "a.gif", Size: 1}}},
		{"no extension", []Upload{{Filename: "image", Size: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUploads(tt.files)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if f := Fields(err); len(f) == 0 || f[0].Field != "images" {
				t.Errorf("fields = %+v", f)
			}
		})
	}
}

func TestUpload_ContentType(t *testing.T) {
	if ct := (Upload{Filename: "x.JPEG"}).ContentType(); ct != "image/jpeg" {
		t.Errorf("ContentType = %q", ct)
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError([]FieldError{{Field: "title", Message: "too short"}})
	if !errors.Is(err, ErrValidation) {
		t.Fatal("ValidationError does not unwrap to ErrValidation")
	}
	if err.Error() != "validation failed: title: too short" {
		t.Errorf("Error() = %q", err.Error())
	}
	if NewValidationError(nil) != nil {
		t.Error("empty field list must yield nil")
	}
	if Fields(ErrUnauthorized) != nil {
		t.Error("Fields of a non-validation error must be nil")
	}
}
