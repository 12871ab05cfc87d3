package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/betahouse/listings/internal/domain"
	domprop "github.com/betahouse/listings/internal/domain/property"
)

const (
	maxJSONBody      = 1 << 20
	maxMultipartBody = domain.MaxUploadFiles*domain.MaxUploadBytes + 1<<20
	multipartMemory  = 8 << 20
	imagesField      = "images"
)

var errMalformedBody = errors.New("malformed request body")

// decodedProperty is a parsed create/update request. Call close when done.
type decodedProperty struct {
	input domprop.Input
	files []domain.Upload
	close func()
}

// decodeProperty reads a listing payload from a JSON or multipart/form-data body.
func decodeProperty(w http.ResponseWriter, r *http.Request) (decodedProperty, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return decodeMultipart(w, r)
	}

	var p propertyPayload
	if err := decodeJSON(w, r, &p); err != nil {
		return decodedProperty{}, err
	}
	return decodedProperty{input: p.input(), close: func() {}}, nil
}

func decodeMultipart(w http.ResponseWriter, r *http.Request) (decodedProperty, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return decodedProperty{}, fmt.Errorf("%w: %w", errMalformedBody, err)
	}
	form := r.MultipartForm

	in := domprop.Input{
		Title:       formValue(form, "title"),
		Description: formValue(form, "description"),
		Price:       formValue(form, "price"),
		Currency:    formValue(form, "currency"),
		Status:      formValue(form, "status"),
		Type:        formValue(form, "type"),
		Bedrooms:    formValue(form, "bedrooms"),
		Bathrooms:   formValue(form, "bathrooms"),
		Sqft:        formValue(form, "sqft"),
		Featured:    formValue(form, "featured"),
		Features:    formList(form, "features"),
		Images:      formList(form, imagesField),
	}
	loc, err := formLocation(form)
	if err != nil {
		_ = form.RemoveAll()
		return decodedProperty{}, err
	}
	in.Location = loc

	files, closers, err := openUploads(form.File[imagesField])
	if err != nil {
		_ = form.RemoveAll()
		return decodedProperty{}, err
	}

	return decodedProperty{
		input: in,
		files: files,
		close: func() {
			for _, c := range closers {
				_ = c.Close()
			}
			_ = form.RemoveAll()
		},
	}, nil
}

func formValue(form *multipart.Form, key string) *string {
	vs, ok := form.Value[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	v := vs[0]
	return &v
}

// formList accepts repeated keys, the key[] convention, or one JSON array value.
func formList(form *multipart.Form, key string) []string {
	vs := append(append([]string(nil), form.Value[key]...), form.Value[key+"[]"]...)
	if len(vs) == 1 && strings.HasPrefix(strings.TrimSpace(vs[0]), "[") {
		var arr []string
		if err := json.Unmarshal([]byte(vs[0]), &arr); err == nil {
			return arr
		}
	}
	return vs
}

// formLocation reads location as a JSON object, or as location[field] / location.field keys.
func formLocation(form *multipart.Form) (*domprop.Location, error) {
	if raw := formValue(form, "location"); raw != nil {
		var loc domprop.Location
		if err := json.Unmarshal([]byte(*raw), &loc); err != nil {
			return nil, domain.NewValidationError([]domain.FieldError{{
				Field: "location", Message: "must be an object",
			}})
		}
		return &loc, nil
	}

	var (
		loc   domprop.Location
		found bool
	)
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"state", &loc.State},
		{"city", &loc.City},
		{"area", &loc.Area},
		{"address", &loc.Address},
	} {
		for _, k := range []string{"location[" + f.name + "]", "location." + f.name} {
			if v := formValue(form, k); v != nil {
				*f.dst = *v
				found = true
				break
			}
		}
	}
	if !found {
		return nil, nil
	}
	return &loc, nil
}

func openUploads(headers []*multipart.FileHeader) ([]domain.Upload, []multipart.File, error) {
	files := make([]domain.Upload, 0, len(headers))
	closers := make([]multipart.File, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			for _, c := range closers {
				_ = c.Close()
			}
			return nil, nil, fmt.Errorf("open upload %s: %w", h.Filename, err)
		}
		closers = append(closers, f)
		files = append(files, domain.Upload{Filename: h.Filename, Size: h.Size, Body: f})
	}
	return files, closers, nil
}
