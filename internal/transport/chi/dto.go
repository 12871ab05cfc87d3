package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	domprop "github.com/betahouse/listings/internal/domain/property"
	"github.com/betahouse/listings/internal/domain/search/result"
	domuser "github.com/betahouse/listings/internal/domain/user"
)

// flexString accepts a JSON string, number or boolean and keeps its text.
// null and absent both leave it unset.
type flexString struct {
	v *string
}

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		f.v = nil
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err //nolint:wrapcheck // decoder adds context
		}
		f.v = &s
		return nil
	case b[0] == '{' || b[0] == '[':
		return errors.New("expected a string, number or boolean")
	default:
		s := string(b)
		f.v = &s
		return nil
	}
}

func (f flexString) ptr() *string { return f.v }

// propertyPayload is the create/update body in either JSON or multipart form.
type propertyPayload struct {
	Title       flexString        `json:"title"`
	Description flexString        `json:"description"`
	Price       flexString        `json:"price"`
	Currency    flexString        `json:"currency"`
	Status      flexString        `json:"status"`
	Type        flexString        `json:"type"`
	Location    *domprop.Location `json:"location"`
	Bedrooms    flexString        `json:"bedrooms"`
	Bathrooms   flexString        `json:"bathrooms"`
	Sqft        flexString        `json:"sqft"`
	Features    []string          `json:"features"`
	Images      []string          `json:"images"`
	Featured    flexString        `json:"featured"`
}

func (p propertyPayload) input() domprop.Input {
	return domprop.Input{
		Title:       p.Title.ptr(),
		Description: p.Description.ptr(),
		Price:       p.Price.ptr(),
		Currency:    p.Currency.ptr(),
		Status:      p.Status.ptr(),
		Type:        p.Type.ptr(),
		Location:    p.Location,
		Bedrooms:    p.Bedrooms.ptr(),
		Bathrooms:   p.Bathrooms.ptr(),
		Sqft:        p.Sqft.ptr(),
		Features:    p.Features,
		Images:      p.Images,
		Featured:    p.Featured.ptr(),
	}
}

type propertyView struct {
	ID          string           `json:"_id"`
	Title       string           `json:"title"`
	Slug        string           `json:"slug"`
	Description string           `json:"description"`
	Price       float64          `json:"price"`
	Currency    string           `json:"currency"`
	Status      string           `json:"status"`
	Type        string           `json:"type"`
	Location    domprop.Location `json:"location"`
	Bedrooms    int              `json:"bedrooms"`
	Bathrooms   int              `json:"bathrooms"`
	Sqft        *float64         `json:"sqft,omitempty"`
	Features    []string         `json:"features"`
	Images      []string         `json:"images"`
	Featured    bool             `json:"featured"`
	CreatedBy   string           `json:"createdBy,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func propertyToView(p domprop.Property) propertyView {
	s := p.Snapshot()
	return propertyView{
		ID:          s.ID,
		Title:       s.Title,
		Slug:        s.Slug,
		Description: s.Description,
		Price:       s.Price,
		Currency:    s.Currency,
		Status:      string(s.Status),
		Type:        string(s.Type),
		Location:    s.Location,
		Bedrooms:    s.Bedrooms,
		Bathrooms:   s.Bathrooms,
		Sqft:        s.Sqft,
		Features:    nonNil(s.Features),
		Images:      nonNil(s.Images),
		Featured:    s.Featured,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

type metaView struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Pages    int   `json:"pages"`
}

type listResponse struct {
	Success bool           `json:"success"`
	Meta    metaView       `json:"meta"`
	Items   []propertyView `json:"items"`
}

func pageToResponse(p *result.Page) listResponse {
	m := p.Meta()
	items := make([]propertyView, len(p.Items()))
	for i, prop := range p.Items() {
		items[i] = propertyToView(prop)
	}
	return listResponse{
		Success: true,
		Meta:    metaView{Total: m.Total, Page: m.Page, PageSize: m.PageSize, Pages: m.Pages},
		Items:   items,
	}
}

type propertyResponse struct {
	Success  bool         `json:"success"`
	Property propertyView `json:"property"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionUser is the short account shape returned with a token.
type sessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type sessionResponse struct {
	User  sessionUser `json:"user"`
	Token string      `json:"token"`
}

type profileRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
}

type userView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type userResponse struct {
	User userView `json:"user"`
}

func userToView(u domuser.User) userView {
	return userView{
		ID:        u.ID(),
		Name:      u.Name(),
		Email:     u.Email(),
		Role:      string(u.Role()),
		AvatarURL: u.AvatarURL(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
