package chi

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/betahouse/listings/internal/domain"
	"github.com/betahouse/listings/internal/domain/search/request"
)

// ListProperties handles GET /api/properties and GET /api/search.
func (s *Server) ListProperties(w http.ResponseWriter, r *http.Request) {
	page, err := s.search.Search(r.Context(), searchParams(r.URL.Query()))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(&page))
}

// GetProperty handles GET /api/properties/{id}.
func (s *Server) GetProperty(w http.ResponseWriter, r *http.Request) {
	p, err := s.properties.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, propertyResponse{Success: true, Property: propertyToView(p)})
}

// CreateProperty handles POST /api/properties.
func (s *Server) CreateProperty(w http.ResponseWriter, r *http.Request) {
	owner, ok := UserIDFromContext(r.Context())
	if !ok {
		s.handleDomainError(w, r, domain.ErrUnauthorized)
		return
	}

	body, err := decodeProperty(w, r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	defer body.close()

	p, err := s.properties.Create(r.Context(), body.input, owner, body.files)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, propertyResponse{Success: true, Property: propertyToView(p)})
}

// UpdateProperty handles PUT /api/properties/{id}.
func (s *Server) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	body, err := decodeProperty(w, r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	defer body.close()

	p, err := s.properties.Update(r.Context(), chi.URLParam(r, "id"), body.input, body.files)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, propertyResponse{Success: true, Property: propertyToView(p)})
}

// DeleteProperty handles DELETE /api/properties/{id}.
func (s *Server) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	if err := s.properties.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Property deleted"})
}

// searchParams copies the recognized query parameters. Repeated keys use the first value.
func searchParams(q url.Values) request.Params {
	return request.Params{
		Q:        q.Get("q"),
		Location: q.Get("location"),
		City:     q.Get("city"),
		Area:     q.Get("area"),
		Type:     q.Get("type"),
		Status:   q.Get("status"),
		Bedrooms: q.Get("bedrooms"),
		MinPrice: q.Get("minPrice"),
		MaxPrice: q.Get("maxPrice"),
		Featured: q.Get("featured"),
		Sort:     q.Get("sort"),
		Page:     q.Get("page"),
		PageSize: q.Get("pageSize"),
	}
}
