package chi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/betahouse/listings/internal/domain"
	domprop "github.com/betahouse/listings/internal/domain/property"
	"github.com/betahouse/listings/internal/domain/search/request"
	"github.com/betahouse/listings/internal/domain/search/result"
	domuser "github.com/betahouse/listings/internal/domain/user"
	healthuc "github.com/betahouse/listings/internal/usecase/health"
)

// --- fakes ---

type fakeProperties struct {
	createFn func(ctx context.Context, in domprop.Input, owner string, files []domain.Upload) (domprop.Property, error)
	getFn    func(ctx context.Context, id string) (domprop.Property, error)
	updateFn func(ctx context.Context, id string, in domprop.Input, files []domain.Upload) (domprop.Property, error)
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeProperties) Create(
	ctx context.Context, in domprop.Input, owner string, files []domain.Upload,
) (domprop.Property, error) {
	if f.createFn != nil {
		return f.createFn(ctx, in, owner, files)
	}
	return sampleProperty(), nil
}

func (f *fakeProperties) Get(ctx context.Context, id string) (domprop.Property, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return sampleProperty(), nil
}

func (f *fakeProperties) Update(
	ctx context.Context, id string, in domprop.Input, files []domain.Upload,
) (domprop.Property, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, in, files)
	}
	return sampleProperty(), nil
}

func (f *fakeProperties) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeSearch struct {
	searchFn func(ctx context.Context, params request.Params) (result.Page, error)
}

func (f *fakeSearch) Search(ctx context.Context, params request.Params) (result.Page, error) {
	if f.searchFn != nil {
		return f.searchFn(ctx, params)
	}
	return result.New(nil, result.Meta{Page: 1, PageSize: 9}), nil
}

type fakeAuth struct {
	signupFn func(ctx context.Context, name, email, password string) (domuser.User, string, error)
	signinFn func(ctx context.Context, email, password string) (domuser.User, string, error)
}

func (f *fakeAuth) Signup(ctx context.Context, name, email, password string) (domuser.User, string, error) {
	if f.signupFn != nil {
		return f.signupFn(ctx, name, email, password)
	}
	return sampleUser(), "tok", nil
}

func (f *fakeAuth) Signin(ctx context.Context, email, password string) (domuser.User, string, error) {
	if f.signinFn != nil {
		return f.signinFn(ctx, email, password)
	}
	return sampleUser(), "tok", nil
}

// Authenticate accepts "valid-<id>" tokens.
func (f *fakeAuth) Authenticate(token string) (string, error) {
	if id, ok := strings.CutPrefix(token, "valid-"); ok {
		return id, nil
	}
	return "", domain.ErrUnauthorized
}

type fakeUsers struct {
	meFn       func(ctx context.Context, id string) (domuser.User, error)
	updateMeFn func(ctx context.Context, id string, name, avatarURL *string) (domuser.User, error)
}

func (f *fakeUsers) Me(ctx context.Context, id string) (domuser.User, error) {
	if f.meFn != nil {
		return f.meFn(ctx, id)
	}
	return sampleUser(), nil
}

func (f *fakeUsers) UpdateMe(ctx context.Context, id string, name, avatarURL *string) (domuser.User, error) {
	if f.updateMeFn != nil {
		return f.updateMeFn(ctx, id, name, avatarURL)
	}
	return sampleUser(), nil
}

type fakeHealth struct {
	report healthuc.Report
}

func (f *fakeHealth) Check(_ context.Context) healthuc.Report {
	if f.report.Status == "" {
		return healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK}}
	}
	return f.report
}

// --- harness ---

type testAPI struct {
	props  *fakeProperties
	search *fakeSearch
	auth   *fakeAuth
	users  *fakeUsers
	health *fakeHealth
	server *Server
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	a := &testAPI{
		props:  &fakeProperties{},
		search: &fakeSearch{},
		auth:   &fakeAuth{},
		users:  &fakeUsers{},
		health: &fakeHealth{},
	}
	a.server = NewServer(a.props, a.search, a.auth, a.users, a.health, zap.NewNop())
	return a
}

func (a *testAPI) handler(cfg RouterConfig) http.Handler {
	return NewRouter(a.server, cfg)
}

func (a *testAPI) do(t *testing.T, method, target string, body io.Reader, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	return doRequest(t, a.handler(RouterConfig{}), method, target, body, headers...)
}

func doRequest(
	t *testing.T, h http.Handler, method, target string, body io.Reader, headers ...string,
) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = http.NoBody
	}
	req := httptest.NewRequest(method, target, body)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
}

const (
	testUserID     = "65f1a2b3c4d5e6f708192a3b"
	testPropertyID = "65f1a2b3c4d5e6f708192a3c"
)

var testTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleProperty() domprop.Property {
	return domprop.Reconstruct(domprop.Snapshot{
		ID:        testPropertyID,
		Title:     "Sunny Duplex",
		Slug:      "sunny-duplex",
		Price:     2500000,
		Currency:  "NGN",
		Status:    domprop.StatusSale,
		Type:      domprop.TypeDuplex,
		Location:  domprop.Location{State: "Lagos", City: "Lekki"},
		Bedrooms:  4,
		Bathrooms: 3,
		CreatedBy: testUserID,
		CreatedAt: testTime,
		UpdatedAt: testTime,
	})
}

func sampleUser() domuser.User {
	return domuser.Reconstruct(testUserID, "Ada", "ada@example.com", "$2a$hash", domuser.RoleUser, "", testTime, testTime)
}
