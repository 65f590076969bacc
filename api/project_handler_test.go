package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-admin-backend/config"
	"github.com/rpupo63/portfolio-admin-backend/models"
	"github.com/rpupo63/portfolio-admin-backend/services"
	"github.com/rpupo63/portfolio-admin-backend/services/testutil"
	"github.com/rpupo63/portfolio-admin-backend/storage"
)

type apiFixture struct {
	router  *chi.Mux
	db      *testutil.DB
	blobs   *storage.Memory
	service *services.ProjectService
	html    models.Technology
	css     models.Technology
	web     models.Type
}

func newAPIFixture(t *testing.T, secret string) *apiFixture {
	t.Helper()
	db := testutil.NewDB()
	blobs := storage.NewMemory()
	service := testutil.NewProjectService(db, blobs)

	f := &apiFixture{db: db, blobs: blobs, service: service}
	f.html = db.AddTechnology("HTML", "#ff0000")
	f.css = db.AddTechnology("CSS", "#0000ff")
	f.web = db.AddType("Web")
	f.router = newRouter(service, withConfig(&config.Config{MaxUploadMB: 1, AdminJWTSecret: secret}))
	return f
}

func (f *apiFixture) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (f *apiFixture) seedProject(t *testing.T, title string) *models.Project {
	t.Helper()
	p, err := f.service.Create(context.Background(), services.ProjectInput{
		Title:        title,
		Content:      "body",
		Technologies: []uint{f.html.ID},
	})
	require.NoError(t, err)
	return p
}

func TestStoreRedirectsWithFlash(t *testing.T) {
	f := newAPIFixture(t, "")

	rec := f.do(t, formRequest(http.MethodPost, "/admin/projects", url.Values{
		"title":        {"Portfolio"},
		"content":      {"A site"},
		"type_id":      {fmt.Sprint(f.web.ID)},
		"technologies": {fmt.Sprint(f.css.ID), fmt.Sprint(f.html.ID)},
	}))

	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/admin/projects", rec.Header().Get("Location"))

	resp := decode[RedirectResponse](t, rec)
	assert.Equal(t, "success", resp.Type)
	assert.Equal(t, "Nuovo progetto creato", resp.Msg)

	stored, ok := f.db.Project(resp.ProjectID)
	require.True(t, ok)
	assert.Equal(t, "portfolio", stored.Slug)
	assert.Equal(t, []uint{f.html.ID, f.css.ID}, f.db.LinkSet(resp.ProjectID))
}

func TestStoreAcceptsBracketedTechnologies(t *testing.T) {
	f := newAPIFixture(t, "")

	rec := f.do(t, formRequest(http.MethodPost, "/admin/projects", url.Values{
		"title":          {"Brackets"},
		"content":        {"c"},
		"technologies[]": {fmt.Sprint(f.css.ID)},
	}))

	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	resp := decode[RedirectResponse](t, rec)
	assert.Equal(t, []uint{f.css.ID}, f.db.LinkSet(resp.ProjectID))
}

func TestStoreMultipartImage(t *testing.T) {
	f := newAPIFixture(t, "")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "With image"))
	require.NoError(t, mw.WriteField("content", "c"))
	part, err := mw.CreateFormFile("image", "logo.png")
	require.NoError(t, err)
	_, err = part.Write(testutil.PNG)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/projects", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := f.do(t, req)

	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	paths := f.blobs.Paths()
	require.Len(t, paths, 1)
	assert.True(t, strings.HasPrefix(paths[0], "projects/"))
	assert.True(t, strings.HasSuffix(paths[0], ".png"))

	resp := decode[RedirectResponse](t, rec)
	stored, ok := f.db.Project(resp.ProjectID)
	require.True(t, ok)
	require.NotNil(t, stored.Image)
	assert.Equal(t, paths[0], *stored.Image)
}

func TestStoreValidationFailure(t *testing.T) {
	f := newAPIFixture(t, "")

	rec := f.do(t, formRequest(http.MethodPost, "/admin/projects", url.Values{
		"title":   {""},
		"content": {"kept"},
		"type_id": {"abc"},
	}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[ValidationResponse](t, rec)
	assert.Equal(t, "/admin/projects/create", resp.Redirect)
	assert.Equal(t, []string{"il titolo è obbligatorio"}, resp.Errors["title"])
	assert.Equal(t, []string{"Tipo non valido"}, resp.Errors["type_id"])
	assert.Equal(t, "kept", resp.Old["content"])
	assert.Equal(t, 0, f.db.ProjectCount())
}

func TestStoreDuplicateTitle(t *testing.T) {
	f := newAPIFixture(t, "")
	f.seedProject(t, "Taken")

	rec := f.do(t, formRequest(http.MethodPost, "/admin/projects", url.Values{
		"title":   {"Taken"},
		"content": {"c"},
	}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[ValidationResponse](t, rec)
	assert.Equal(t, []string{"esiste già un progetto Taken"}, resp.Errors["title"])
}

func TestIndexAndShowRenderViews(t *testing.T) {
	f := newAPIFixture(t, "")
	p := f.seedProject(t, "Shown")

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/admin/projects", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin.projects.index", decode[ViewResponse](t, rec).View)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/admin/projects/%d", p.ID), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[ViewResponse](t, rec)
	assert.Equal(t, "admin.projects.show", view.View)
	assert.Contains(t, rec.Body.String(), `"title":"Shown"`)
}

func TestCreateAndEditForms(t *testing.T) {
	f := newAPIFixture(t, "")
	p := f.seedProject(t, "Editable")

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/admin/projects/create", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin.projects.create", decode[ViewResponse](t, rec).View)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/admin/projects/%d/edit", p.ID), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		View string `json:"view"`
		Data struct {
			ProjectTechnologies []uint `json:"project_technologies"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "admin.projects.edit", view.View)
	assert.Equal(t, []uint{f.html.ID}, view.Data.ProjectTechnologies)
}

func TestUnknownProjectIsNotFound(t *testing.T) {
	f := newAPIFixture(t, "")

	for _, target := range []string{"/admin/projects/999", "/admin/projects/abc", "/admin/projects/999/edit"} {
		rec := f.do(t, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
	}

	rec := f.do(t, httptest.NewRequest(http.MethodDelete, "/admin/projects/999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateRedirectsToProject(t *testing.T) {
	f := newAPIFixture(t, "")
	p := f.seedProject(t, "Before")

	rec := f.do(t, formRequest(http.MethodPut, fmt.Sprintf("/admin/projects/%d", p.ID), url.Values{
		"title":   {"After Update"},
		"content": {"new"},
	}))

	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, fmt.Sprintf("/admin/projects/%d", p.ID), rec.Header().Get("Location"))
	assert.Equal(t, "Progetto modificato", decode[RedirectResponse](t, rec).Msg)

	stored, _ := f.db.Project(p.ID)
	assert.Equal(t, "after-update", stored.Slug)
	// technologies field absent: links removed
	assert.Empty(t, f.db.LinkSet(p.ID))
}

func TestUpdateValidationRedirectsToEdit(t *testing.T) {
	f := newAPIFixture(t, "")
	p := f.seedProject(t, "Stable")

	rec := f.do(t, formRequest(http.MethodPatch, fmt.Sprintf("/admin/projects/%d", p.ID), url.Values{
		"title":        {"Stable"},
		"content":      {""},
		"technologies": {"x"},
	}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[ValidationResponse](t, rec)
	assert.Equal(t, fmt.Sprintf("/admin/projects/%d/edit", p.ID), resp.Redirect)
	assert.Equal(t, []string{"il progetto deve avere un contenuto"}, resp.Errors["content"])
	assert.Equal(t, []string{"tecnologia non valida"}, resp.Errors["technologies"])
	assert.NotContains(t, resp.Errors, "title")
	assert.Equal(t, []uint{f.html.ID}, f.db.LinkSet(p.ID))
}

func TestDestroyRedirectsWithTitle(t *testing.T) {
	f := newAPIFixture(t, "")
	p := f.seedProject(t, "Gone")

	rec := f.do(t, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/admin/projects/%d", p.ID), nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/projects", rec.Header().Get("Location"))
	assert.Equal(t, "Il progetto 'Gone' è stato eliminato", decode[RedirectResponse](t, rec).Msg)
	assert.Equal(t, 0, f.db.ProjectCount())
	assert.Equal(t, 0, f.db.LinkRows())
}

func TestBodyTooLarge(t *testing.T) {
	f := newAPIFixture(t, "")

	rec := f.do(t, formRequest(http.MethodPost, "/admin/projects", url.Values{
		"title":   {"Big"},
		"content": {strings.Repeat("a", 2<<20)},
	}))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, 0, f.db.ProjectCount())
}

func signToken(t *testing.T, secret string, method jwt.SigningMethod) string {
	t.Helper()
	token := jwt.NewWithClaims(method, jwt.RegisteredClaims{
		Subject:   "admin@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAdminGate(t *testing.T) {
	const secret = "s3cret"
	f := newAPIFixture(t, secret)

	get := func(authorization string) int {
		req := httptest.NewRequest(http.MethodGet, "/admin/projects", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		return f.do(t, req).Code
	}

	assert.Equal(t, http.StatusUnauthorized, get(""))
	assert.Equal(t, http.StatusUnauthorized, get("Bearer "))
	assert.Equal(t, http.StatusUnauthorized, get("Bearer not-a-jwt"))
	assert.Equal(t, http.StatusUnauthorized, get("Bearer "+signToken(t, "other", jwt.SigningMethodHS256)))
	assert.Equal(t, http.StatusUnauthorized, get("Bearer "+signToken(t, secret, jwt.SigningMethodHS512)))
	assert.Equal(t, http.StatusOK, get("Bearer "+signToken(t, secret, jwt.SigningMethodHS256)))

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthzReportsFailure(t *testing.T) {
	db := testutil.NewDB()
	service := testutil.NewProjectService(db, storage.NewMemory())
	router := newRouter(service, withHealthCheck(func(context.Context) error {
		return fmt.Errorf("connection refused")
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORSOnlyForConfiguredOrigins(t *testing.T) {
	service := testutil.NewProjectService(testutil.NewDB(), storage.NewMemory())
	router := newRouter(service, withConfig(&config.Config{
		MaxUploadMB:    1,
		AllowedOrigins: []string{"https://admin.example.com"},
	}))

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/admin/projects", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, "https://admin.example.com", preflight("https://admin.example.com").Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, preflight("https://evil.example.com").Header().Get("Access-Control-Allow-Origin"))
}

func TestUpdateTypeOnlyChangesWhenSubmitted(t *testing.T) {
	f := newAPIFixture(t, "")
	p, err := f.service.Create(context.Background(), services.ProjectInput{
		Title: "Typed", Content: "c", TypeID: &f.web.ID,
	})
	require.NoError(t, err)
	target := fmt.Sprintf("/admin/projects/%d", p.ID)

	rec := f.do(t, formRequest(http.MethodPut, target, url.Values{
		"title":   {"Typed"},
		"content": {"still typed"},
	}))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	stored, _ := f.db.Project(p.ID)
	require.NotNil(t, stored.TypeID)
	assert.Equal(t, f.web.ID, *stored.TypeID)

	rec = f.do(t, formRequest(http.MethodPut, target, url.Values{
		"title":   {"Typed"},
		"content": {"untyped"},
		"type_id": {""},
	}))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	stored, _ = f.db.Project(p.ID)
	assert.Nil(t, stored.TypeID)
}

func TestUpdateWithBlankTechnologiesDetachesAll(t *testing.T) {
	f := newAPIFixture(t, "")
	p := f.seedProject(t, "Linked")

	rec := f.do(t, formRequest(http.MethodPut, fmt.Sprintf("/admin/projects/%d", p.ID), url.Values{
		"title":        {"Linked"},
		"content":      {"c"},
		"technologies": {""},
	}))

	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Empty(t, f.db.LinkSet(p.ID))
	assert.Contains(t, f.db.LinkWrites, "set")
}
