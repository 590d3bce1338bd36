package handler_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/msomdec/campus-market/internal/domain"
	"github.com/msomdec/campus-market/internal/handler"
	"github.com/msomdec/campus-market/internal/repository/memory"
	"github.com/msomdec/campus-market/internal/service"
	"github.com/msomdec/campus-market/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyListings fails every load while fail is set.
type flakyListings struct {
	domain.ListingRepository
	fail atomic.Bool
}

func (r *flakyListings) Load(ctx context.Context) ([]domain.Listing, error) {
	if r.fail.Load() {
		return nil, errors.New("database is locked")
	}
	return r.ListingRepository.Load(ctx)
}

func noRedirects(t *testing.T) *http.Client {
	t.Helper()
	c := newClient(t)
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	return c
}

func getPage(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

const deskSignals = `{"title":"Desk","category":"Dorm & Furniture","type":"buy","price":"40","startBid":0,"durationHours":24,` +
	`"images":["/images/x"],"upload":"","rent":0,"unit":"studio","bathroom":"private","roommate":"none","bid":"","flash":""}`

func TestDatastar_SignInForm(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	events := postSignals(t, client, srv.URL+"/api/auth/login", `{"email":"a@student.csulb.edu","password":"hunter22","user":""}`)
	assert.Contains(t, events, "datastar-patch-signals")
	assert.Contains(t, events, "No account with that email. Register first.")

	events = postSignals(t, client, srv.URL+"/api/auth/register", `{"email":"a@student.csulb.edu","password":"hunter22","user":""}`)
	assert.Contains(t, events, `"user":"a@student.csulb.edu"`)
	assert.Contains(t, events, `"password":""`)

	resp, _ := doJSON(t, client, http.MethodGet, srv.URL+"/api/auth/me", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	events = postSignals(t, client, srv.URL+"/api/auth/logout", `{}`)
	assert.Contains(t, events, `window.location.href = "/"`)
	resp, _ = doJSON(t, client, http.MethodGet, srv.URL+"/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	events = postSignals(t, client, srv.URL+"/api/auth/login", `{"email":"a@student.csulb.edu","password":"wrong-pass"}`)
	assert.Contains(t, events, "Incorrect password.")
	assert.NotContains(t, events, `"user":"a@student.csulb.edu"`)

	events = postSignals(t, client, srv.URL+"/api/auth/login", `{"email":"a@student.csulb.edu","password":"hunter22"}`)
	assert.Contains(t, events, `"user":"a@student.csulb.edu"`)
}

func TestDatastar_EditorPages(t *testing.T) {
	srv := newTestServer(t)
	seller := noRedirects(t)
	other := noRedirects(t)

	resp, _ := getPage(t, seller, srv.URL+"/listings/new")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/#signin", resp.Header.Get("Location"))

	register(t, srv, seller, "seller@student.csulb.edu")
	register(t, srv, other, "other@student.csulb.edu")

	resp, page := getPage(t, seller, srv.URL+"/listings/new")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "New listing")
	assert.Contains(t, page, "/api/images")

	_, body := doJSON(t, seller, http.MethodPost, srv.URL+"/api/listings", map[string]any{
		"title": "Mini fridge", "category": "Dorm & Furniture", "type": "buy", "price": 60, "images": []string{"/images/x"},
	})
	id := listingField(t, body, "id").(string)

	resp, page = getPage(t, seller, srv.URL+"/listings/"+id+"/edit")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "Edit listing")
	assert.Contains(t, page, "Mini fridge")
	assert.Contains(t, page, "@put(&#34;/api/listings/"+id+"&#34;)")

	resp, _ = getPage(t, other, srv.URL+"/listings/"+id+"/edit")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = getPage(t, seller, srv.URL+"/listings/missing/edit")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, page = getPage(t, seller, srv.URL+"/explore")
	assert.Contains(t, page, "/listings/"+id+"/edit")
	assert.Contains(t, page, "@delete(&#34;/api/listings/"+id+"&#34;)")
	_, page = getPage(t, other, srv.URL+"/explore")
	assert.NotContains(t, page, "/listings/"+id+"/edit")
}

func TestDatastar_EditorSavesListings(t *testing.T) {
	srv := newTestServer(t)
	seller := newClient(t)
	other := newClient(t)
	register(t, srv, seller, "seller@student.csulb.edu")
	register(t, srv, other, "other@student.csulb.edu")

	events := postSignals(t, seller, srv.URL+"/api/listings", deskSignals)
	assert.Contains(t, events, `window.location.href = "/explore"`)

	resp, body := doJSON(t, seller, http.MethodGet, srv.URL+"/api/listings?q=Desk", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listings := body["listings"].([]any)
	require.Len(t, listings, 1)
	desk := listings[0].(map[string]any)
	id := desk["id"].(string)
	assert.Equal(t, "40.00", desk["amount"])

	events = postSignals(t, seller, srv.URL+"/api/listings", `{"title":"Lamp","category":"Other","type":"buy","price":"","images":["x"]}`)
	assert.Contains(t, events, "enter a price")
	assert.NotContains(t, events, "window.location")

	events = postSignals(t, seller, srv.URL+"/api/listings",
		`{"title":"Room near campus","category":"Housing","type":"buy","price":"900","images":["x"],`+
			`"rent":"900","unit":"private-room","bathroom":"shared","roommate":"offering"}`)
	assert.Contains(t, events, `window.location.href = "/explore"`)
	_, body = doJSON(t, seller, http.MethodGet, srv.URL+"/api/listings?unit=private-room&maxRent=1000", nil)
	assert.Len(t, body["listings"], 1)

	events = sendSignals(t, other, http.MethodPut, srv.URL+"/api/listings/"+id, deskSignals)
	assert.Contains(t, events, "You can only change your own listings.")

	events = sendSignals(t, seller, http.MethodPut, srv.URL+"/api/listings/"+id,
		`{"title":"Standing desk","category":"Dorm & Furniture","type":"auction","startBid":"15","durationHours":"48","images":["/images/x"]}`)
	assert.Contains(t, events, `window.location.href = "/explore"`)
	_, body = doJSON(t, seller, http.MethodGet, srv.URL+"/api/listings/"+id, nil)
	assert.Equal(t, "Standing desk", listingField(t, body, "title"))
	assert.Equal(t, "auction", listingField(t, body, "type"))
}

func TestDatastar_DeleteRemovesCard(t *testing.T) {
	srv := newTestServer(t)
	seller := newClient(t)
	other := newClient(t)
	register(t, srv, seller, "seller@student.csulb.edu")
	register(t, srv, other, "other@student.csulb.edu")

	_, body := doJSON(t, seller, http.MethodPost, srv.URL+"/api/listings", map[string]any{
		"title": "Desk", "category": "Dorm & Furniture", "type": "buy", "price": 40, "images": []string{"x"},
	})
	id := listingField(t, body, "id").(string)

	events := sendSignals(t, other, http.MethodDelete, srv.URL+"/api/listings/"+id, `{}`)
	assert.Contains(t, events, "You can only change your own listings.")
	assert.Contains(t, events, `id="listing-`+id+`"`)
	assert.NotContains(t, events, "mode remove")

	events = sendSignals(t, seller, http.MethodDelete, srv.URL+"/api/listings/"+id, `{}`)
	assert.Contains(t, events, "mode remove")
	assert.Contains(t, events, "selector #listing-"+id)

	resp, _ := doJSON(t, seller, http.MethodGet, srv.URL+"/api/listings/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDatastar_UploadAppendsThumbnail(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

	upload := func() string {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = fw.Write(png)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/images", &buf)
		require.NoError(t, err)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Datastar-Request", "true")
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		events, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return string(events)
	}

	events := upload()
	assert.Contains(t, events, "Please sign in first.")
	assert.NotContains(t, events, "mode append")

	register(t, srv, client, "a@student.csulb.edu")
	events = upload()
	assert.Contains(t, events, "mode append")
	assert.Contains(t, events, "selector #photo-list")
	assert.Contains(t, events, `class="thumb"`)
	assert.Contains(t, events, `"upload":"/images/`)
}

func TestDatastar_StorageErrorKeepsCard(t *testing.T) {
	repo := &flakyListings{ListingRepository: store.NewListings(memory.New())}
	srv := newTestServer(t, func(s *handler.Services) {
		s.Catalog = service.NewCatalogService(repo)
	})
	seller := newClient(t)
	register(t, srv, seller, "seller@student.csulb.edu")

	resp, body := doJSON(t, seller, http.MethodPost, srv.URL+"/api/listings", map[string]any{
		"title": "Desk", "category": "Dorm & Furniture", "type": "buy", "price": 40, "images": []string{"x"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "%v", body)
	id := listingField(t, body, "id").(string)

	repo.fail.Store(true)
	events := sendSignals(t, seller, http.MethodDelete, srv.URL+"/api/listings/"+id, `{}`)
	assert.NotContains(t, events, "mode remove")
	assert.Contains(t, events, "An unexpected error occurred. Please try again.")

	events = postSignals(t, seller, srv.URL+"/explore/listings/"+id+"/buy", `{}`)
	assert.NotContains(t, events, "mode remove")
	assert.Contains(t, events, "An unexpected error occurred. Please try again.")

	repo.fail.Store(false)
	resp, _ = doJSON(t, seller, http.MethodGet, srv.URL+"/api/listings/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
