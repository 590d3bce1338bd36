package handler_test

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postSignals(t *testing.T, client *http.Client, url, signals string) string {
	t.Helper()
	return sendSignals(t, client, http.MethodPost, url, signals)
}

// sendSignals sends a datastar action and returns the event stream.
func sendSignals(t *testing.T, client *http.Client, method, url, signals string) string {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(signals))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestExplore_PagesRender(t *testing.T) {
	srv := newTestServer(t)
	seller := newClient(t)
	register(t, srv, seller, "seller@student.csulb.edu")

	resp, body := doJSON(t, seller, http.MethodPost, srv.URL+"/api/listings", map[string]any{
		"title": "Calculus textbook", "category": "Textbooks", "type": "buy", "price": 25, "images": []string{"x"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "%v", body)

	home, err := seller.Get(srv.URL + "/")
	require.NoError(t, err)
	defer home.Body.Close()
	page, _ := io.ReadAll(home.Body)
	assert.Equal(t, http.StatusOK, home.StatusCode)
	assert.Contains(t, string(page), "seller@student.csulb.edu")

	explore, err := seller.Get(srv.URL + "/explore?category=Textbooks")
	require.NoError(t, err)
	defer explore.Body.Close()
	page, _ = io.ReadAll(explore.Body)
	assert.Contains(t, string(page), "Calculus textbook")
	assert.Contains(t, string(page), "25.00")

	empty, err := seller.Get(srv.URL + "/explore?category=Tickets")
	require.NoError(t, err)
	defer empty.Body.Close()
	page, _ = io.ReadAll(empty.Body)
	assert.Contains(t, string(page), "No listings match.")

	missing, err := seller.Get(srv.URL + "/no-such-page")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestExplore_BidAndBuyPatchCards(t *testing.T) {
	srv := newTestServer(t)
	seller := newClient(t)
	buyer := newClient(t)
	register(t, srv, seller, "seller@student.csulb.edu")
	register(t, srv, buyer, "buyer@student.csulb.edu")

	_, body := doJSON(t, seller, http.MethodPost, srv.URL+"/api/listings", map[string]any{
		"title": "Road bike", "category": "Bikes & Scooters", "type": "auction", "startBid": 10, "images": []string{"x"},
	})
	bikeID := listingField(t, body, "id").(string)
	_, body = doJSON(t, seller, http.MethodPost, srv.URL+"/api/listings", map[string]any{
		"title": "Desk", "category": "Dorm & Furniture", "type": "buy", "price": 40, "images": []string{"x"},
	})
	deskID := listingField(t, body, "id").(string)

	events := postSignals(t, buyer, srv.URL+"/explore/listings/"+bikeID+"/bid", `{"bid":"9"}`)
	assert.Contains(t, events, "datastar-patch-elements")
	assert.Contains(t, events, "listing-"+bikeID)
	assert.Contains(t, events, "bid must be more than 10.00")

	events = postSignals(t, buyer, srv.URL+"/explore/listings/"+bikeID+"/bid", `{"bid":11}`)
	assert.Contains(t, events, "Bid placed.")
	assert.Contains(t, events, "11.00")
	assert.Contains(t, events, "datastar-patch-signals")

	events = postSignals(t, newClient(t), srv.URL+"/explore/listings/"+deskID+"/buy", `{}`)
	assert.Contains(t, events, "Please sign in first.")

	events = postSignals(t, buyer, srv.URL+"/explore/listings/"+deskID+"/buy", `{}`)
	assert.Contains(t, events, "Purchased.")
	assert.Contains(t, events, "sold")

	events = postSignals(t, buyer, srv.URL+"/explore/listings/"+deskID+"/buy", `{}`)
	assert.Contains(t, events, "no longer available")

	events = postSignals(t, buyer, srv.URL+"/explore/listings/gone/buy", `{}`)
	assert.Contains(t, events, "datastar-patch-elements")
	assert.Contains(t, events, "listing-gone")
}
