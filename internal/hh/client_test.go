package hh

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsilvagit/hh-export/internal/filter"
	"github.com/rsilvagit/hh-export/internal/httpclient"
	"github.com/rsilvagit/hh-export/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	doer, err := httpclient.New(httpclient.Options{})
	require.NoError(t, err)
	return NewClient(doer, srv.URL+"/")
}

func TestSearchSendsQueryAndHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vacancies", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "backend", q.Get("text"))
		assert.Equal(t, "1", q.Get("area"))
		assert.Equal(t, "100000", q.Get("salary"))
		assert.Equal(t, "full", q.Get("employment"))
		assert.Equal(t, "100", q.Get("per_page"))
		assert.Equal(t, "0", q.Get("page"))
		assert.False(t, q.Has("schedule"))
		assert.Equal(t, httpclient.DefaultUserAgent, r.Header.Get("User-Agent"))

		json.NewEncoder(w).Encode(map[string]any{
			"found": 1,
			"items": []map[string]any{{"id": "1", "name": "Backend", "salary": map[string]any{"from": 100000}}},
		})
	})

	salary := 100000
	q, err := filter.Build(filter.SearchFilter{
		Query:       "backend",
		Location:    &model.Location{Name: "Москва", ID: 1},
		SalaryFloor: &salary,
		Employment:  filter.Full,
	})
	require.NoError(t, err)

	items, err := c.Search(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Backend", items[0]["name"])
	assert.Equal(t, json.Number("100000"), items[0]["salary"].(map[string]any)["from"])
}

func TestSearchWithoutItems(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"found": 0}`))
	})

	items, err := c.Search(context.Background(), filter.Query{{Key: "text", Value: "x"}})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSearchStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"type":"bad_argument","value":"salary"}]}`))
	})

	_, err := c.Search(context.Background(), filter.Query{{Key: "text", Value: "x"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "bad_argument salary", statusErr.Description)
}

func TestSearchNetworkError(t *testing.T) {
	doer, err := httpclient.New(httpclient.Options{})
	require.NoError(t, err)
	c := NewClient(doer, "http://127.0.0.1:1")

	_, err = c.Search(context.Background(), filter.Query{{Key: "text", Value: "x"}})
	assert.ErrorIs(t, err, ErrTransport)
}

func TestSearchMalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	})

	_, err := c.Search(context.Background(), filter.Query{{Key: "text", Value: "x"}})
	assert.Error(t, err)
}

func TestAreas(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/areas", r.URL.Path)
		w.Write([]byte(`[{"id":"113","name":"Россия","areas":[{"id":"1","name":"Москва","areas":[]}]}]`))
	})

	nodes, err := c.Areas(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "Россия", nodes[0].Name)
	require.Len(t, nodes[0].Areas, 1)
	assert.Equal(t, "Москва", nodes[0].Areas[0].Name)
}

func TestNewClientDefaultBaseURL(t *testing.T) {
	c := NewClient(http.DefaultClient, "")
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, "hh.ru", c.Name())
}
