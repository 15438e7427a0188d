package planner_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/backend/internal/planner"
)

func TestClient_Generate(t *testing.T) {
	var gotBody []byte
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/itineraries", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"itinerary":{"days":[{"city":"Porto"}]}}`))
	}))
	defer srv.Close()

	c := planner.NewClient(srv.URL, "planner-secret")
	got, err := c.Generate(context.Background(), json.RawMessage(`{"days":3}`))

	require.NoError(t, err)
	assert.JSONEq(t, `{"days":[{"city":"Porto"}]}`, string(got))
	assert.JSONEq(t, `{"criteria":{"days":3}}`, string(gotBody))
	assert.Equal(t, "Bearer planner-secret", gotAuth)
}

func TestClient_Generate_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := planner.NewClient(srv.URL, "")
	_, err := c.Generate(context.Background(), json.RawMessage(`{}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestStatic_Generate(t *testing.T) {
	got, err := planner.Static{}.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"days":[]}`, string(got))

	got, err = planner.Static{Itinerary: json.RawMessage(`{"days":[1]}`)}.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"days":[1]}`, string(got))
}
