package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostIsNoOpWithoutBaseURL(t *testing.T) {
	c := NewClient("")
	err := c.Post(context.Background(), CrossingEvent{TrackID: 1, Direction: "in"})
	assert.NoError(t, err)
}

func TestPostSendsJSONBody(t *testing.T) {
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Service-Name")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.Post(context.Background(), CrossingEvent{TrackID: 2, Direction: "out"})
	require.NoError(t, err)
	assert.Equal(t, "counting-pipeline", gotHeader)
}

func TestPostReturnsWebhookErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.Post(context.Background(), CrossingEvent{TrackID: 3, Direction: "in"})
	require.Error(t, err)
	var webhookErr *WebhookError
	require.ErrorAs(t, err, &webhookErr)
	assert.Equal(t, http.StatusInternalServerError, webhookErr.StatusCode)
}
