package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost(t *testing.T) {
	t.Parallel()

	var (
		gotMethod      string
		gotContentType string
		gotBody        []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer server.Close()

	err := Post(context.Background(), server.Client(), server.URL, "text/plain", []byte("hello"))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "text/plain", gotContentType)
	assert.Equal(t, []byte("hello"), gotBody)
}

func TestPost_IgnoresStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	// Delivery is best effort; a non-2xx response is not an error.
	err := Post(context.Background(), server.Client(), server.URL, "text/plain", []byte("x"))
	assert.NoError(t, err)
}

func TestPost_TransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	err := Post(context.Background(), DefaultHTTPClient(), server.URL, "text/plain", nil)
	assert.Error(t, err)
}

func TestErrorChain(t *testing.T) {
	t.Parallel()

	root := errors.New("root cause")
	wrapped := fmt.Errorf("outer: %w", root)

	chain := ErrorChain(wrapped)
	assert.Contains(t, chain, "outer: root cause")
	assert.Contains(t, chain, "caused by: ")
	assert.Contains(t, chain, "root cause")
}

func TestErrorChain_Single(t *testing.T) {
	t.Parallel()

	chain := ErrorChain(errors.New("alone"))
	assert.Equal(t, "*errors.errorString: alone", chain)
}
