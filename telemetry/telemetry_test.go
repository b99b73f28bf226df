package telemetry

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapRecordsSpans(t *testing.T) {
	var out bytes.Buffer
	shutdown, err := Setup("instant-meal-test", &out)
	require.NoError(t, err)

	h := Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), "instant-meal-test")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/restaurants", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, out.String(), "GET /api/restaurants")
	assert.Contains(t, out.String(), "instant-meal-test")
}
