package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResponseWriter(rr *httptest.ResponseRecorder) *responseWriter {
	return &responseWriter{ResponseWriter: rr}
}

func TestResponseWriter_InitialState(t *testing.T) {
	w := newResponseWriter(httptest.NewRecorder())

	assert.Zero(t, w.status)
	assert.False(t, w.wroteHeader)
	assert.Zero(t, w.size)
}

func TestResponseWriter_WriteHeader_TableTest(t *testing.T) {
	tests := []struct {
		name           string
		statusCodes    []int
		expectedStatus int
	}{
		{name: "200 OK", statusCodes: []int{http.StatusOK}, expectedStatus: http.StatusOK},
		{name: "201 Created", statusCodes: []int{http.StatusCreated}, expectedStatus: http.StatusCreated},
		{name: "409 Conflict", statusCodes: []int{http.StatusConflict}, expectedStatus: http.StatusConflict},
		{name: "second call ignored", statusCodes: []int{http.StatusAccepted, http.StatusBadRequest}, expectedStatus: http.StatusAccepted},
		{name: "first of three wins", statusCodes: []int{http.StatusUnauthorized, http.StatusOK, http.StatusNotFound}, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			w := newResponseWriter(rr)

			for _, code := range tt.statusCodes {
				w.WriteHeader(code)
			}

			assert.Equal(t, tt.expectedStatus, w.status)
			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.True(t, w.wroteHeader)
		})
	}
}

func TestResponseWriter_Write_TableTest(t *testing.T) {
	tests := []struct {
		name         string
		headerFirst  int
		writes       []string
		wantStatus   int
		wantSize     int
		wantRecorded string
	}{
		{name: "implicit 200", writes: []string{"hello"}, wantStatus: http.StatusOK, wantSize: 5, wantRecorded: "hello"},
		{name: "accumulates size", writes: []string{"hello", " world"}, wantStatus: http.StatusOK, wantSize: 11, wantRecorded: "hello world"},
		{name: "explicit header kept", headerFirst: http.StatusCreated, writes: []string{`{"id":3}`}, wantStatus: http.StatusCreated, wantSize: 8, wantRecorded: `{"id":3}`},
		{name: "empty write", writes: []string{""}, wantStatus: http.StatusOK, wantSize: 0, wantRecorded: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			w := newResponseWriter(rr)

			if tt.headerFirst != 0 {
				w.WriteHeader(tt.headerFirst)
			}
			for _, chunk := range tt.writes {
				n, err := w.Write([]byte(chunk))
				require.NoError(t, err)
				assert.Equal(t, len(chunk), n)
			}

			assert.Equal(t, tt.wantStatus, w.status)
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantSize, w.size)
			assert.Equal(t, tt.wantRecorded, rr.Body.String())
		})
	}
}

func TestResponseWriter_ProxiesHeadersToUnderlying(t *testing.T) {
	rr := httptest.NewRecorder()
	w := newResponseWriter(rr)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestResponseWriter_Unwrap(t *testing.T) {
	rr := httptest.NewRecorder()
	w := newResponseWriter(rr)

	assert.Same(t, rr, w.Unwrap())
	assert.NoError(t, http.NewResponseController(w).Flush())
	assert.True(t, rr.Flushed)
}
