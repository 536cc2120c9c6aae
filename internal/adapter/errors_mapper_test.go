package adapter

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "json error body", body: `{"error":"Certificate not found"}`, want: "Certificate not found"},
		{name: "plain text", body: "  upstream timeout \n", want: "upstream timeout"},
		{name: "json without error", body: `{"message":"x"}`, want: `{"message":"x"}`},
		{name: "empty", body: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessage([]byte(tt.body)))
		})
	}
}

func TestMapHTTPError_StatusText(t *testing.T) {
	srv := newStatusServer(t, http.StatusTeapot, "")
	defer srv.Close()

	resp, err := newTestAdapter(t, srv.URL).client.R().Get("/")
	assert.NoError(t, err)

	mapped := mapHTTPError(resp)
	assert.EqualError(t, mapped, "http 418: I'm a teapot")
}
