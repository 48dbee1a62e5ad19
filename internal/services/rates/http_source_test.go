package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSource_GetRates(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"success","base_code":"USD","conversion_rates":{"USD":1,"EUR":0.9,"GBP":0.8}}`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/", "key123", time.Second)
	table, err := src.GetRates(context.Background(), "USD")
	require.NoError(t, err)

	assert.Equal(t, "/v6/key123/latest/USD", gotPath)
	assert.Equal(t, 0.9, table["EUR"])
	assert.Len(t, table, 3)
}

func TestHTTPSource_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`},
		{name: "api error", status: http.StatusOK, body: `{"result":"error","error-type":"invalid-key"}`},
		{name: "empty table", status: http.StatusOK, body: `{"result":"success","conversion_rates":{}}`},
		{name: "bad json", status: http.StatusOK, body: `{"result":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPSource(srv.URL, "k", time.Second).GetRates(context.Background(), "USD")
			assert.ErrorIs(t, err, ErrSourceUnavailable)
		})
	}
}

func TestHTTPSource_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTPSource(url, "k", 200*time.Millisecond).GetRates(context.Background(), "USD")
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}
