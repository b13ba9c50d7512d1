package provider

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recharge-store-backend/internal/config"
	"github.com/recharge-store-backend/internal/domain/game"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	variant, err := game.Lookup(game.FreeFireLatam)
	require.NoError(t, err)

	endpoint := config.ProviderEndpoint{
		URL:       server.URL,
		Username:  "store",
		Password:  "secret",
		Operation: "buy",
	}
	cfg := &config.ProviderConfig{Timeout: 2 * time.Second}
	return NewHTTPClient(newTestLogger(), variant, endpoint, cfg), server
}

func TestHTTPClient_FetchCode_StructuredSuccess(t *testing.T) {
	var gotQuery map[string]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"username": r.URL.Query().Get("username"),
			"password": r.URL.Query().Get("password"),
			"action":   r.URL.Query().Get("action"),
			"product":  r.URL.Query().Get("product"),
		}
		w.Write([]byte(`{"status":"success","code":"ffab-1234-cd"}`))
	})

	code, err := client.FetchCode(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "FFAB-1234-CD", code)
	assert.Equal(t, "store", gotQuery["username"])
	assert.Equal(t, "secret", gotQuery["password"])
	assert.Equal(t, "buy", gotQuery["action"])
	assert.Equal(t, "FFL110", gotQuery["product"])
}

func TestHTTPClient_FetchCode_PinField(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"1","pin":"9988776655"}`))
	})

	code, err := client.FetchCode(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "9988776655", code)
}

func TestHTTPClient_FetchCode_StructuredFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"out of stock"}`))
	})

	_, err := client.FetchCode(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_FetchCode_PlainTextWithWarnings(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Warning: upstream latency detected\nNotice: maintenance window soon\nABCD-0001\n"))
	})

	code, err := client.FetchCode(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "ABCD-0001", code)
}

func TestHTTPClient_FetchCode_RejectsImplausibleCodes(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("abc"))
		})
		_, err := client.FetchCode(context.Background(), 1)
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("too long", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("THIS-IS-NOT-A-CODE-BUT-A-VERY-LONG-SENTENCE"))
		})
		_, err := client.FetchCode(context.Background(), 1)
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("empty body", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("   \n  "))
		})
		_, err := client.FetchCode(context.Background(), 1)
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestHTTPClient_FetchCode_NonSuccessStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.FetchCode(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_FetchCode_Timeout(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte("LATE-CODE-1"))
	})
	client.client.Timeout = 50 * time.Millisecond

	_, err := client.FetchCode(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_FetchCode_UnmappedDenominationFailsClosed(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	// Denomination 7 is a Tarjeta tier with no provider product
	_, err := client.FetchCode(context.Background(), 7)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, called, "unmapped denominations must not reach the network")
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "bare code", body: "ABCD1234", want: "ABCD1234"},
		{name: "lowercase normalized", body: "abcd1234", want: "ABCD1234"},
		{name: "surrounding whitespace", body: "  ABCD1234  \n", want: "ABCD1234"},
		{name: "comment lines skipped", body: "# generated\nABCD1234", want: "ABCD1234"},
		{name: "json success", body: `{"status":"ok","code":"XY-99"}`, want: "XY-99"},
		{name: "json code with unusual characters", body: `{"status":"success","pin":"AB_CD/1234"}`, want: "AB_CD/1234"},
		{name: "json failure", body: `{"status":"0","message":"denied"}`, wantErr: true},
		{name: "prose rejected", body: "please try again later", wantErr: true},
		{name: "free-form line with unusual characters rejected", body: "AB_CD/1234", wantErr: true},
		{name: "empty", body: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseResponse([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
