package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prohmpiriya/bazaar-client/internal/tokenstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingClearStore struct {
	*tokenstore.MemoryStore
}

func (s failingClearStore) Clear(ctx context.Context) error {
	_ = s.MemoryStore.Clear(ctx)
	return errors.New("keychain locked")
}

func newTestClient(t *testing.T, handler http.HandlerFunc, store tokenstore.Store) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	if store == nil {
		store = tokenstore.NewMemoryStore()
	}
	c, err := New(Config{BaseURL: srv.URL, Timeout: 2 * time.Second}, store)
	require.NoError(t, err)
	return c
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "localhost:5454"}, tokenstore.NewMemoryStore())
	assert.Error(t, err)

	_, err = New(Config{BaseURL: "http://localhost:5454"}, nil)
	assert.Error(t, err)
}

func TestDo_AttachesBearerToken(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), "tok-123"))

	var got http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{}`))
	}, store)

	require.NoError(t, c.Get(context.Background(), "/api/cart", nil, nil))
	assert.Equal(t, "Bearer tok-123", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.NotEmpty(t, got.Get(HeaderRequestID))
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	var auth string
	var present bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, present = r.Header["Authorization"]
		w.Write([]byte(`[]`))
	}, nil)

	require.NoError(t, c.Get(context.Background(), "/products", nil, nil))
	assert.Empty(t, auth)
	assert.False(t, present)
}

func TestDo_EncodesBodyAndQuery(t *testing.T) {
	var method, rawQuery string
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		rawQuery = r.URL.RawQuery
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"payment_link_url":"COD"}`))
	}, nil)

	var out struct {
		URL string `json:"payment_link_url"`
	}
	err := c.Do(context.Background(), http.MethodPost, "/api/orders",
		map[string]string{"adderss": "1 Main Rd"},
		url.Values{"paymentMethod": {"CASH_ON_DELIVERY"}}, &out)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "paymentMethod=CASH_ON_DELIVERY", rawQuery)
	assert.Equal(t, "1 Main Rd", body["adderss"])
	assert.Equal(t, "COD", out.URL)
}

func TestDo_PlainTextBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Order cancelled successfully"))
	}, nil)

	var msg string
	require.NoError(t, c.Put(context.Background(), "/api/orders/1/cancel", nil, &msg))
	assert.Equal(t, "Order cancelled successfully", msg)
}

func TestDo_ServerErrorMessage(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"message field", http.StatusBadRequest, `{"message":"Invalid OTP","error":"Bad Request"}`, "Invalid OTP"},
		{"error field only", http.StatusConflict, `{"error":"Email already registered"}`, "Email already registered"},
		{"empty message falls through", http.StatusBadRequest, `{"message":"","error":"Bad Request"}`, "Bad Request"},
		{"non-string message", http.StatusBadRequest, `{"message":42}`, MessageGeneric},
		{"no fields", http.StatusInternalServerError, `{"status":500}`, MessageGeneric},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, MessageGeneric},
		{"empty body", http.StatusNotFound, ``, MessageGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}, nil)

			err := c.Get(context.Background(), "/x", nil, nil)
			require.Error(t, err)
			assert.True(t, IsServerError(err))
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, tt.status, StatusCode(err))
		})
	}
}

func TestDo_UnauthorizedClearsStore(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), "stale"))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid token"}`))
	}, store)

	var hookCalls int32
	c.OnUnauthorized(func(ctx context.Context) { atomic.AddInt32(&hookCalls, 1) })

	// any endpoint, any method
	err := c.Delete(context.Background(), "/api/cart/item/3", nil)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Invalid token", Message(err))

	_, ok := store.Get(context.Background())
	assert.False(t, ok, "401 must clear the stored token")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hookCalls))
}

func TestDo_UnauthorizedClearFailureStillReported(t *testing.T) {
	store := failingClearStore{tokenstore.NewMemoryStore()}
	require.NoError(t, store.Set(context.Background(), "stale"))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, store)

	err := c.Get(context.Background(), "/users/profile", nil, nil)
	assert.True(t, IsUnauthorized(err), "the 401 is surfaced even when clearing fails")
}

func TestDo_NetworkError(t *testing.T) {
	// grab a free port and close it so the dial is refused
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	c, err := New(Config{BaseURL: "http://" + addr, Timeout: time.Second}, tokenstore.NewMemoryStore())
	require.NoError(t, err)

	err = c.Get(context.Background(), "/api/cart", nil, nil)
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
	assert.Equal(t, MessageNetwork, err.Error())
	assert.NotNil(t, errors.Unwrap(err), "transport error stays reachable")
}

func TestDo_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c, err := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, tokenstore.NewMemoryStore())
	require.NoError(t, err)

	err = c.Get(context.Background(), "/slow", nil, nil)
	assert.True(t, IsNetworkError(err))
}

func TestDo_RequestErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"id":"not-a-number"}`))
	}, nil)

	// unencodable body never reaches the wire
	err := c.Post(context.Background(), "/api/cart/add", map[string]float64{"x": math.Inf(1)}, nil)
	require.Error(t, err)
	assert.True(t, IsRequestError(err))
	assert.Contains(t, err.Error(), "unsupported value")
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	// invalid method
	err = c.Do(context.Background(), "BAD METHOD", "/x", nil, nil, nil)
	assert.True(t, IsRequestError(err))

	// 2xx body that does not fit the target
	var out struct {
		ID int64 `json:"id"`
	}
	err = c.Get(context.Background(), "/products/1", nil, &out)
	require.Error(t, err)
	assert.True(t, IsRequestError(err))
}

func TestDo_ClassificationIsTotal(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, err := range []error{
		c.Get(context.Background(), "/x", nil, nil),
		c.Get(ctx, "/x", nil, nil),
		c.Post(context.Background(), "/x", func() {}, nil),
	} {
		apiErr, ok := AsError(err)
		require.True(t, ok, "%v escaped unclassified", err)
		assert.Contains(t, []Kind{KindServer, KindNetwork, KindRequest}, apiErr.Kind)
	}
}

func TestDo_RetriesGetOnNetworkError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			// drop the connection without a response
			hj, _ := w.(http.Hijacker)
			conn, _, _ := hj.Hijack()
			conn.Close()
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{
		BaseURL:       srv.URL,
		Timeout:       time.Second,
		RetryMax:      2,
		RetryInterval: time.Millisecond,
	}, tokenstore.NewMemoryStore())
	require.NoError(t, err)

	require.NoError(t, c.Get(context.Background(), "/products", nil, nil))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDo_NeverRetriesMutations(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		hj, _ := w.(http.Hijacker)
		conn, _, _ := hj.Hijack()
		conn.Close()
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, Timeout: time.Second, RetryMax: 3, RetryInterval: time.Millisecond},
		tokenstore.NewMemoryStore())
	require.NoError(t, err)

	err = c.Put(context.Background(), "/api/cart/add", map[string]int{"productId": 7}, nil)
	assert.True(t, IsNetworkError(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDo_ServerErrorsAreNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, RetryMax: 3, RetryInterval: time.Millisecond},
		tokenstore.NewMemoryStore(), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	assert.True(t, IsServerError(c.Get(context.Background(), "/products", nil, nil)))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
