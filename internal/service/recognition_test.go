package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/testhelpers"
)

func testRecognitionOptions() RecognitionOptions {
	return RecognitionOptions{
		Timeout:      2 * time.Second,
		MaxRetries:   2,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}
}

// dropConnection closes the TCP connection without writing a response.
func dropConnection(t *testing.T, w http.ResponseWriter) {
	hj, ok := w.(http.Hijacker)
	require.True(t, ok)
	conn, _, err := hj.Hijack()
	require.NoError(t, err)
	_ = conn.Close()
}

func TestRecognizeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "aGVsbG8=", body["image"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"foods":[{"name":"Ham","confidence":0.9,"calories":120,"ingredients":"Pork, sodium nitrite"}]}`))
	}))
	defer server.Close()

	client := NewRecognitionClient(server.URL, testRecognitionOptions(), testhelpers.Logger())
	foods, err := client.Recognize(context.Background(), "aGVsbG8=")
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Equal(t, "Ham", foods[0].Name)
	assert.Equal(t, 0.9, foods[0].Confidence)
	assert.Equal(t, "Pork, sodium nitrite", foods[0].Ingredients)
}

func TestRecognizeRetriesDroppedConnections(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) <= 2 {
			dropConnection(t, w)
			return
		}
		_, _ = w.Write([]byte(`{"foods":[]}`))
	}))
	defer server.Close()

	client := NewRecognitionClient(server.URL, testRecognitionOptions(), testhelpers.Logger())
	foods, err := client.Recognize(context.Background(), "img")
	require.NoError(t, err)
	assert.Empty(t, foods)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestRecognizeGivesUpAfterMaxRetries(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		dropConnection(t, w)
	}))
	defer server.Close()

	client := NewRecognitionClient(server.URL, testRecognitionOptions(), testhelpers.Logger())
	_, err := client.Recognize(context.Background(), "img")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.True(t, IsNetworkError(err))
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestRecognizeHTTPErrorsAreNotRetried(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "server error", status: http.StatusInternalServerError, want: ErrServer},
		{name: "bad gateway", status: http.StatusBadGateway, want: ErrServer},
		{name: "bad request", status: http.StatusBadRequest, want: ErrClient},
		{name: "payload too large", status: http.StatusRequestEntityTooLarge, want: ErrClient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&hits, 1)
				http.Error(w, "nope", tt.status)
			}))
			defer server.Close()

			client := NewRecognitionClient(server.URL, testRecognitionOptions(), testhelpers.Logger())
			_, err := client.Recognize(context.Background(), "img")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.False(t, IsNetworkError(err))
			assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

			var recErr *RecognitionError
			require.True(t, errors.As(err, &recErr))
			assert.Equal(t, tt.status, recErr.StatusCode)
		})
	}
}

func TestRecognizeDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>"},
		{name: "missing foods", body: `{"items":[]}`},
		{name: "wrong shape", body: `{"foods":"ham"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewRecognitionClient(server.URL, testRecognitionOptions(), testhelpers.Logger())
			_, err := client.Recognize(context.Background(), "img")
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestRecognizeTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	opts := testRecognitionOptions()
	opts.Timeout = 50 * time.Millisecond
	opts.MaxRetries = 0
	client := NewRecognitionClient(server.URL, opts, testhelpers.Logger())

	_, err := client.Recognize(context.Background(), "img")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestRecognizeCancelledContext(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewRecognitionClient(server.URL, testRecognitionOptions(), testhelpers.Logger())
	_, err := client.Recognize(ctx, "img")
	assert.Error(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestUserMessage(t *testing.T) {
	assert.Contains(t, UserMessage(&RecognitionError{Kind: ErrTimeout, Err: errors.New("x")}), "too long")
	assert.Contains(t, UserMessage(&RecognitionError{Kind: ErrNotConnected, Err: errors.New("x")}), "connection")
	assert.Contains(t, UserMessage(&RecognitionError{Kind: ErrServer, StatusCode: 503, Err: errors.New("x")}), "try again later")
	assert.Contains(t, UserMessage(&RecognitionError{Kind: ErrClient, StatusCode: 400, Err: errors.New("x")}), "different image")
	assert.Contains(t, UserMessage(&RecognitionError{Kind: ErrDecode, Err: errors.New("x")}), "unexpected response")
	assert.Equal(t, "Something went wrong. Please try again.", UserMessage(errors.New("boom")))
}
