package notifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTelegram(t *testing.T, handler http.HandlerFunc) *TelegramNotifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tn := NewTelegramNotifier("TOKEN", "42", "", nil)
	tn.BaseURL = srv.URL
	tn.Backoff = time.Millisecond
	return tn
}

func TestTelegramNotifier_Send(t *testing.T) {
	var path string
	var payload map[string]string
	tn := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &payload)
		w.Write([]byte(`{"ok":true}`))
	})

	require.NoError(t, tn.Send(context.Background(), "hello"))
	assert.Equal(t, "/botTOKEN/sendMessage", path)
	assert.Equal(t, "42", payload["chat_id"])
	assert.Equal(t, "hello", payload["text"])
}

func TestTelegramNotifier_SendPhoto(t *testing.T) {
	img := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, os.WriteFile(img, []byte("\x89PNG fake"), 0o644))

	var caption, chatID string
	var photo []byte
	tn := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		caption = r.FormValue("caption")
		chatID = r.FormValue("chat_id")
		f, _, err := r.FormFile("photo")
		require.NoError(t, err)
		photo, _ = io.ReadAll(f)
		w.Write([]byte(`{"ok":true}`))
	})

	require.NoError(t, tn.SendPhoto(context.Background(), img, "SPY calendar effects"))
	assert.Equal(t, "SPY calendar effects", caption)
	assert.Equal(t, "42", chatID)
	assert.Equal(t, []byte("\x89PNG fake"), photo)
}

func TestTelegramNotifier_RetryThenSucceed(t *testing.T) {
	var calls int32
	tn := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	})

	require.NoError(t, tn.SendWithRetry(context.Background(), "hi", 3))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestTelegramNotifier_RetryExhausted(t *testing.T) {
	var calls int32
	tn := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := tn.SendWithRetry(context.Background(), "hi", 2)
	assert.ErrorContains(t, err, "all 3 attempts failed")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}
