package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danghoang/kvboard/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTelegram(t *testing.T, handler http.HandlerFunc) *Telegram {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tg, err := NewTelegram(TelegramConfig{BotToken: "test-token", APIBase: server.URL}, testLogger())
	require.NoError(t, err)
	return tg
}

func TestTelegram_Send(t *testing.T) {
	var gotPath, gotChatID, gotThreadID, gotText string
	tg := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotChatID = r.FormValue("chat_id")
		gotThreadID = r.FormValue("message_thread_id")
		gotText = r.FormValue("text")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	err := tg.Send(context.Background(), "-1001234:7", "xin chào")
	require.NoError(t, err)

	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, "-1001234", gotChatID)
	assert.Equal(t, "7", gotThreadID)
	assert.Equal(t, "xin chào", gotText)
}

func TestTelegram_SendWithoutThread(t *testing.T) {
	var gotThreadID string
	var threadSet bool
	tg := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotThreadID = r.FormValue("message_thread_id")
		_, threadSet = r.Form["message_thread_id"]
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	require.NoError(t, tg.Send(context.Background(), "-1001234", "hi"))
	assert.False(t, threadSet)
	assert.Empty(t, gotThreadID)
}

func TestTelegram_SendErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		topic   string
	}{
		{
			name: "http error status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"ok":false,"description":"bot was blocked"}`))
			},
			topic: "-1001234",
		},
		{
			name: "api level rejection",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
			},
			topic: "-1001234",
		},
		{
			name:    "empty topic",
			handler: func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"ok":true}`)) },
			topic:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tg := newTestTelegram(t, tt.handler)
			err := tg.Send(context.Background(), tt.topic, "hi")
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrNotify))
		})
	}
}

func TestNewTelegram_RequiresToken(t *testing.T) {
	_, err := NewTelegram(TelegramConfig{}, testLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMissingConfig))
}
