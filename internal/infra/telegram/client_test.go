package telegram

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "123:abc"

func newBotAPI(t *testing.T, h http.HandlerFunc) *TelebotAdapter {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	bot, err := NewBot(testToken, srv.URL, 5*time.Second)
	require.NoError(t, err)
	return NewTelebotAdapter(bot)
}

func TestSendMessage(t *testing.T) {
	var got map[string]any
	a := newBotAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot"+testToken+"/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":1710504000,
			"chat":{"id":42,"type":"private"},"text":"CycleSync: New cycle started!"}}`))
	})

	require.NoError(t, a.SendMessage(42, "CycleSync: New cycle started!", nil))
	assert.Equal(t, "42", fmt.Sprint(got["chat_id"]))
	assert.Equal(t, "CycleSync: New cycle started!", got["text"])
	assert.Equal(t, "true", fmt.Sprint(got["disable_web_page_preview"]))
}

func TestSendMessageAPIError(t *testing.T) {
	a := newBotAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	})

	err := a.SendMessage(42, "hello", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send to chat 42")
	assert.Contains(t, err.Error(), "chat not found")
}
