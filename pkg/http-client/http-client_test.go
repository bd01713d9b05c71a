package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunHTTPcall(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/send", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("Api-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		if received["fail"] == true {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"ok": false, "description": "bad"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	client := ClientConfig{RootURL: server.URL, APIKey: "secret", Timeout: 2 * time.Second}

	res, err := client.RunHTTPcall(context.Background(), "/send", map[string]interface{}{"text": "hello"})
	require.NoError(t, err)
	assert.Equal(t, true, res["ok"])
	assert.Equal(t, "hello", received["text"])

	res, err = client.RunHTTPcall(context.Background(), "/send", map[string]interface{}{"fail": true})
	assert.Error(t, err)
	assert.Equal(t, "bad", res["description"])
}
