package log

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTripLogger(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error": "上游不可用"}`))
	}))
	defer server.Close()

	client := NewHTTPClient()

	req, err := http.NewRequestWithContext(
		t.Context(),
		http.MethodPost,
		server.URL,
		strings.NewReader(`{"prompt": "你好"}`),
	)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer secret-token")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// 日志包装不应改变响应本身
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestRedactHeaders(t *testing.T) {
	headers := http.Header{
		"Content-Type":  []string{"application/json"},
		"Authorization": []string{"Bearer secret-token"},
		"X-Api-Key":     []string{"key-123"},
		"User-Agent":    []string{"forge"},
	}

	filtered := redactHeaders(headers)

	// 凭据类头部必须被隐藏
	require.Equal(t, []string{"[已隐藏]"}, filtered["Authorization"])
	require.Equal(t, []string{"[已隐藏]"}, filtered["X-Api-Key"])

	// 普通头部原样保留
	require.Equal(t, []string{"application/json"}, filtered["Content-Type"])
	require.Equal(t, []string{"forge"}, filtered["User-Agent"])
}
