package testsupport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// TTSServer is a fake narration service.
type TTSServer struct {
	*httptest.Server
	Audio []byte
	calls atomic.Int64
}

// Calls returns how many speak requests were served.
func (s *TTSServer) Calls() int {
	return int(s.calls.Load())
}

// NewTTSServer starts a narration service that answers every speak request
// with a fixed audio payload.
func NewTTSServer(t testing.TB) *TTSServer {
	t.Helper()
	srv := &TTSServer{Audio: bytes.Repeat([]byte{0xAB}, 4096)}
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		var payload struct {
			Text  string `json:"text"`
			Title string `json:"title"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Text == "" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "text required"})
			return
		}
		srv.calls.Add(1)
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(srv.Audio)
	}))
	t.Cleanup(srv.Close)
	return srv
}
