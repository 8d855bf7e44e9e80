package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"termtactoe/types"
)

func newTestServer(t *testing.T, timeout time.Duration) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(timeout).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postAnalyze(t *testing.T, ts *httptest.Server, body string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/analyze", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.StatusCode, out
}

func TestPing(t *testing.T) {
	ts := newTestServer(t, time.Second)
	resp, err := http.Get(ts.URL + "/api/ping")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}
}

func TestAnalyze(t *testing.T) {
	ts := newTestServer(t, 10*time.Second)
	tests := []struct {
		name  string
		body  string
		row   float64
		col   float64
		move  string
		score float64
	}{
		{"take the win", `{"board": [[1,1,0],[0,0,0],[0,0,0]], "side": 1}`, 0, 2, "C1", 1},
		{"minimax", `{"board": [[1,1,0],[0,0,0],[0,0,0]], "side": 1, "algorithm": "minimax"}`, 0, 2, "C1", 1},
		{"min wins too", `{"board": [[-1,-1,0],[1,1,0],[0,0,0]], "side": -1}`, 0, 2, "C1", -1},
		{"empty board", `{"board": [[0,0,0],[0,0,0],[0,0,0]], "side": 1, "algorithm": "alphabeta"}`, 0, 0, "A1", 0},
	}
	for _, tc := range tests {
		status, out := postAnalyze(t, ts, tc.body)
		if status != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %v", tc.name, status, out)
		}
		if out["row"] != tc.row || out["col"] != tc.col || out["move"] != tc.move || out["score"] != tc.score {
			t.Errorf("%s: unexpected reply %v", tc.name, out)
		}
		if out["terminal"] != false || out["nodes"].(float64) < 1 {
			t.Errorf("%s: unexpected reply %v", tc.name, out)
		}
	}
}

func TestAnalyzeShallowDepth(t *testing.T) {
	ts := newTestServer(t, 10*time.Second)
	status, out := postAnalyze(t, ts, `{"board": [[0,0,0],[0,0,0],[0,0,0]], "side": 1, "algorithm": "minimax", "depth": 1}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, out)
	}
	// root plus one leaf per cell
	if out["nodes"] != float64(10) {
		t.Fatalf("expected 10 nodes, got %v", out["nodes"])
	}
}

func TestAnalyzeTerminal(t *testing.T) {
	ts := newTestServer(t, time.Second)
	status, out := postAnalyze(t, ts, `{"board": [[1,1,1],[-1,-1,0],[0,0,0]], "side": -1}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, out)
	}
	if out["terminal"] != true || out["winner"] != float64(types.Max) || out["move"] != "-" || out["row"] != float64(-1) {
		t.Fatalf("unexpected reply %v", out)
	}
}

func TestAnalyzeBadRequests(t *testing.T) {
	ts := newTestServer(t, time.Second)
	bodies := []string{
		`not json`,
		`{"side": 1}`,
		`{"board": [[0,0,0],[0,0,0],[0,0,0]], "side": 0}`,
		`{"board": [[0,0,0],[0,0,0],[0,0,0]], "side": 2}`,
		`{"board": [[0,0],[0,0]], "side": 1}`,
		`{"board": [[0,0,0],[0,0],[0,0,0]], "side": 1}`,
		`{"board": [[0,0,3],[0,0,0],[0,0,0]], "side": 1}`,
		`{"board": [[0,0,0],[0,0,0],[0,0,0]], "side": 1, "algorithm": "mcts"}`,
	}
	for _, body := range bodies {
		status, out := postAnalyze(t, ts, body)
		if status != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, status)
		}
		if msg, _ := out["error"].(string); msg == "" {
			t.Errorf("%s: expected an error message, got %v", body, out)
		}
	}
}

func TestAnalyzeTimeout(t *testing.T) {
	ts := newTestServer(t, 10*time.Millisecond)
	empty := `[[0,0,0,0,0],[0,0,0,0,0],[0,0,0,0,0],[0,0,0,0,0],[0,0,0,0,0]]`
	status, out := postAnalyze(t, ts, `{"board": `+empty+`, "side": 1}`)
	if status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %v", status, out)
	}
}

func TestWebsocketAnalyze(t *testing.T) {
	ts := newTestServer(t, 10*time.Second)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/analyze"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"board": [[1,1,0],[0,0,0],[0,0,0]], "side": 1}`)); err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatal(err)
	}
	if out["move"] != "C1" || out["score"] != float64(1) {
		t.Fatalf("unexpected reply %v", out)
	}

	// errors are reported on the same connection, which stays open
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"side": 1}`)); err != nil {
		t.Fatal(err)
	}
	out = nil
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatal(err)
	}
	if msg, _ := out["error"].(string); msg == "" {
		t.Fatalf("expected an error reply, got %v", out)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(time.Second).Run(ctx, "127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
