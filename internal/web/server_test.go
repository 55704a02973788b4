package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestStatusAndScenes(t *testing.T) {
	s := NewServer(nil, []string{"focus", "mood"})
	s.Publish(Snapshot{Scene: "mood", Fg: "#d0d0d0", Signals: Signals{Bass: 0.5}})

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/status")
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	defer resp.Body.Close()
	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Scene != "mood" || snap.Fg != "#d0d0d0" || snap.Signals.Bass != 0.5 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	resp2, err := http.Get(srv.URL + "/api/scenes")
	if err != nil {
		t.Fatalf("GET scenes: %v", err)
	}
	defer resp2.Body.Close()
	var names []string
	if err := json.NewDecoder(resp2.Body).Decode(&names); err != nil || len(names) != 2 {
		t.Fatalf("scenes=%v err=%v", names, err)
	}

	resp3, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET index: %v", err)
	}
	resp3.Body.Close()
	if !strings.HasPrefix(resp3.Header.Get("Content-Type"), "text/html") {
		t.Fatalf("index content type %q", resp3.Header.Get("Content-Type"))
	}
}

func TestWebSocketReceivesUpdates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := NewServer(nil, nil)
	s.Publish(Snapshot{Scene: "first"})
	go s.Serve(ctx, ln)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	read := func() Snapshot {
		t.Helper()
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return snap
	}

	if got := read(); got.Scene != "first" {
		t.Fatalf("initial snapshot scene=%q", got.Scene)
	}
	s.Publish(Snapshot{Scene: "second", Silent: true})
	for {
		got := read()
		if got.Scene == "second" {
			if !got.Silent {
				t.Fatalf("silent flag lost")
			}
			return
		}
	}
}
