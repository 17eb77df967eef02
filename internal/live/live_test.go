package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/jotunheim-mc/website/internal/config"
	"github.com/jotunheim-mc/website/internal/contact"
	"github.com/jotunheim-mc/website/internal/content"
	"github.com/jotunheim-mc/website/internal/lifecycle"
	"github.com/jotunheim-mc/website/internal/pages"
)

type fixture struct {
	handler *Handler
	server  *httptest.Server
	clock   *lifecycle.FakeClock
	hooks   *atomic.Int32
}

func setup(t *testing.T, webhookStatus int) *fixture {
	t.Helper()

	hooks := &atomic.Int32{}
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks.Add(1)
		w.WriteHeader(webhookStatus)
	}))
	t.Cleanup(webhook.Close)

	f := newFixture(t, contact.NewClient(webhook.URL, time.Second))
	f.hooks = hooks
	return f
}

func newFixture(t *testing.T, d contact.Deliverer) *fixture {
	t.Helper()

	cfg := config.DefaultConfig()
	site, err := content.Load()
	if err != nil {
		t.Fatalf("content.Load: %v", err)
	}
	renderer, err := pages.NewRenderer(cfg, site)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	clock := lifecycle.NewFakeClock(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	h := NewHandler(Deps{
		Config:    cfg,
		Renderer:  renderer,
		Deliverer: d,
		Logger:    zerolog.Nop(),
		Clock:     clock,
		Intn:      func(int) int { return 42 },
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return &fixture{handler: h, server: srv, clock: clock, hooks: &atomic.Int32{}}
}

func (f *fixture) dial(t *testing.T, view string) *websocket.Conn {
	t.Helper()
	conn, _ := f.dialQuery(t, view, "")
	return conn
}

// dialQuery opens a session for view with extra query parameters and
// returns it with its hello message.
func (f *fixture) dialQuery(t *testing.T, view, extra string) (*websocket.Conn, map[string]any) {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/live?view=" + view + extra
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}
	t.Cleanup(func() { conn.Close() })

	hello := readUntil(t, conn, "hello")
	if hello["view"] != view {
		t.Fatalf("hello view = %v, want %s", hello["view"], view)
	}
	return conn, hello
}

// readUntil reads messages until one of type typ arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %q: %v", typ, err)
		}
		var msg map[string]any
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decoding %s: %v", data, err)
		}
		if msg["type"] == typ {
			return msg
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, req Request) {
	t.Helper()
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestUnknownView(t *testing.T) {
	f := setup(t, http.StatusNoContent)
	resp, err := http.Get(f.server.URL + "/live?view=shop")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestModalPushedAfterDelay(t *testing.T) {
	f := setup(t, http.StatusNoContent)
	conn := f.dial(t, "home")

	f.clock.Advance(time.Second)
	msg := readUntil(t, conn, "modal")
	if msg["visible"] != true {
		t.Fatalf("modal message = %v, want visible", msg)
	}
	html, _ := msg["html"].(string)
	if !strings.Contains(html, "Jotunheim MC venter!") {
		t.Errorf("modal html = %q", html)
	}

	send(t, conn, Request{Type: MsgDragStart, X: 200})
	send(t, conn, Request{Type: MsgDragMove, X: 301})
	if msg := readUntil(t, conn, "modal"); msg["offset"] != float64(101) {
		t.Errorf("drag offset = %v, want 101", msg["offset"])
	}
	send(t, conn, Request{Type: MsgDragEnd})
	if msg := readUntil(t, conn, "modal"); msg["visible"] != false {
		t.Errorf("modal after drag = %v, want hidden", msg)
	}
}

func TestPlayerCounterAndCopy(t *testing.T) {
	f := setup(t, http.StatusNoContent)
	conn := f.dial(t, "home")

	f.clock.Advance(5 * time.Second)
	if msg := readUntil(t, conn, "players"); msg["count"] != float64(42) {
		t.Errorf("players = %v, want 42", msg["count"])
	}

	send(t, conn, Request{Type: MsgCopied})
	if msg := readUntil(t, conn, "copy"); msg["label"] != "Kopiert!" {
		t.Errorf("copy label = %v", msg["label"])
	}
}

func TestThemeToggle(t *testing.T) {
	f := setup(t, http.StatusNoContent)
	conn := f.dial(t, "rules")

	send(t, conn, Request{Type: MsgThemeToggle})
	msg := readUntil(t, conn, "theme")
	if msg["mode"] != "light" {
		t.Errorf("mode = %v, want light", msg["mode"])
	}
	if css, _ := msg["css"].(string); !strings.Contains(css, "--body:#f0f4f8;") {
		t.Errorf("css = %q", css)
	}
}

func TestMenu(t *testing.T) {
	f := setup(t, http.StatusNoContent)
	conn := f.dial(t, "rules")

	send(t, conn, Request{Type: MsgMenuToggle})
	if msg := readUntil(t, conn, "menu"); msg["open"] != true {
		t.Errorf("menu = %v, want open", msg)
	}
	send(t, conn, Request{Type: MsgMenuSelect, Href: "/stab"})
	if msg := readUntil(t, conn, "menu"); msg["open"] != false {
		t.Errorf("menu = %v, want closed", msg)
	}
	if msg := readUntil(t, conn, "navigate"); msg["href"] != "/stab" {
		t.Errorf("navigate = %v", msg)
	}
}

func TestContactInvalidMakesNoRequest(t *testing.T) {
	f := setup(t, http.StatusNoContent)
	conn := f.dial(t, "contact")

	send(t, conn, Request{Type: MsgContactSubmit, Name: "Ola", Email: "ola@jotunmc.no", Subject: "", Message: "Hei"})
	msg := readUntil(t, conn, "contact")
	if msg["status"] != "idle" {
		t.Errorf("status = %v, want idle", msg["status"])
	}
	errs, _ := msg["field_errors"].(map[string]any)
	if errs["subject"] == nil || errs["subject"] == "" {
		t.Errorf("field_errors = %v, want subject error", msg["field_errors"])
	}
	if _, ok := errs["name"]; ok {
		t.Errorf("field_errors = %v, want no name error", errs)
	}
	fields, _ := msg["fields"].(map[string]any)
	if fields["name"] != "Ola" {
		t.Errorf("fields = %v, want kept", fields)
	}
	if f.hooks.Load() != 0 {
		t.Errorf("webhook requests = %d, want 0", f.hooks.Load())
	}
}

func TestContactSuccess(t *testing.T) {
	f := setup(t, http.StatusNoContent)
	conn := f.dial(t, "contact")

	send(t, conn, Request{Type: MsgContactSubmit, Name: "Ola", Email: "ola@jotunmc.no", Subject: "Hei", Message: "Tekst"})
	if msg := readUntil(t, conn, "contact"); msg["status"] != "submitting" {
		t.Errorf("first status = %v, want submitting", msg["status"])
	}
	msg := readUntil(t, conn, "contact")
	if msg["status"] != "success" || msg["message"] != contact.SuccessMessage {
		t.Errorf("final = %v", msg)
	}
	fields, _ := msg["fields"].(map[string]any)
	if fields["name"] != "" {
		t.Errorf("fields not cleared: %v", fields)
	}
	if f.hooks.Load() != 1 {
		t.Errorf("webhook requests = %d, want 1", f.hooks.Load())
	}
}

func TestContactFailureKeepsFields(t *testing.T) {
	f := setup(t, http.StatusInternalServerError)
	conn := f.dial(t, "contact")

	send(t, conn, Request{Type: MsgContactSubmit, Name: "Ola", Email: "ola@jotunmc.no", Subject: "Hei", Message: "Tekst"})
	readUntil(t, conn, "contact")
	msg := readUntil(t, conn, "contact")
	if msg["status"] != "error" || msg["message"] != contact.ErrorMessage {
		t.Errorf("final = %v", msg)
	}
	fields, _ := msg["fields"].(map[string]any)
	if fields["name"] != "Ola" || fields["message"] != "Tekst" {
		t.Errorf("fields = %v, want kept", fields)
	}
}

func TestWidgetNotOnView(t *testing.T) {
	f := setup(t, http.StatusNoContent)
	conn := f.dial(t, "rules")

	send(t, conn, Request{Type: MsgCopied})
	if msg := readUntil(t, conn, "error"); !strings.Contains(msg["message"].(string), "copy") {
		t.Errorf("error = %v", msg)
	}
	send(t, conn, Request{Type: "explode"})
	if msg := readUntil(t, conn, "error"); !strings.Contains(msg["message"].(string), "unknown message type") {
		t.Errorf("error = %v", msg)
	}
}

func TestDisconnectUnmounts(t *testing.T) {
	f := setup(t, http.StatusNoContent)
	conn := f.dial(t, "home")
	if f.handler.Active() != 1 {
		t.Fatalf("active = %d, want 1", f.handler.Active())
	}

	conn.Close()
	deadline := time.Now().Add(3 * time.Second)
	for f.handler.Active() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("session not closed after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Timers of the closed page must not fire.
	f.clock.Advance(time.Minute)
	if n := f.clock.Pending(); n != 0 {
		t.Errorf("pending timers after unmount = %d, want 0", n)
	}
}

func TestCloseAll(t *testing.T) {
	f := setup(t, http.StatusNoContent)
	conn := f.dial(t, "rules")

	f.handler.CloseAll()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected connection to be closed")
	}
}

func TestHelloCarriesWidgetState(t *testing.T) {
	f := setup(t, http.StatusNoContent)
	_, hello := f.dialQuery(t, "home", "")

	if hello["theme"] != "dark" || hello["menu_open"] != false {
		t.Errorf("hello = %v, want dark theme and closed menu", hello)
	}
	if css, _ := hello["css"].(string); css == "" {
		t.Error("hello css is empty")
	}
	if hello["players"] != float64(0) {
		t.Errorf("players = %v, want 0", hello["players"])
	}
	cp, _ := hello["copy"].(map[string]any)
	if cp["text"] != "spill.jotunmc.no" || cp["label"] != "Kopier" {
		t.Errorf("copy = %v", hello["copy"])
	}

	_, hello = f.dialQuery(t, "rules", "")
	if _, ok := hello["players"]; ok {
		t.Errorf("rules hello has players: %v", hello)
	}
	if _, ok := hello["copy"]; ok {
		t.Errorf("rules hello has copy: %v", hello)
	}
}

func TestSessionStartsFromRenderedState(t *testing.T) {
	f := setup(t, http.StatusNoContent)
	conn, hello := f.dialQuery(t, "rules", "&theme=light&meny=open")

	if hello["theme"] != "light" {
		t.Errorf("hello theme = %v, want light", hello["theme"])
	}
	if hello["menu_open"] != true {
		t.Errorf("hello menu_open = %v, want true", hello["menu_open"])
	}

	send(t, conn, Request{Type: MsgThemeToggle})
	if msg := readUntil(t, conn, "theme"); msg["mode"] != "dark" {
		t.Errorf("first toggle mode = %v, want dark", msg["mode"])
	}
	send(t, conn, Request{Type: MsgMenuToggle})
	if msg := readUntil(t, conn, "menu"); msg["open"] != false {
		t.Errorf("first menu toggle = %v, want closed", msg)
	}
}

// slowDeliverer records whether its context was cancelled while it waited.
type slowDeliverer struct {
	started chan struct{}
	result  chan error
}

func (d *slowDeliverer) Deliver(ctx context.Context, p contact.Payload) (int, error) {
	close(d.started)
	select {
	case <-ctx.Done():
		d.result <- ctx.Err()
		return 0, ctx.Err()
	case <-time.After(500 * time.Millisecond):
		d.result <- nil
		return http.StatusNoContent, nil
	}
}

func TestContactDeliveryOutlivesDisconnect(t *testing.T) {
	d := &slowDeliverer{started: make(chan struct{}), result: make(chan error, 1)}
	f := newFixture(t, d)
	conn := f.dial(t, "contact")

	send(t, conn, Request{Type: MsgContactSubmit, Name: "Ola", Email: "ola@jotunmc.no", Subject: "Hei", Message: "Tekst"})
	<-d.started
	conn.Close()

	select {
	case err := <-d.result:
		if err != nil {
			t.Errorf("delivery context after disconnect: %v, want not cancelled", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("delivery did not finish")
	}

	deadline := time.Now().Add(3 * time.Second)
	for f.handler.Active() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("session not closed after delivery finished")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
