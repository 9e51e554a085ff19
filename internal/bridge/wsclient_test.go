package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// fakeBackend answers bridge requests over a websocket. handle returns the
// response data (or an error string) and may push events first. Returning
// silence leaves the request unanswered; so does a nil handle.
type fakeBackend struct {
	t      *testing.T
	srv    *httptest.Server
	handle func(conn *fakeConn, req Frame) (any, string)

	mu       sync.Mutex
	requests []Frame
}

type silence struct{}

type fakeConn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *fakeConn) send(f Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(f)
}

func (c *fakeConn) event(name string, payload any) error {
	var raw json.RawMessage
	if payload != nil {
		raw, _ = json.Marshal(payload)
	}
	return c.send(Frame{Type: MessageTypeEvent, Event: name, Data: raw, Timestamp: time.Now()})
}

func newFakeBackend(t *testing.T, handle func(*fakeConn, Frame) (any, string)) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{t: t, handle: handle}
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		conn := &fakeConn{ws: ws}
		for {
			var req Frame
			if err := ws.ReadJSON(&req); err != nil {
				return
			}
			fb.mu.Lock()
			fb.requests = append(fb.requests, req)
			fb.mu.Unlock()
			if fb.handle == nil {
				continue
			}
			data, errStr := fb.handle(conn, req)
			if _, ok := data.(silence); ok {
				continue
			}
			var raw json.RawMessage
			if data != nil {
				raw, _ = json.Marshal(data)
			}
			_ = conn.send(Frame{Type: MessageTypeResponse, RequestID: req.RequestID, Data: raw, Error: errStr, Timestamp: time.Now()})
		}
	}))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) url() string {
	return "ws" + strings.TrimPrefix(fb.srv.URL, "http") + "/bridge"
}

func (fb *fakeBackend) lastRequest() Frame {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.requests[len(fb.requests)-1]
}

func dialFake(t *testing.T, fb *fakeBackend, bus *Bus) *Client {
	t.Helper()
	c, err := Dial(context.Background(), fb.url(), bus, nil, DialOptions{HandshakeTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClientListModsAndEventsInOrder(t *testing.T) {
	fb := newFakeBackend(t, func(conn *fakeConn, req Frame) (any, string) {
		if req.Method == MethodListMods {
			_ = conn.event(EventLog, "listing")
			_ = conn.event(EventRefresh, nil)
			return []map[string]any{{"Name": "Alpha", "Files": []string{"a"}}, {"name": "Beta"}}, ""
		}
		return nil, "unexpected"
	})
	bus := NewBus()
	c := dialFake(t, fb, bus)

	mods, err := c.ListMods(context.Background())
	if err != nil {
		t.Fatalf("ListMods: %v", err)
	}
	if !reflect.DeepEqual(Names(mods), []string{"Alpha", "Beta"}) {
		t.Errorf("mods=%v", Names(mods))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	first, err := bus.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	second, err := bus.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if first.Name != EventLog || first.Payload != "listing" || second.Name != EventRefresh || second.Payload != "" {
		t.Errorf("events out of order: %+v %+v", first, second)
	}
}

func TestClientDropsUnknownEvents(t *testing.T) {
	fb := newFakeBackend(t, func(conn *fakeConn, req Frame) (any, string) {
		_ = conn.event("mods:added", "Alpha")
		_ = conn.event(EventSuccess, "done")
		return []Mod{}, ""
	})
	bus := NewBus()
	c := dialFake(t, fb, bus)
	if _, err := c.ListMods(context.Background()); err != nil {
		t.Fatalf("ListMods: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ev, err := bus.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if ev.Name != EventSuccess || ev.Payload != "done" {
		t.Errorf("first event = %+v, want success:new", ev)
	}
	if n := bus.Len(); n != 0 {
		t.Errorf("%d events left on the bus", n)
	}
}

func TestClientSendsParams(t *testing.T) {
	fb := newFakeBackend(t, func(*fakeConn, Frame) (any, string) { return nil, "" })
	c := dialFake(t, fb, NewBus())
	ctx := context.Background()

	if err := c.AddMod(ctx, "Awesome", `C:\Mods\Awesome.zip`); err != nil {
		t.Fatalf("AddMod: %v", err)
	}
	req := fb.lastRequest()
	var p addModParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		t.Fatalf("decode params: %v", err)
	}
	if req.Method != MethodAddMod || p.Name != "Awesome" || p.Path != `C:\Mods\Awesome.zip` {
		t.Errorf("request=%+v params=%+v", req, p)
	}
	if req.RequestID == "" {
		t.Error("request id should be set")
	}

	if err := c.SetGameDirectory(ctx, "/games/cp"); err != nil {
		t.Fatalf("SetGameDirectory: %v", err)
	}
	var pp pathParams
	_ = json.Unmarshal(fb.lastRequest().Params, &pp)
	if pp.Path != "/games/cp" {
		t.Errorf("path param=%q", pp.Path)
	}

	if err := c.RemoveMod(ctx, "Awesome"); err != nil {
		t.Fatalf("RemoveMod: %v", err)
	}
	var np nameParams
	_ = json.Unmarshal(fb.lastRequest().Params, &np)
	if np.Name != "Awesome" {
		t.Errorf("name param=%q", np.Name)
	}
}

func TestClientStringResultsAndCancelledDialogs(t *testing.T) {
	fb := newFakeBackend(t, func(_ *fakeConn, req Frame) (any, string) {
		switch req.Method {
		case MethodGetGameDirectory:
			return "/games/cp", ""
		case MethodOpenFileDialog:
			return "", ""
		}
		return nil, ""
	})
	c := dialFake(t, fb, NewBus())
	ctx := context.Background()

	dir, err := c.GetGameDirectory(ctx)
	if err != nil || dir != "/games/cp" {
		t.Errorf("GetGameDirectory=%q %v", dir, err)
	}
	file, err := c.OpenFileDialog(ctx)
	if err != nil || file != "" {
		t.Errorf("OpenFileDialog=%q %v", file, err)
	}
	folder, err := c.OpenFolderDialog(ctx)
	if err != nil || folder != "" {
		t.Errorf("null folder result should read as cancelled, got %q %v", folder, err)
	}
}

func TestClientRemoteError(t *testing.T) {
	fb := newFakeBackend(t, func(*fakeConn, Frame) (any, string) { return nil, "mod with the name X does not exist" })
	c := dialFake(t, fb, NewBus())

	err := c.RemoveMod(context.Background(), "X")
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remote.Method != MethodRemoveMod || !strings.Contains(remote.Message, "does not exist") {
		t.Errorf("remote=%+v", remote)
	}
}

func TestClientPendingCallFailsOnClose(t *testing.T) {
	fb := newFakeBackend(t, func(*fakeConn, Frame) (any, string) { return silence{}, "" })
	c, err := Dial(context.Background(), fb.url(), NewBus(), nil, DialOptions{})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	errc := make(chan error, 1)
	go func() {
		_, err := c.ListMods(context.Background())
		errc <- err
	}()
	time.Sleep(50 * time.Millisecond)
	_ = c.Close()

	select {
	case err := <-errc:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pending call did not fail after Close")
	}

	if _, err := c.GetGameDirectory(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("call after close: %v", err)
	}
	if c.Err() == nil {
		t.Error("Err should report why the client stopped")
	}
}

func TestClientCallHonoursContext(t *testing.T) {
	fb := newFakeBackend(t, nil)
	c := dialFake(t, fb, NewBus())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if _, err := c.ListMods(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestDialFailure(t *testing.T) {
	if _, err := Dial(context.Background(), "", NewBus(), nil, DialOptions{}); err == nil {
		t.Error("empty url should fail")
	}
	srv := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	srv.Close()
	if _, err := Dial(context.Background(), url, NewBus(), nil, DialOptions{HandshakeTimeout: time.Second}); err == nil {
		t.Error("dial to closed server should fail")
	}
}

func TestEventPayload(t *testing.T) {
	cases := map[string]string{
		``:              "",
		`null`:          "",
		`"Disk full"`:   "Disk full",
		`{"a":1}`:       `{"a":1}`,
		`"<b>bold</b>"`: "<b>bold</b>",
	}
	for in, want := range cases {
		if got := eventPayload(json.RawMessage(in)); got != want {
			t.Errorf("eventPayload(%s)=%q want %q", in, got, want)
		}
	}
}
