package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jxwalker/modman/internal/logging"
	"github.com/jxwalker/modman/internal/tracing"
)

// ErrClosed is returned for calls made on, or pending in, a closed client.
var ErrClosed = errors.New("bridge connection closed")

// Client is a Backend that talks to a backend process over a websocket.
// Responses are matched to calls by request id; event frames are forwarded
// to the bus in arrival order.
type Client struct {
	conn *websocket.Conn
	bus  *Bus
	log  *logging.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan Frame
	closed  bool
	err     error

	done chan struct{}
}

// DialOptions tunes the connection.
type DialOptions struct {
	HandshakeTimeout time.Duration
}

// Dial connects to url and starts reading frames.
func Dial(ctx context.Context, url string, bus *Bus, log *logging.Logger, opts DialOptions) (*Client, error) {
	if url == "" {
		return nil, errors.New("bridge url is empty")
	}
	if log == nil {
		log = logging.Discard()
	}
	d := *websocket.DefaultDialer
	if opts.HandshakeTimeout > 0 {
		d.HandshakeTimeout = opts.HandshakeTimeout
	}
	conn, _, err := d.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", logging.RedactURL(url), err)
	}
	c := &Client{
		conn:    conn,
		bus:     bus,
		log:     log,
		pending: make(map[string]chan Frame),
		done:    make(chan struct{}),
	}
	go c.readPump()
	log.Infof("bridge connected: %s", logging.RedactURL(url))
	return c, nil
}

func (c *Client) readPump() {
	defer close(c.done)
	for {
		var f Frame
		if err := c.conn.ReadJSON(&f); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Errorf("bridge read: %v", err)
			}
			c.shutdown(err)
			return
		}
		switch f.Type {
		case MessageTypeResponse:
			c.mu.Lock()
			ch, ok := c.pending[f.RequestID]
			delete(c.pending, f.RequestID)
			c.mu.Unlock()
			if !ok {
				c.log.Warnf("bridge: response for unknown request %s", f.RequestID)
				continue
			}
			ch <- f
		case MessageTypeEvent:
			if c.bus == nil {
				continue
			}
			if !KnownEvent(f.Event) {
				c.log.Warnf("bridge: dropping unknown event %q", f.Event)
				continue
			}
			c.log.Debugf("bridge event %s", f.Event)
			c.bus.Emit(Event{Name: f.Event, Payload: eventPayload(f.Data)})
		default:
			c.log.Warnf("bridge: unexpected frame type %q", f.Type)
		}
	}
}

func (c *Client) shutdown(cause error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if cause == nil {
		cause = ErrClosed
	}
	c.err = cause
	pending := c.pending
	c.pending = make(map[string]chan Frame)
	c.mu.Unlock()
	for id, ch := range pending {
		ch <- Frame{Type: MessageTypeResponse, RequestID: id, Error: ErrClosed.Error()}
	}
}

// Done is closed when the read loop exits.
func (c *Client) Done() <-chan struct{} { return c.done }

// Err returns the reason the connection ended, if it has.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close sends a close frame and tears the connection down.
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	err := c.conn.Close()
	c.shutdown(ErrClosed)
	<-c.done
	return err
}

// call sends one request and waits for its response. There is no timeout
// besides ctx; an unresponsive backend leaves the call pending.
func (c *Client) call(ctx context.Context, method string, params, out any) (err error) {
	id := uuid.NewString()
	ctx, span := tracing.StartCall(ctx, method, id)
	defer func() { tracing.EndCall(span, err) }()

	var raw json.RawMessage
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("%s: encode params: %w", method, err)
		}
		raw = b
	}
	ch := make(chan Frame, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.pending[id] = ch
	c.mu.Unlock()

	req := Frame{Type: MessageTypeRequest, RequestID: id, Method: method, Params: raw, Timestamp: time.Now()}
	c.writeMu.Lock()
	err = c.conn.WriteJSON(req)
	c.writeMu.Unlock()
	if err != nil {
		c.forget(id)
		return fmt.Errorf("%s: send: %w", method, err)
	}
	c.log.Debugf("bridge call %s id=%s", method, id)

	select {
	case <-ctx.Done():
		c.forget(id)
		return ctx.Err()
	case resp := <-ch:
		if resp.Error != "" {
			if resp.Error == ErrClosed.Error() {
				return fmt.Errorf("%s: %w", method, ErrClosed)
			}
			return &RemoteError{Method: method, Message: resp.Error}
		}
		if out == nil || len(resp.Data) == 0 || string(resp.Data) == "null" {
			return nil
		}
		if err := json.Unmarshal(resp.Data, out); err != nil {
			return fmt.Errorf("%s: decode result: %w", method, err)
		}
		return nil
	}
}

func (c *Client) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Client) ListMods(ctx context.Context) ([]Mod, error) {
	var mods []Mod
	if err := c.call(ctx, MethodListMods, nil, &mods); err != nil {
		return nil, err
	}
	return mods, nil
}

func (c *Client) AddMod(ctx context.Context, name, path string) error {
	return c.call(ctx, MethodAddMod, addModParams{Name: name, Path: path}, nil)
}

func (c *Client) RemoveMod(ctx context.Context, name string) error {
	return c.call(ctx, MethodRemoveMod, nameParams{Name: name}, nil)
}

func (c *Client) GetGameDirectory(ctx context.Context) (string, error) {
	var dir string
	err := c.call(ctx, MethodGetGameDirectory, nil, &dir)
	return dir, err
}

func (c *Client) SetGameDirectory(ctx context.Context, path string) error {
	return c.call(ctx, MethodSetGameDirectory, pathParams{Path: path}, nil)
}

func (c *Client) OpenFileDialog(ctx context.Context) (string, error) {
	var p string
	err := c.call(ctx, MethodOpenFileDialog, nil, &p)
	return p, err
}

func (c *Client) OpenFolderDialog(ctx context.Context) (string, error) {
	var p string
	err := c.call(ctx, MethodOpenFolderDialog, nil, &p)
	return p, err
}

var _ Backend = (*Client)(nil)
