package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"battleship-bot/boterrors"
	"battleship-bot/game"
	"battleship-bot/wsutil"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Read deadline used until the server announces its ping timings.
	defaultPingWait = 45 * time.Second

	// Maximum message size allowed from peer. Result events carry two boards and the full log.
	maxMessageSize = 1 << 20

	sendBuffer = 64
)

var errServerClosed = errors.New("server closed the session")

// EventHandler answers decoded game events. A nil response sends no ack.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev game.Event) (any, error)
}

// Options configures the connection to the game server.
type Options struct {
	ServerURL      string // http(s):// or ws(s)://
	Path           string // defaults to /socket.io/
	Secret         string
	AuthTimeout    time.Duration
	ReconnectDelay time.Duration
	Dialer         *websocket.Dialer
}

type inbound struct {
	id  *int
	raw json.RawMessage
}

// Client is one Socket.IO session with the game server.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
	ID   string // local id for logs
	SID  string // Engine.IO session id

	opts     Options
	pingWait time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	nextAck int
	pending map[int]chan json.RawMessage

	qmu    sync.Mutex
	queue  []inbound
	notify chan struct{}

	readErr   chan error
	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to the game server and joins the default namespace.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	u, err := socketURL(opts.ServerURL, opts.Path)
	if err != nil {
		return nil, err
	}
	dialer := opts.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.DialContext(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}

	id := uuid.NewString()
	c := &Client{
		Conn:     conn,
		Send:     make(chan []byte, sendBuffer),
		ID:       id,
		opts:     opts,
		pingWait: defaultPingWait,
		log:      slog.With("tag", "ws", "conn", id[:8]),
		pending:  make(map[int]chan json.RawMessage),
		notify:   make(chan struct{}, 1),
		readErr:  make(chan error, 1),
		done:     make(chan struct{}),
	}
	if err := c.handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("handshake: %w", err)
	}
	c.log.Info("connected to server", "sid", c.SID)
	return c, nil
}

func socketURL(server, path string) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	if path == "" {
		path = "/socket.io/"
	}
	u.Path = path
	q := u.Query()
	q.Set("EIO", "4")
	q.Set("transport", "websocket")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// handshake reads the Engine.IO open packet and connects to the default namespace.
// It runs before the pumps, so it may read and write the connection directly.
func (c *Client) handshake() error {
	c.Conn.SetReadDeadline(time.Now().Add(defaultPingWait))
	_, msg, err := c.Conn.ReadMessage()
	if err != nil {
		return err
	}
	if len(msg) == 0 || msg[0] != eioOpen {
		return fmt.Errorf("expected open packet, got %q", msg)
	}
	var open openPayload
	if err := json.Unmarshal(msg[1:], &open); err != nil {
		return fmt.Errorf("open packet: %w", err)
	}
	c.SID = open.SID
	if open.PingInterval > 0 {
		c.pingWait = time.Duration(open.PingInterval+open.PingTimeout) * time.Millisecond
	}

	c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.Conn.WriteMessage(websocket.TextMessage, Packet{Type: sioConnect}.Encode()); err != nil {
		return err
	}

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			return err
		}
		if len(msg) == 0 {
			continue
		}
		switch msg[0] {
		case eioPing:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, []byte{eioPong}); err != nil {
				return err
			}
		case eioClose:
			return errServerClosed
		case eioMessage:
			p, err := decodePacket(string(msg[1:]))
			if err != nil {
				return err
			}
			switch p.Type {
			case sioConnect:
				return nil
			case sioConnectError:
				return fmt.Errorf("connect refused: %s", p.Data)
			}
		}
	}
}

// Close ends the session. It is safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.Conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		c.Conn.Close()
	})
}

// Serve authenticates and then answers "data" events one at a time until the
// connection drops or ctx is cancelled.
func (c *Client) Serve(ctx context.Context, h EventHandler) error {
	defer c.Close()
	go c.WritePump()
	go c.ReadPump()

	if err := c.Authenticate(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-c.readErr:
			for _, in := range c.dequeue() {
				c.dispatch(ctx, h, in)
			}
			return err
		case <-c.notify:
			for _, in := range c.dequeue() {
				c.dispatch(ctx, h, in)
			}
		}
	}
}

// enqueue hands an event to Serve without blocking the read loop, so acks and
// pings are still read while events wait, e.g. during authentication.
func (c *Client) enqueue(in inbound) {
	c.qmu.Lock()
	c.queue = append(c.queue, in)
	c.qmu.Unlock()
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

func (c *Client) dequeue() []inbound {
	c.qmu.Lock()
	defer c.qmu.Unlock()
	q := c.queue
	c.queue = nil
	return q
}

// Authenticate presents the shared secret. The server acks with [true] or [false].
func (c *Client) Authenticate(ctx context.Context) error {
	data, err := c.EmitWithAck(ctx, c.opts.AuthTimeout, "authenticate", c.opts.Secret)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	var ok []bool
	if err := json.Unmarshal(data, &ok); err != nil || len(ok) == 0 {
		return fmt.Errorf("authenticate: unexpected ack %s", data)
	}
	if !ok[0] {
		c.log.Error("authentication failed")
		return boterrors.ErrAuthRejected
	}
	c.log.Info("authenticated successfully")
	return nil
}

// EmitWithAck sends an event and waits up to timeout for the server's ack.
func (c *Client) EmitWithAck(ctx context.Context, timeout time.Duration, name string, args ...any) (json.RawMessage, error) {
	c.mu.Lock()
	id := c.nextAck
	c.nextAck++
	ch := make(chan json.RawMessage, 1)
	c.pending[id] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	p, err := eventPacket(&id, name, args...)
	if err != nil {
		return nil, err
	}
	if !c.send(p) {
		return nil, boterrors.ErrNotConnected
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case data := <-ch:
		return data, nil
	case <-timer.C:
		return nil, boterrors.ErrAckTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, boterrors.ErrNotConnected
	}
}

func (c *Client) send(p Packet) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	return wsutil.SafeSend(c.Send, p.Encode())
}

func (c *Client) dispatch(ctx context.Context, h EventHandler, in inbound) {
	ev, err := DecodeEvent(in.raw)
	if err != nil {
		c.log.Error("invalid payload", "error", err)
		return
	}
	c.log.Debug("received event", "type", ev.Kind(), "game", ev.Details().ID)

	resp, err := h.HandleEvent(ctx, ev)
	if err != nil {
		c.log.Error("event handling failed", "type", ev.Kind(), "game", ev.Details().ID, "error", err)
		return
	}
	if resp == nil {
		return
	}
	if in.id == nil {
		c.log.Warn("dropping response to event without ack id", "type", ev.Kind(), "game", ev.Details().ID)
		return
	}
	p, err := ackPacket(*in.id, resp)
	if err != nil {
		c.log.Error("encode response", "error", err)
		return
	}
	if !c.send(p) {
		c.log.Warn("server unreachable, response dropped", "type", ev.Kind(), "game", ev.Details().ID)
	}
}

// ReadPump pumps frames from the websocket connection to the session.
// It runs in its own goroutine per connection.
func (c *Client) ReadPump() {
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.pingWait))

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err == nil {
			c.Conn.SetReadDeadline(time.Now().Add(c.pingWait))
			err = c.handleFrame(msg)
		}
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("websocket read error", "error", err)
			}
			select {
			case c.readErr <- err:
			default:
			}
			return
		}
	}
}

// WritePump pumps messages from the send channel to the websocket connection.
// It runs in its own goroutine per connection.
func (c *Client) WritePump() {
	for {
		select {
		case message := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.Warn("websocket write error", "error", err)
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Client) handleFrame(msg []byte) error {
	if len(msg) == 0 {
		return nil
	}
	switch msg[0] {
	case eioPing:
		wsutil.SafeSend(c.Send, []byte{eioPong})
	case eioClose:
		return errServerClosed
	case eioMessage:
		p, err := decodePacket(string(msg[1:]))
		if err != nil {
			c.log.Warn("ignoring malformed packet", "error", err)
			return nil
		}
		return c.handlePacket(p)
	}
	return nil
}

func (c *Client) handlePacket(p Packet) error {
	switch p.Type {
	case sioEvent:
		name, args, err := eventName(p.Data)
		if err != nil {
			c.log.Warn("ignoring malformed event", "error", err)
			return nil
		}
		if name != "data" || len(args) == 0 {
			c.log.Debug("ignoring event", "event", name)
			return nil
		}
		c.enqueue(inbound{id: p.ID, raw: args[0]})
	case sioAck:
		if p.ID == nil {
			return nil
		}
		c.mu.Lock()
		ch, ok := c.pending[*p.ID]
		c.mu.Unlock()
		if ok {
			select {
			case ch <- p.Data:
			default:
			}
		}
	case sioDisconnect:
		return errServerClosed
	case sioConnectError:
		return fmt.Errorf("server error: %s", p.Data)
	}
	return nil
}
