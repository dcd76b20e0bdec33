package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/junsooki/adacast/internal/encoder"
)

const (
	pingInterval = 25 * time.Second
	writeTimeout = 5 * time.Second
)

// ErrNotConnected is returned by sends while the socket is down.
var ErrNotConnected = errors.New("socket not connected")

// Handler callbacks for incoming socket messages.
type Handler struct {
	OnEvent      func(event string, data json.RawMessage)
	OnError      func(msg string)
	OnDisconnect func(err error)
}

// Client is a websocket event client for the chat server.
type Client struct {
	url     string
	handler Handler
	logger  *zap.Logger

	conn      *websocket.Conn
	mu        sync.Mutex
	connected atomic.Bool
	done      chan struct{}
	closed    bool
}

var (
	_ FrameSender = (*Client)(nil)
	_ TextSender  = (*Client)(nil)
)

// NewClient creates a socket client. Connect must be called before sending.
func NewClient(url string, handler Handler, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		url:     url,
		handler: handler,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Connect dials the server and starts reading messages.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("socket dial: %w", err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return ErrNotConnected
	}
	c.conn = conn
	c.connected.Store(true)
	c.mu.Unlock()

	c.logger.Info("socket connected", zap.String("url", c.url))
	go c.readLoop(conn)
	go c.pingLoop()
	return nil
}

// Connected reports whether the socket is currently usable.
func (c *Client) Connected() bool {
	return c.connected.Load()
}

// Close shuts down the connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.connected.Store(false)
	close(c.done)
	if c.conn != nil {
		c.conn.Close()
	}
}

// Emit sends one named event with a JSON payload.
func (c *Client) Emit(event string, payload any) error {
	var data json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", event, err)
		}
		data = b
	}
	return c.send(Message{Event: event, Data: data})
}

// SendFrame emits a video frame as a data URL.
func (c *Client) SendFrame(frame encoder.Frame) error {
	return c.Emit(EventVideoFrame, FramePayload{Frame: frame.DataURL()})
}

// SendText emits a chat message.
func (c *Client) SendText(text string) error {
	return c.Emit(EventTextMessage, TextPayload{Message: text})
}

func (c *Client) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil || !c.connected.Load() {
		return ErrNotConnected
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(msg)
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			c.connected.Store(false)
			select {
			case <-c.done:
			default:
				c.logger.Warn("socket read error", zap.Error(err))
				if c.handler.OnDisconnect != nil {
					c.handler.OnDisconnect(err)
				}
			}
			return
		}
		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg Message) {
	switch msg.Event {
	case EventPong:
		// heartbeat response, nothing to do
	case EventError:
		var p ErrorPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			c.logger.Debug("unmarshal error payload", zap.Error(err))
		}
		if c.handler.OnError != nil {
			c.handler.OnError(p.Message)
		}
	default:
		if c.handler.OnEvent != nil {
			c.handler.OnEvent(msg.Event, msg.Data)
		}
	}
}

func (c *Client) pingLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if !c.Connected() {
				return
			}
			_ = c.send(Message{Event: EventPing})
		}
	}
}
