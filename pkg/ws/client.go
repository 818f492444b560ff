package ws

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
)

const sendBufferSize = 128

var (
	ErrClosed     = errors.New("connection is closed")
	ErrBufferFull = errors.New("send buffer is full")
)

// Client pumps payloads between a websocket connection and the rest of the
// process. Inbound text frames arrive on R; outbound payloads are queued
// with Send. Both directions optionally pass through zlib.
type Client struct {
	conn     *websocket.Conn
	compress bool

	// R carries inbound payloads. It is closed when the peer goes away.
	R chan []byte

	w    chan []byte
	done chan struct{}
	once sync.Once
}

func NewClient(conn *websocket.Conn, compress bool) *Client {
	if conn == nil {
		return nil
	}

	c := &Client{
		conn:     conn,
		compress: compress,
		R:        make(chan []byte, sendBufferSize),
		w:        make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
	}

	go c.runReader()
	go c.runWriter()
	return c
}

func (c *Client) runReader() {
	defer close(c.R)
	defer c.Close()

	for {
		t, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		if t != websocket.TextMessage && t != websocket.BinaryMessage {
			continue
		}

		if c.compress {
			msg, err = Decompress(msg)
			if err != nil {
				continue
			}
		}

		c.R <- msg
	}
}

func (c *Client) runWriter() {
	for {
		select {
		case msg := <-c.w:
			if c.compress {
				var err error
				msg, err = Compress(msg)
				if err != nil {
					continue
				}
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// Send queues a payload for delivery. It never blocks: a full buffer or a
// closed connection is reported as an error and the payload is dropped.
func (c *Client) Send(msg []byte) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.w <- msg:
		return nil
	default:
		return ErrBufferFull
	}
}

// Close tears down the connection. It is safe to call more than once and
// from concurrent goroutines.
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}
