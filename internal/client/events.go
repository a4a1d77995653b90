// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package client

import (
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quotedesk/internal/logger"
)

// NotificationMessage represents a notification from the server
type NotificationMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Level   string `json:"level"`
}

// EventListener maintains a WebSocket connection to the server's event
// stream, reconnecting when the connection drops.
type EventListener struct {
	serverURL string
	clientID  string
	conn      *websocket.Conn
	onMessage func(NotificationMessage)
	done      chan struct{}
	closeOnce sync.Once
}

// NewEventListener creates an event listener. onMessage runs for every
// server notification.
func NewEventListener(serverURL, clientID string, onMessage func(NotificationMessage)) *EventListener {
	return &EventListener{
		serverURL: serverURL,
		clientID:  clientID,
		onMessage: onMessage,
		done:      make(chan struct{}),
	}
}

// Connect dials the server's WebSocket endpoint and starts the read loop.
func (c *EventListener) Connect() error {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return err
	}

	wsScheme := "ws"
	if u.Scheme == "https" {
		wsScheme = "wss"
	}

	query := url.Values{}
	query.Set("client_id", c.clientID)

	wsURL := url.URL{
		Scheme:   wsScheme,
		Host:     u.Host,
		Path:     "/api/v1/ws",
		RawQuery: query.Encode(),
	}

	logger.Printf("Connecting to event stream: %s", wsURL.String())

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(wsURL.String(), nil)
	if err != nil {
		return err
	}
	c.conn = conn

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(10*time.Second))
	})

	logger.Printf("Event stream connected (client_id: %s)", c.clientID)

	go c.readMessages()
	return nil
}

// readMessages reads notifications until the connection drops, then
// schedules a reconnect.
func (c *EventListener) readMessages() {
	for {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return
			default:
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warnf("Event stream error: %v", err)
			}
			logger.Printf("Event stream closed, will attempt to reconnect...")
			go c.reconnect()
			return
		}

		var notification NotificationMessage
		if err := json.Unmarshal(message, &notification); err != nil {
			logger.Warnf("Failed to parse notification: %v", err)
			continue
		}
		if c.onMessage != nil {
			c.onMessage(notification)
		}
	}
}

// reconnect retries the connection every few seconds until it succeeds or
// the listener is closed.
func (c *EventListener) reconnect() {
	for {
		select {
		case <-c.done:
			return
		case <-time.After(5 * time.Second):
		}

		logger.Printf("Attempting to reconnect event stream...")
		if err := c.Connect(); err != nil {
			logger.Warnf("Reconnection failed: %v, will retry...", err)
			continue
		}
		return
	}
}

// Close closes the event stream connection
func (c *EventListener) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}
