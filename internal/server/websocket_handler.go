// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quotedesk/internal/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development
		return true
	},
}

// NotificationMessage represents a message sent to connected clients
type NotificationMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Level   string `json:"level"`
}

// WebSocketManager manages WebSocket connections from watch clients and the
// web UI, pushing extraction events as they happen.
type WebSocketManager struct {
	clients    map[string]*websocket.Conn
	clientsMu  sync.RWMutex
	pingTicker *time.Ticker
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewWebSocketManager creates a new WebSocket manager
func NewWebSocketManager() *WebSocketManager {
	ctx, cancel := context.WithCancel(context.Background())
	wm := &WebSocketManager{
		clients:    make(map[string]*websocket.Conn),
		pingTicker: time.NewTicker(30 * time.Second),
		ctx:        ctx,
		cancel:     cancel,
	}

	go wm.pingLoop()
	return wm
}

// pingLoop sends ping messages to all connected clients
func (wm *WebSocketManager) pingLoop() {
	for {
		select {
		case <-wm.ctx.Done():
			return
		case <-wm.pingTicker.C:
			wm.pingAllClients()
		}
	}
}

// pingAllClients sends ping to all connected clients and removes dead
// connections
func (wm *WebSocketManager) pingAllClients() {
	wm.clientsMu.RLock()
	clients := make(map[string]*websocket.Conn, len(wm.clients))
	for id, conn := range wm.clients {
		clients[id] = conn
	}
	wm.clientsMu.RUnlock()

	for clientID, conn := range clients {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
			logger.Warnf("Failed to ping client %s, removing connection: %v", clientID, err)
			wm.clientsMu.Lock()
			delete(wm.clients, clientID)
			wm.clientsMu.Unlock()
			conn.Close()
			continue
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	}
}

// HandleWebSocket handles GET /api/v1/ws connections
func (wm *WebSocketManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		http.Error(w, "client_id query parameter is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Errorf("Failed to upgrade connection: %v", err)
		return
	}
	defer conn.Close()

	logger.Printf("WebSocket client connected: %s", clientID)

	wm.clientsMu.Lock()
	wm.clients[clientID] = conn
	wm.clientsMu.Unlock()

	defer func() {
		wm.clientsMu.Lock()
		delete(wm.clients, clientID)
		wm.clientsMu.Unlock()
		logger.Printf("WebSocket client disconnected: %s", clientID)
	}()

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warnf("WebSocket error for client %s: %v", clientID, err)
			}
			break
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		logger.Debugf("Received message from client %s: %s", clientID, string(message))
	}
}

// SendNotification sends a notification to one client. Returns without error
// if the client is not connected.
func (wm *WebSocketManager) SendNotification(clientID string, notification NotificationMessage) error {
	wm.clientsMu.RLock()
	conn, online := wm.clients[clientID]
	wm.clientsMu.RUnlock()

	if !online || conn == nil {
		return nil
	}

	messageJSON, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, messageJSON); err != nil {
		logger.Warnf("Failed to send WebSocket message to %s: %v", clientID, err)
		return err
	}
	return nil
}

// Broadcast sends a notification to every connected client. Satisfies the
// job processor's Notifier interface.
func (wm *WebSocketManager) Broadcast(notificationType, message, level string) {
	notification := NotificationMessage{
		Type:    notificationType,
		Message: message,
		Level:   level,
	}
	messageJSON, err := json.Marshal(notification)
	if err != nil {
		return
	}

	wm.clientsMu.RLock()
	clients := make(map[string]*websocket.Conn, len(wm.clients))
	for id, conn := range wm.clients {
		clients[id] = conn
	}
	wm.clientsMu.RUnlock()

	for clientID, conn := range clients {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, messageJSON); err != nil {
			logger.Warnf("Failed to broadcast to client %s: %v", clientID, err)
		}
	}
}

// Stop stops the ping ticker and closes all connections
func (wm *WebSocketManager) Stop() {
	wm.cancel()
	if wm.pingTicker != nil {
		wm.pingTicker.Stop()
	}

	wm.clientsMu.Lock()
	for clientID, conn := range wm.clients {
		conn.Close()
		delete(wm.clients, clientID)
	}
	wm.clientsMu.Unlock()

	logger.Printf("WebSocket manager stopped")
}
