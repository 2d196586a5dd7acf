// Package websocket pushes debounced emotion updates to overlay clients.
// One hub serves all tracking sessions; a single actor goroutine owns the
// client registry and every connection gets its own buffered writer.
package websocket

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/facepulse/facepulse/internal/domain"
	"github.com/facepulse/facepulse/internal/metrics"
)

const (
	maxClientsPerSession = 50
	writeTimeout         = 5 * time.Second
)

// --- Command types ---

type hubCmd interface{ hubCmd() }

type cmdRegister struct {
	sessionUUID uuid.UUID
	conn        *websocket.Conn
	initial     []byte
	errCh       chan error
}

func (cmdRegister) hubCmd() {}

type cmdUnregister struct {
	sessionUUID uuid.UUID
	conn        *websocket.Conn
}

func (cmdUnregister) hubCmd() {}

type cmdBroadcast struct {
	sessionUUID uuid.UUID
	data        []byte
}

func (cmdBroadcast) hubCmd() {}

type cmdCloseSession struct {
	sessionUUID uuid.UUID
}

func (cmdCloseSession) hubCmd() {}

type cmdGetClientCount struct {
	sessionUUID uuid.UUID
	replyCh     chan int
}

func (cmdGetClientCount) hubCmd() {}

type cmdStop struct{}

func (cmdStop) hubCmd() {}

// --- Per-connection writer ---

type clientWriter struct {
	conn   *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
}

func newClientWriter(conn *websocket.Conn) *clientWriter {
	cw := &clientWriter{
		conn:   conn,
		sendCh: make(chan []byte, 16),
		done:   make(chan struct{}),
	}
	go cw.run()
	return cw
}

func (cw *clientWriter) run() {
	for {
		select {
		case msg, ok := <-cw.sendCh:
			if !ok {
				return
			}
			cw.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := cw.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-cw.done:
			return
		}
	}
}

func (cw *clientWriter) stop() {
	close(cw.done)
	cw.conn.Close()
}

// --- Hub ---

type Hub struct {
	cmdCh   chan hubCmd
	clients map[uuid.UUID]map[*websocket.Conn]*clientWriter
}

func NewHub() *Hub {
	hub := &Hub{
		cmdCh:   make(chan hubCmd, 256),
		clients: make(map[uuid.UUID]map[*websocket.Conn]*clientWriter),
	}
	go hub.run()
	return hub
}

func (h *Hub) run() {
	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case cmdRegister:
			h.handleRegister(c)
		case cmdUnregister:
			h.handleUnregister(c.sessionUUID, c.conn)
		case cmdBroadcast:
			h.handleBroadcast(c)
		case cmdCloseSession:
			h.handleCloseSession(c.sessionUUID)
		case cmdGetClientCount:
			c.replyCh <- len(h.clients[c.sessionUUID])
		case cmdStop:
			h.handleStop()
			return
		}
	}
}

func (h *Hub) handleRegister(c cmdRegister) {
	clients, exists := h.clients[c.sessionUUID]
	if !exists {
		clients = make(map[*websocket.Conn]*clientWriter)
		h.clients[c.sessionUUID] = clients
	}

	if len(clients) >= maxClientsPerSession {
		log.Printf("Rejecting client for session %s: max clients (%d) reached", c.sessionUUID, maxClientsPerSession)
		metrics.OverlayClientsRejected.WithLabelValues("session_limit").Inc()
		c.conn.Close()
		c.errCh <- fmt.Errorf("max clients per session (%d) reached", maxClientsPerSession)
		return
	}

	cw := newClientWriter(c.conn)
	clients[c.conn] = cw
	metrics.OverlayClients.Inc()

	// Late joiners get the current display state immediately instead of
	// waiting for the next emotion change.
	if len(c.initial) > 0 {
		select {
		case cw.sendCh <- c.initial:
		default:
		}
	}

	log.Printf("Client registered for session %s (total clients: %d)", c.sessionUUID, len(clients))
	c.errCh <- nil
}

func (h *Hub) handleUnregister(sessionUUID uuid.UUID, conn *websocket.Conn) {
	clients, exists := h.clients[sessionUUID]
	if !exists {
		return
	}

	cw, exists := clients[conn]
	if !exists {
		return
	}

	cw.stop()
	delete(clients, conn)
	metrics.OverlayClients.Dec()

	if len(clients) == 0 {
		delete(h.clients, sessionUUID)
		log.Printf("Last client disconnected for session %s", sessionUUID)
	} else {
		log.Printf("Client unregistered for session %s (remaining clients: %d)", sessionUUID, len(clients))
	}
}

func (h *Hub) handleBroadcast(c cmdBroadcast) {
	clients, exists := h.clients[c.sessionUUID]
	if !exists {
		return
	}

	var slow []*websocket.Conn
	for conn, cw := range clients {
		select {
		case cw.sendCh <- c.data:
			// sent successfully
		default:
			// client is slow, mark for removal
			slow = append(slow, conn)
		}
	}

	for _, conn := range slow {
		log.Printf("Dropping slow client for session %s", c.sessionUUID)
		h.handleUnregister(c.sessionUUID, conn)
	}
}

func (h *Hub) handleCloseSession(sessionUUID uuid.UUID) {
	clients, exists := h.clients[sessionUUID]
	if !exists {
		return
	}
	for _, cw := range clients {
		cw.stop()
	}
	metrics.OverlayClients.Sub(float64(len(clients)))
	delete(h.clients, sessionUUID)
	log.Printf("Closed %d overlay clients for deleted session %s", len(clients), sessionUUID)
}

func (h *Hub) handleStop() {
	for id := range h.clients {
		h.handleCloseSession(id)
	}
}

// --- Public API ---

// Register adds an overlay client to a session. The initial update, if any,
// is delivered to this client alone right after registration.
func (h *Hub) Register(sessionUUID uuid.UUID, conn *websocket.Conn, initial *domain.OverlayUpdate) error {
	var payload []byte
	if initial != nil {
		var err error
		payload, err = json.Marshal(initial)
		if err != nil {
			return fmt.Errorf("failed to marshal initial update: %w", err)
		}
	}

	errCh := make(chan error, 1)
	h.cmdCh <- cmdRegister{sessionUUID: sessionUUID, conn: conn, initial: payload, errCh: errCh}
	return <-errCh
}

func (h *Hub) Unregister(sessionUUID uuid.UUID, conn *websocket.Conn) {
	h.cmdCh <- cmdUnregister{sessionUUID: sessionUUID, conn: conn}
}

// Broadcast pushes an update to every overlay client of a session.
// Implements tracking.Broadcaster.
func (h *Hub) Broadcast(sessionUUID uuid.UUID, update domain.OverlayUpdate) {
	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Failed to marshal overlay update for session %s: %v", sessionUUID, err)
		return
	}
	h.cmdCh <- cmdBroadcast{sessionUUID: sessionUUID, data: data}
}

// CloseSession disconnects every overlay client of a session.
// Implements tracking.Broadcaster.
func (h *Hub) CloseSession(sessionUUID uuid.UUID) {
	h.cmdCh <- cmdCloseSession{sessionUUID: sessionUUID}
}

// ClientCount reports how many overlay clients a session currently has.
func (h *Hub) ClientCount(sessionUUID uuid.UUID) int {
	replyCh := make(chan int, 1)
	h.cmdCh <- cmdGetClientCount{sessionUUID: sessionUUID, replyCh: replyCh}
	return <-replyCh
}

func (h *Hub) Stop() {
	h.cmdCh <- cmdStop{}
}
