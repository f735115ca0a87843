package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rmitchellscott/bannermaster/internal/logging"
)

// clientBuffer is the number of events queued per client before new
// events are dropped for that client.
const clientBuffer = 16

// Event represents a server-sent event
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client represents a connected SSE client
type Client struct {
	ID        string
	SessionID string
	Events    chan Event
	Done      chan struct{}
}

// Service manages SSE connections and broadcasts
type Service struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewService creates a new SSE service
func NewService() *Service {
	return &Service{
		clients: make(map[string]*Client),
	}
}

// AddClient registers a client for an editor session and queues the
// initial connection event.
func (s *Service) AddClient(sessionID string) *Client {
	client := &Client{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Events:    make(chan Event, clientBuffer),
		Done:      make(chan struct{}),
	}

	s.mu.Lock()
	s.clients[client.ID] = client
	s.mu.Unlock()

	logging.InfoWithComponent(logging.ComponentSSE, "Client connected", "client_id", client.ID, "session_id", sessionID)

	client.Events <- Event{
		Type: "connected",
		Data: map[string]interface{}{
			"session_id": sessionID,
			"timestamp":  time.Now().UTC(),
		},
	}

	return client
}

// RemoveClient removes a client connection
func (s *Service) RemoveClient(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if client, exists := s.clients[clientID]; exists {
		close(client.Done)
		delete(s.clients, clientID)
		logging.InfoWithComponent(logging.ComponentSSE, "Client disconnected", "client_id", clientID)
	}
}

// CloseSession disconnects every client of a session.
func (s *Service) CloseSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, client := range s.clients {
		if client.SessionID == sessionID {
			close(client.Done)
			delete(s.clients, id)
		}
	}
}

// BroadcastToSession queues an event for every client of a session. Slow
// clients drop events rather than blocking the sender.
func (s *Service) BroadcastToSession(sessionID string, event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, client := range s.clients {
		if client.SessionID == sessionID {
			s.enqueue(client, event)
		}
	}
}

// Publish is BroadcastToSession with the event built from its parts.
func (s *Service) Publish(sessionID, eventType string, data interface{}) {
	s.BroadcastToSession(sessionID, Event{Type: eventType, Data: data})
}

func (s *Service) enqueue(client *Client, event Event) {
	select {
	case client.Events <- event:
	default:
		logging.DebugWithComponent(logging.ComponentSSE, "Dropping event for slow client",
			"client_id", client.ID, "type", event.Type)
	}
}

// WriteEvent writes one event in SSE wire format.
func WriteEvent(w io.Writer, event Event) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, eventData)
	return err
}

// Serve streams the client's events to w until ctx ends or the client is
// removed. It sets the SSE headers and flushes after every event.
func (s *Service) Serve(ctx context.Context, w http.ResponseWriter, client *Client) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported by response writer")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-client.Done:
			return nil
		case event := <-client.Events:
			if err := WriteEvent(w, event); err != nil {
				return err
			}
			flusher.Flush()
		}
	}
}

// KeepAlive sends periodic keep-alive events to maintain connections
func (s *Service) KeepAlive(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.RLock()
			for _, client := range s.clients {
				s.enqueue(client, Event{
					Type: "ping",
					Data: map[string]interface{}{
						"timestamp": time.Now().UTC(),
					},
				})
			}
			s.mu.RUnlock()
		}
	}
}

// GetClientCount returns the number of connected clients
func (s *Service) GetClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// GetSessionClientCount returns the number of clients connected to a session
func (s *Service) GetSessionClientCount(sessionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, client := range s.clients {
		if client.SessionID == sessionID {
			count++
		}
	}
	return count
}
