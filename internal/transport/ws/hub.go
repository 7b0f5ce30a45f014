package ws

import (
	"encoding/json"
	"log"
	"sync"

	"inspectkit/internal/model"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgTemplateUpdated MessageType = "template_updated"
	MsgQuestionStates  MessageType = "question_states"
	MsgError           MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages live-preview connections per template: one editor pushing
// changes, any number of preview clients mirroring them.
type Hub struct {
	editorConns  map[string]*Connection            // templateID -> conn
	previewConns map[string]map[string]*Connection // templateID -> connID -> conn

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	TemplateID string
	ConnID     string // Empty for editor connections
	IsEditor   bool
	Send       chan []byte
	Hub        *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	TemplateID string
	ToConn     string // Empty means all preview clients
	Message    *Message
}

// NewHub creates a new preview hub
func NewHub() *Hub {
	h := &Hub{
		editorConns:  make(map[string]*Connection),
		previewConns: make(map[string]map[string]*Connection),
		register:     make(chan *Connection),
		unregister:   make(chan *Connection),
		broadcast:    make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if conn.IsEditor {
				h.editorConns[conn.TemplateID] = conn
				log.Printf("Editor connected to template %s", conn.TemplateID)
			} else {
				if h.previewConns[conn.TemplateID] == nil {
					h.previewConns[conn.TemplateID] = make(map[string]*Connection)
				}
				h.previewConns[conn.TemplateID][conn.ConnID] = conn
				log.Printf("Preview %s connected to template %s", conn.ConnID, conn.TemplateID)
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conn.IsEditor {
				if existing, ok := h.editorConns[conn.TemplateID]; ok && existing == conn {
					delete(h.editorConns, conn.TemplateID)
					close(conn.Send)
					log.Printf("Editor disconnected from template %s", conn.TemplateID)
				}
			} else {
				if previews, ok := h.previewConns[conn.TemplateID]; ok {
					if existing, ok := previews[conn.ConnID]; ok && existing == conn {
						delete(previews, conn.ConnID)
						close(conn.Send)
						log.Printf("Preview %s disconnected from template %s", conn.ConnID, conn.TemplateID)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)

			if msg.ToConn != "" {
				if previews, ok := h.previewConns[msg.TemplateID]; ok {
					if conn, ok := previews[msg.ToConn]; ok {
						select {
						case conn.Send <- data:
						default:
							// Drop message if buffer full
						}
					}
				}
			} else {
				if previews, ok := h.previewConns[msg.TemplateID]; ok {
					for _, conn := range previews {
						select {
						case conn.Send <- data:
						default:
						}
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastTemplateUpdated pushes a fresh template to every preview client
// (implements service.Broadcaster)
func (h *Hub) BroadcastTemplateUpdated(templateID string, tpl *model.Template) {
	data, _ := json.Marshal(tpl)
	h.broadcast <- &BroadcastMessage{
		TemplateID: templateID,
		Message: &Message{
			Type:    MsgTemplateUpdated,
			Payload: data,
		},
	}
}

// SendToPreview sends a message to one preview client
func (h *Hub) SendToPreview(templateID, connID string, msgType MessageType, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		TemplateID: templateID,
		ToConn:     connID,
		Message: &Message{
			Type:    msgType,
			Payload: data,
		},
	}
}

// BroadcastToPreviews sends a message to all preview clients of a template
func (h *Hub) BroadcastToPreviews(templateID string, msgType MessageType, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		TemplateID: templateID,
		Message: &Message{
			Type:    msgType,
			Payload: data,
		},
	}
}
