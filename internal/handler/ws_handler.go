package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/nahidkabir/shongi/internal/model"
	"github.com/nahidkabir/shongi/internal/service"
	"github.com/nahidkabir/shongi/internal/ws"
	"github.com/nahidkabir/shongi/pkg/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, validate origin
	},
}

// WSHandler handles WebSocket connections
type WSHandler struct {
	hub         *ws.Hub
	chatService *service.ChatService
	jwtManager  *auth.JWTManager
}

func NewWSHandler(hub *ws.Hub, chatService *service.ChatService, jwtManager *auth.JWTManager) *WSHandler {
	return &WSHandler{
		hub:         hub,
		chatService: chatService,
		jwtManager:  jwtManager,
	}
}

// HandleWebSocket upgrades HTTP to WebSocket and manages the connection
// Client connects with: ws://host/ws?token=<jwt_token>
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	// Authenticate via query parameter (WebSocket can't use Authorization header)
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}

	claims, err := h.jwtManager.ValidateToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	// Upgrade HTTP to WebSocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	// Create client and register with hub
	client := ws.NewClient(h.hub, conn, claims.UserID, claims.Email)
	h.hub.Register(client)

	log.Printf("✅ WS Connected: UserID=%s", claims.UserID)

	// Start read/write pumps in goroutines
	go client.WritePump()
	go client.ReadPump(h.handleWSMessage)
}

// handleWSMessage processes incoming WebSocket messages from clients
func (h *WSHandler) handleWSMessage(client *ws.Client, event model.WSEvent) {
	switch event.Type {
	case model.WSEventNewMessage:
		h.handleNewMessage(client, event)

	case model.WSEventTyping, model.WSEventStopTyping:
		h.handleTyping(client, event)

	case model.WSEventMessageRead:
		h.handleMessageRead(client, event)

	// WebRTC signaling events are forwarded verbatim to the target
	case model.WSEventCallOffer, model.WSEventCallAnswer, model.WSEventCallICE, model.WSEventCallHangup:
		h.handleCallSignaling(client, event)

	default:
		log.Printf("Unknown WebSocket event type: %s", event.Type)
	}
}

// handleNewMessage processes a new chat message via WebSocket
func (h *WSHandler) handleNewMessage(client *ws.Client, event model.WSEvent) {
	payloadBytes, _ := json.Marshal(event.Payload)
	var payload struct {
		ConversationID uuid.UUID `json:"conversation_id"`
		Text           string    `json:"text"`
		Type           string    `json:"type"`
		AttachmentURL  string    `json:"attachment_url"`
	}
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		log.Printf("Error parsing new_message payload: %v", err)
		return
	}

	// SendMessage persists the message and fans it out to the members,
	// sender included via the echo below
	msg, err := h.chatService.SendMessage(payload.ConversationID, client.UserID, model.SendMessageRequest{
		Text:          payload.Text,
		Type:          model.MessageType(payload.Type),
		AttachmentURL: payload.AttachmentURL,
	})
	if err != nil {
		log.Printf("Error saving message: %v", err)
		return
	}

	// Echo to the sender's own connections so other tabs stay in sync
	h.hub.SendToUser(client.UserID, &model.WSEvent{
		Type:    model.WSEventNewMessage,
		Payload: msg,
	})
}

// handleTyping relays typing indicators to the other members
func (h *WSHandler) handleTyping(client *ws.Client, event model.WSEvent) {
	payloadBytes, _ := json.Marshal(event.Payload)
	var payload struct {
		ConversationID uuid.UUID `json:"conversation_id"`
	}
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return
	}

	memberIDs, _ := h.chatService.GetConversationMemberIDs(payload.ConversationID)

	typingEvent := &model.WSEvent{
		Type: event.Type,
		Payload: model.TypingEvent{
			ConversationID: payload.ConversationID,
			UserID:         client.UserID,
			Name:           client.Name,
		},
	}

	for _, memberID := range memberIDs {
		if memberID != client.UserID {
			h.hub.SendToUser(memberID, typingEvent)
		}
	}
}

// handleMessageRead processes read receipt events
func (h *WSHandler) handleMessageRead(client *ws.Client, event model.WSEvent) {
	payloadBytes, _ := json.Marshal(event.Payload)
	var payload struct {
		ConversationID uuid.UUID `json:"conversation_id"`
	}
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return
	}

	// MarkRead persists the receipt and notifies the other members
	_ = h.chatService.MarkRead(payload.ConversationID, client.UserID)
}

// handleCallSignaling forwards WebRTC signaling events to the target user
func (h *WSHandler) handleCallSignaling(client *ws.Client, event model.WSEvent) {
	payloadBytes, _ := json.Marshal(event.Payload)
	var payload struct {
		To uuid.UUID `json:"to"`
	}
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		log.Printf("Error parsing call signaling payload: %v", err)
		return
	}

	// Forward the event as-is to the target user
	h.hub.SendToUser(payload.To, &event)
}
