package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/guimilreu/quizz/internal/app"
	"github.com/guimilreu/quizz/internal/domain"
)

// WSHandler upgrades HTTP requests to websockets and maps inbound
// commands onto the game service.
type WSHandler struct {
	service  *app.GameService
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, hub *Hub) *WSHandler {
	return &WSHandler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type createRoomPayload struct {
	Quiz     domain.Quiz `json:"quiz"`
	HostName string      `json:"hostName"`
}

type joinRoomPayload struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type submitAnswerPayload struct {
	OptionIndex int `json:"optionIndex"`
}

// ServeWS runs one connection: mint a connection id, register it with
// the hub, and pump inbound commands until the peer goes away. The
// deferred disconnect dissolves or trims the room as the state machine
// dictates.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	h.hub.Register(connID, conn)
	defer h.hub.Unregister(connID)
	defer h.service.Disconnect(connID)

	log.Printf("connection %s established", connID)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(connID, inbound)
	}

	log.Printf("connection %s closed", connID)
}

// dispatch routes one command. A fault inside a handler must never tear
// down the process or leak a half-applied mutation, so panics are
// caught here and surfaced as a generic error event.
func (h *WSHandler) dispatch(connID string, inbound inboundMessage) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("command %q from %s panicked: %v", inbound.Type, connID, rec)
			h.sendError(connID, "internal error")
		}
	}()

	var err error
	switch inbound.Type {
	case "create_room":
		var payload createRoomPayload
		if err = json.Unmarshal(inbound.Payload, &payload); err == nil {
			err = h.service.CreateRoom(connID, payload.Quiz, payload.HostName)
		}
	case "join_room":
		var payload joinRoomPayload
		if err = json.Unmarshal(inbound.Payload, &payload); err == nil {
			err = h.service.JoinRoom(connID, payload.RoomID, payload.PlayerName)
		}
	case "start_game":
		err = h.service.StartGame(connID)
	case "submit_answer":
		var payload submitAnswerPayload
		if err = json.Unmarshal(inbound.Payload, &payload); err == nil {
			err = h.service.SubmitAnswer(connID, payload.OptionIndex)
		}
	case "next_question":
		err = h.service.NextQuestion(connID)
	default:
		h.sendError(connID, "unsupported message type")
		return
	}

	if err != nil {
		h.sendError(connID, err.Error())
	}
}

func (h *WSHandler) sendError(connID, message string) {
	h.hub.Send(connID, domain.Event{
		Type:    domain.EventError,
		Payload: domain.ErrorPayload{Message: message},
	})
}
