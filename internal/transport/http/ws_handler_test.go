package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/guimilreu/quizz/internal/app"
	"github.com/guimilreu/quizz/internal/domain"
	"github.com/guimilreu/quizz/internal/infra/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.RoomStore) {
	t.Helper()
	store := memory.NewRoomStore(0)
	hub := NewHub()
	service := app.NewGameService(store, memory.NewConnectionRegistry(), hub, app.TimerScheduler{}, app.Config{
		QuestionTime: time.Minute,
		Retention:    time.Minute,
	})
	wsHandler := NewWSHandler(service, hub)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.HandleFunc("/qr", QRHandler(store, "http://quiz.test"))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, store
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readNext(t *testing.T, conn *websocket.Conn, expect string) map[string]any {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (payload %v)", expect, msg.Type, msg.Payload)
	}
	return msg.Payload
}

func sampleQuizJSON() map[string]any {
	return map[string]any{
		"title": "Capitals",
		"questions": []map[string]any{
			{
				"title": "Capital of France?",
				"options": []map[string]any{
					{"text": "Lyon"}, {"text": "Paris"},
				},
				"correctOptionIndex": 1,
			},
		},
	}
}

func TestWebSocketGameFlow(t *testing.T) {
	server, _ := newTestServer(t)

	host := dial(t, server)
	if err := host.WriteJSON(map[string]any{
		"type":    "create_room",
		"payload": map[string]any{"quiz": sampleQuizJSON(), "hostName": "Quizmaster"},
	}); err != nil {
		t.Fatalf("write create_room: %v", err)
	}

	created := readNext(t, host, domain.EventRoomCreated)
	code, _ := created["roomId"].(string)
	if len(code) != 6 {
		t.Fatalf("expected 6-char room code, got %q", code)
	}

	player := dial(t, server)
	if err := player.WriteJSON(map[string]any{
		"type":    "join_room",
		"payload": map[string]any{"roomId": code, "playerName": "Alice"},
	}); err != nil {
		t.Fatalf("write join_room: %v", err)
	}

	readNext(t, player, domain.EventPlayerJoined)
	joined := readNext(t, player, domain.EventRoomJoined)
	if joined["quizTitle"] != "Capitals" || joined["hostName"] != "Quizmaster" {
		t.Fatalf("unexpected room context: %v", joined)
	}
	readNext(t, host, domain.EventPlayerJoined)

	if err := host.WriteJSON(map[string]any{"type": "start_game"}); err != nil {
		t.Fatalf("write start_game: %v", err)
	}

	question := readNext(t, player, domain.EventQuestion)
	questionData, _ := question["questionData"].(map[string]any)
	if questionData["title"] != "Capital of France?" {
		t.Fatalf("unexpected question: %v", questionData)
	}
	if _, leaked := questionData["correctOptionIndex"]; leaked {
		t.Fatalf("sanitized question leaked the correct option: %v", questionData)
	}
	readNext(t, host, domain.EventQuestion)

	if err := player.WriteJSON(map[string]any{
		"type":    "submit_answer",
		"payload": map[string]any{"optionIndex": 1},
	}); err != nil {
		t.Fatalf("write submit_answer: %v", err)
	}

	readNext(t, player, domain.EventAnswerConfirmed)
	readNext(t, host, domain.EventPlayerAnswered)

	// Single player answered, so the question finalizes immediately.
	results := readNext(t, player, domain.EventQuestionResults)
	if results["correctOptionText"] != "Paris" {
		t.Fatalf("unexpected results: %v", results)
	}
	readNext(t, host, domain.EventQuestionResults)

	if err := host.WriteJSON(map[string]any{"type": "next_question"}); err != nil {
		t.Fatalf("write next_question: %v", err)
	}
	over := readNext(t, player, domain.EventGameOver)
	ranking, _ := over["ranking"].([]any)
	if len(ranking) != 1 {
		t.Fatalf("expected 1 ranked player, got %v", over)
	}
}

func TestWebSocketErrorsGoToSenderOnly(t *testing.T) {
	server, _ := newTestServer(t)

	conn := dial(t, server)
	if err := conn.WriteJSON(map[string]any{
		"type":    "join_room",
		"payload": map[string]any{"roomId": "ZZZZZZ", "playerName": "Alice"},
	}); err != nil {
		t.Fatalf("write join_room: %v", err)
	}
	payload := readNext(t, conn, domain.EventError)
	if payload["message"] != domain.ErrRoomNotFound.Error() {
		t.Fatalf("unexpected error payload: %v", payload)
	}

	if err := conn.WriteJSON(map[string]any{"type": "nonsense"}); err != nil {
		t.Fatalf("write unknown type: %v", err)
	}
	readNext(t, conn, domain.EventError)
}

func TestQRHandler(t *testing.T) {
	server, store := newTestServer(t)

	room, err := store.Create(func(code string) *app.Room {
		return app.NewRoom(code, domain.Quiz{Title: "t"}, "host", "Host")
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	resp, err := http.Get(server.URL + "/qr?room=" + room.Code())
	if err != nil {
		t.Fatalf("get qr: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("expected PNG response, got %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	resp, err = http.Get(server.URL + "/qr?room=ZZZZZZ")
	if err != nil {
		t.Fatalf("get qr: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown room, got %d", resp.StatusCode)
	}
}
