package domain

// Event is the outbound wire envelope. Payload is one of the typed
// payload structs below.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Outbound event types.
const (
	EventRoomCreated     = "room_created"
	EventRoomJoined      = "room_joined"
	EventPlayerJoined    = "player_joined"
	EventPlayerLeft      = "player_left"
	EventPlayerAnswered  = "player_answered"
	EventQuestion        = "question"
	EventAnswerConfirmed = "answer_confirmed"
	EventQuestionResults = "question_results"
	EventGameOver        = "game_over"
	EventRoomClosed      = "room_closed"
	EventError           = "error"
)

// PlayerInfo is the roster view of a participant shared with clients.
type PlayerInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type RoomCreatedPayload struct {
	RoomID string `json:"roomId"`
	Quiz   Quiz   `json:"quiz"`
}

type RoomJoinedPayload struct {
	RoomID    string       `json:"roomId"`
	QuizTitle string       `json:"quizTitle"`
	HostName  string       `json:"hostName"`
	Players   []PlayerInfo `json:"players"`
}

type PlayerJoinedPayload struct {
	PlayerID   string       `json:"playerId"`
	PlayerName string       `json:"playerName"`
	Players    []PlayerInfo `json:"players"`
}

type PlayerLeftPayload struct {
	PlayerID string       `json:"playerId"`
	Players  []PlayerInfo `json:"players"`
}

type PlayerAnsweredPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// SanitizedOption is an option as shown to players: never carries the
// correct-answer indicator.
type SanitizedOption struct {
	ID    int    `json:"id"`
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
}

// SanitizedQuestion is the player-facing view of the current question.
type SanitizedQuestion struct {
	Title   string            `json:"title"`
	Options []SanitizedOption `json:"options"`
}

type QuestionPayload struct {
	QuestionData   SanitizedQuestion `json:"questionData"`
	QuestionNumber int               `json:"questionNumber"`
	TotalQuestions int               `json:"totalQuestions"`
	TimeLimit      int               `json:"timeLimit"` // seconds
}

type QuestionResultsPayload struct {
	QuestionNumber     int            `json:"questionNumber"`
	CorrectOptionIndex int            `json:"correctOptionIndex"`
	CorrectOptionText  string         `json:"correctOptionText"`
	PlayerResults      []PlayerResult `json:"playerResults"`
	PlayerScores       []PlayerInfo   `json:"playerScores"`
}

// RankedPlayer is one row of the final ranking, 1-based rank.
type RankedPlayer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Rank  int    `json:"rank"`
}

type GameOverPayload struct {
	Ranking        []RankedPlayer `json:"ranking"`
	TotalQuestions int            `json:"totalQuestions"`
}

type RoomClosedPayload struct {
	Message string `json:"message"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// Sanitize strips the correct-answer designation from a question so it
// can be sent to players while a question is live.
func Sanitize(q Question) SanitizedQuestion {
	options := make([]SanitizedOption, len(q.Options))
	for i, opt := range q.Options {
		options[i] = SanitizedOption{ID: i, Text: opt.Text, Image: opt.Image}
	}
	return SanitizedQuestion{Title: q.Title, Options: options}
}
