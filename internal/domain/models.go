package domain

// RoomState enumerates the lifecycle of a game session. A room never
// returns to StateWaiting once it has left it.
type RoomState string

const (
	StateWaiting  RoomState = "waiting"
	StatePlaying  RoomState = "playing"
	StateResults  RoomState = "results"
	StateFinished RoomState = "finished"
)

// Option is one possible answer of a question.
type Option struct {
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
}

// Question models an MCQ question with exactly one correct option,
// designated by index into Options.
type Question struct {
	Title              string   `json:"title"`
	Options            []Option `json:"options"`
	CorrectOptionIndex int      `json:"correctOptionIndex"`
}

// Quiz is the opaque quiz document supplied at room creation. It is
// immutable for the lifetime of the session.
type Quiz struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Validate performs the structural checks the gateway needs before
// trusting a quiz document that arrived over the wire.
func (q Quiz) Validate() error {
	if q.Title == "" || len(q.Questions) == 0 {
		return ErrInvalidQuiz
	}
	for _, question := range q.Questions {
		if len(question.Options) < 2 || len(question.Options) > 4 {
			return ErrInvalidQuiz
		}
		if question.CorrectOptionIndex < 0 || question.CorrectOptionIndex >= len(question.Options) {
			return ErrInvalidQuiz
		}
	}
	return nil
}

// Participant is a playable member of a room. The host is never a
// Participant. Score never decreases.
type Participant struct {
	ID       string
	Name     string
	Score    int
	Answered bool
}

// Answer records a single submission. ArrivalOrder is a logical
// sequence number within the question, not a wall-clock timestamp.
type Answer struct {
	PlayerID     string
	PlayerName   string
	OptionIndex  int
	ArrivalOrder int
}

// PlayerResult is the scored outcome of one answer.
type PlayerResult struct {
	PlayerID    string `json:"playerId"`
	PlayerName  string `json:"playerName"`
	OptionIndex int    `json:"optionIndex"`
	IsCorrect   bool   `json:"isCorrect"`
	Points      int    `json:"points"`
}
