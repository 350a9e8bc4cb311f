package domain

import "errors"

var (
	// ErrRoomNotFound is returned when an operation references a room code with no active room.
	ErrRoomNotFound = errors.New("room not found")
	// ErrGameAlreadyStarted is returned for joins (or re-starts) outside the waiting state.
	ErrGameAlreadyStarted = errors.New("game already started")
	// ErrNameTaken is returned when a display name is already present in the room.
	ErrNameTaken = errors.New("name already in use")
	// ErrEmptyName is returned when a join carries no display name.
	ErrEmptyName = errors.New("display name required")
	// ErrNotAuthorized is returned when a non-host attempts a host-only command.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrNotAcceptingAnswers is returned for answers submitted outside an active question.
	ErrNotAcceptingAnswers = errors.New("room is not accepting answers")
	// ErrDuplicateAnswer is returned for a second answer to the same question by the same player.
	ErrDuplicateAnswer = errors.New("answer already submitted for this question")
	// ErrNotInRoom is returned when a connection issues a command without being in any room.
	ErrNotInRoom = errors.New("not in a room")
	// ErrTooManyRooms is returned when the configured room cap is reached.
	ErrTooManyRooms = errors.New("room capacity exceeded")
	// ErrRoomFull is returned when the configured per-room player cap is reached.
	ErrRoomFull = errors.New("room is full")
	// ErrInvalidQuiz indicates a structurally malformed quiz document.
	ErrInvalidQuiz = errors.New("invalid quiz document")
)
