package app

import (
	"log"
	"time"

	"github.com/guimilreu/quizz/internal/domain"
)

// RoomRepository abstracts how active rooms are stored (in-memory,
// Redis-marked, etc). Create generates a unique room code and invokes
// build with it.
type RoomRepository interface {
	Create(build func(code string) *Room) (*Room, error)
	Get(code string) (*Room, bool)
	Delete(code string)
}

// Binding is the connection registry's non-owning back-reference from a
// connection to its room membership and role.
type Binding struct {
	RoomCode string
	IsHost   bool
	Name     string
}

// ConnectionRegistry resolves connection ids to their room binding.
type ConnectionRegistry interface {
	Bind(connID string, b Binding)
	Lookup(connID string) (Binding, bool)
	Unbind(connID string)
}

// Gateway delivers a single event to a single connection. Delivery is
// at-most-once; a connection that is gone at publish time misses the
// event.
type Gateway interface {
	Send(connID string, event domain.Event)
}

// Config tunes the game session state machine.
type Config struct {
	// QuestionTime is the per-question answer window.
	QuestionTime time.Duration
	// Retention keeps a finished room readable before disposal.
	Retention time.Duration
	// MaxPlayers caps participants per room; 0 means unlimited.
	MaxPlayers int
}

// GameService owns every game session transition: room creation and
// joining, question dispatch, answer intake, completion detection, and
// scoring. Each command handler locks the target room, validates fully,
// mutates, collects the events to emit, and only publishes after the
// lock is released.
type GameService struct {
	rooms     RoomRepository
	registry  ConnectionRegistry
	gateway   Gateway
	scheduler Scheduler
	cfg       Config
}

func NewGameService(rooms RoomRepository, registry ConnectionRegistry, gateway Gateway, scheduler Scheduler, cfg Config) *GameService {
	if cfg.QuestionTime <= 0 {
		cfg.QuestionTime = 60 * time.Second
	}
	if cfg.Retention <= 0 {
		cfg.Retention = time.Minute
	}
	return &GameService{
		rooms:     rooms,
		registry:  registry,
		gateway:   gateway,
		scheduler: scheduler,
		cfg:       cfg,
	}
}

// targeted pairs an event with a single recipient; command handlers
// accumulate these under the room lock and flush them afterwards.
type targeted struct {
	connID string
	event  domain.Event
}

type batch struct {
	msgs []targeted
}

func (b *batch) add(event domain.Event, connIDs ...string) {
	for _, id := range connIDs {
		b.msgs = append(b.msgs, targeted{connID: id, event: event})
	}
}

func (s *GameService) flush(b *batch) {
	for _, msg := range b.msgs {
		s.gateway.Send(msg.connID, msg.event)
	}
}

// CreateRoom registers a new room in the waiting state with the
// invoking connection as host and confirms it with room_created.
func (s *GameService) CreateRoom(connID string, quiz domain.Quiz, hostName string) error {
	if err := quiz.Validate(); err != nil {
		return err
	}

	room, err := s.rooms.Create(func(code string) *Room {
		return NewRoom(code, quiz, connID, hostName)
	})
	if err != nil {
		return err
	}

	s.registry.Bind(connID, Binding{RoomCode: room.code, IsHost: true, Name: hostName})
	s.gateway.Send(connID, domain.Event{
		Type:    domain.EventRoomCreated,
		Payload: domain.RoomCreatedPayload{RoomID: room.code, Quiz: quiz},
	})
	log.Printf("room %s created by host %s", room.code, connID)
	return nil
}

// JoinRoom adds a participant to a waiting room. The joiner receives
// the full room context; everyone already present receives the updated
// roster.
func (s *GameService) JoinRoom(connID, code, playerName string) error {
	if playerName == "" {
		return domain.ErrEmptyName
	}
	room, ok := s.rooms.Get(code)
	if !ok {
		return domain.ErrRoomNotFound
	}

	var b batch
	room.mu.Lock()
	if room.state != domain.StateWaiting {
		room.mu.Unlock()
		return domain.ErrGameAlreadyStarted
	}
	if room.nameTakenLocked(playerName) {
		room.mu.Unlock()
		return domain.ErrNameTaken
	}
	if s.cfg.MaxPlayers > 0 && len(room.players) >= s.cfg.MaxPlayers {
		room.mu.Unlock()
		return domain.ErrRoomFull
	}

	room.players = append(room.players, &domain.Participant{ID: connID, Name: playerName})
	roster := room.rosterLocked()
	b.add(domain.Event{
		Type:    domain.EventPlayerJoined,
		Payload: domain.PlayerJoinedPayload{PlayerID: connID, PlayerName: playerName, Players: roster},
	}, room.everyoneLocked()...)
	b.add(domain.Event{
		Type: domain.EventRoomJoined,
		Payload: domain.RoomJoinedPayload{
			RoomID:    room.code,
			QuizTitle: room.quiz.Title,
			HostName:  room.hostName,
			Players:   roster,
		},
	}, connID)
	room.mu.Unlock()

	s.registry.Bind(connID, Binding{RoomCode: room.code, Name: playerName})
	s.flush(&b)
	log.Printf("player %s joined room %s", playerName, room.code)
	return nil
}

// StartGame moves a waiting room into its first question. Host only.
func (s *GameService) StartGame(connID string) error {
	room, _, err := s.hostRoom(connID)
	if err != nil {
		return err
	}

	var b batch
	room.mu.Lock()
	if room.state != domain.StateWaiting {
		room.mu.Unlock()
		return domain.ErrGameAlreadyStarted
	}
	room.state = domain.StatePlaying
	room.current = 0
	room.answers = make(map[int][]domain.Answer)
	room.results = make(map[int][]domain.PlayerResult)
	s.dispatchQuestionLocked(room, &b)
	room.mu.Unlock()

	s.flush(&b)
	log.Printf("game started in room %s", room.code)
	return nil
}

// SubmitAnswer records a participant's answer for the live question,
// acknowledges the submitter, and tells the host-side view who answered
// without revealing the choice. When the last participant answers, the
// question is finalized immediately.
func (s *GameService) SubmitAnswer(connID string, optionIndex int) error {
	binding, ok := s.registry.Lookup(connID)
	if !ok {
		return domain.ErrNotInRoom
	}
	if binding.IsHost {
		return domain.ErrNotAuthorized
	}
	room, ok := s.rooms.Get(binding.RoomCode)
	if !ok {
		return domain.ErrRoomNotFound
	}

	var b batch
	room.mu.Lock()
	if room.state != domain.StatePlaying {
		room.mu.Unlock()
		return domain.ErrNotAcceptingAnswers
	}
	player := room.findPlayerLocked(connID)
	if player == nil {
		room.mu.Unlock()
		return domain.ErrNotInRoom
	}
	if player.Answered {
		room.mu.Unlock()
		return domain.ErrDuplicateAnswer
	}

	question := room.current
	room.answers[question] = append(room.answers[question], domain.Answer{
		PlayerID:     connID,
		PlayerName:   player.Name,
		OptionIndex:  optionIndex,
		ArrivalOrder: len(room.answers[question]),
	})
	player.Answered = true

	b.add(domain.Event{Type: domain.EventAnswerConfirmed}, connID)
	b.add(domain.Event{
		Type:    domain.EventPlayerAnswered,
		Payload: domain.PlayerAnsweredPayload{PlayerID: connID, PlayerName: player.Name},
	}, room.hostID)

	if room.allAnsweredLocked() {
		s.finalizeQuestionLocked(room, &b)
	}
	room.mu.Unlock()

	s.flush(&b)
	return nil
}

// NextQuestion is the host's manual advance. From an active question it
// forces finalization; from the results screen it moves to the next
// question or ends the game.
func (s *GameService) NextQuestion(connID string) error {
	room, _, err := s.hostRoom(connID)
	if err != nil {
		return err
	}

	var b batch
	room.mu.Lock()
	switch room.state {
	case domain.StatePlaying:
		s.finalizeQuestionLocked(room, &b)
	case domain.StateResults:
		room.current++
		if room.current >= len(room.quiz.Questions) {
			s.finishGameLocked(room, &b)
		} else {
			room.state = domain.StatePlaying
			s.dispatchQuestionLocked(room, &b)
		}
	default:
		// waiting or finished: nothing to advance.
	}
	room.mu.Unlock()

	s.flush(&b)
	return nil
}

// Disconnect handles a connection going away in any state. A departing
// host dissolves the room immediately; a departing participant is
// removed from the roster, which may complete the all-answered check.
func (s *GameService) Disconnect(connID string) {
	binding, ok := s.registry.Lookup(connID)
	if !ok {
		return
	}
	s.registry.Unbind(connID)

	room, ok := s.rooms.Get(binding.RoomCode)
	if !ok {
		return
	}

	if binding.IsHost {
		s.closeRoom(room, "host closed the room")
		return
	}

	var b batch
	room.mu.Lock()
	if room.removePlayerLocked(connID) {
		b.add(domain.Event{
			Type:    domain.EventPlayerLeft,
			Payload: domain.PlayerLeftPayload{PlayerID: connID, Players: room.rosterLocked()},
		}, room.everyoneLocked()...)

		if room.state == domain.StatePlaying && room.allAnsweredLocked() {
			s.finalizeQuestionLocked(room, &b)
		}
	}
	room.mu.Unlock()

	s.flush(&b)
	log.Printf("connection %s left room %s", connID, room.code)
}

// hostRoom resolves a host-only command to its room.
func (s *GameService) hostRoom(connID string) (*Room, Binding, error) {
	binding, ok := s.registry.Lookup(connID)
	if !ok {
		return nil, Binding{}, domain.ErrNotInRoom
	}
	if !binding.IsHost {
		return nil, binding, domain.ErrNotAuthorized
	}
	room, ok := s.rooms.Get(binding.RoomCode)
	if !ok {
		return nil, binding, domain.ErrRoomNotFound
	}
	return room, binding, nil
}

// dispatchQuestionLocked sends the sanitized current question to the
// whole room and arms the countdown. Any previously armed timer is
// replaced. If the question sequence is exhausted, the game ends
// instead.
func (s *GameService) dispatchQuestionLocked(room *Room, b *batch) {
	if room.current >= len(room.quiz.Questions) {
		s.finishGameLocked(room, b)
		return
	}

	for _, p := range room.players {
		p.Answered = false
	}

	question := room.quiz.Questions[room.current]
	b.add(domain.Event{
		Type: domain.EventQuestion,
		Payload: domain.QuestionPayload{
			QuestionData:   domain.Sanitize(question),
			QuestionNumber: room.current + 1,
			TotalQuestions: len(room.quiz.Questions),
			TimeLimit:      int(s.cfg.QuestionTime / time.Second),
		},
	}, room.everyoneLocked()...)

	room.cancelPendingLocked()
	code, index := room.code, room.current
	room.cancelPending = s.scheduler.Schedule(s.cfg.QuestionTime, func() {
		s.questionTimeout(code, index)
	})
}

// questionTimeout is the countdown callback. The room may have advanced
// (or died) since it was armed, so it re-checks state and question
// index and is a no-op when stale.
func (s *GameService) questionTimeout(code string, index int) {
	room, ok := s.rooms.Get(code)
	if !ok {
		return
	}

	var b batch
	room.mu.Lock()
	if room.state != domain.StatePlaying || room.current != index {
		room.mu.Unlock()
		return
	}
	log.Printf("room %s question %d timed out", code, index+1)
	s.finalizeQuestionLocked(room, &b)
	room.mu.Unlock()

	s.flush(&b)
}

// finalizeQuestionLocked scores the current question's answer log,
// accumulates participant scores, and broadcasts the results event with
// the updated leaderboard. Participants who never answered are simply
// absent from the results and score nothing.
func (s *GameService) finalizeQuestionLocked(room *Room, b *batch) {
	room.cancelPendingLocked()
	room.state = domain.StateResults

	question := room.quiz.Questions[room.current]
	results := ScoreQuestion(question.CorrectOptionIndex, room.answers[room.current])
	room.results[room.current] = results

	for _, result := range results {
		if result.Points == 0 {
			continue
		}
		if p := room.findPlayerLocked(result.PlayerID); p != nil {
			p.Score += result.Points
		}
	}

	b.add(domain.Event{
		Type: domain.EventQuestionResults,
		Payload: domain.QuestionResultsPayload{
			QuestionNumber:     room.current + 1,
			CorrectOptionIndex: question.CorrectOptionIndex,
			CorrectOptionText:  question.Options[question.CorrectOptionIndex].Text,
			PlayerResults:      results,
			PlayerScores:       room.scoreboardLocked(),
		},
	}, room.everyoneLocked()...)
}

// finishGameLocked broadcasts the final ranking exactly once and keeps
// the room readable for the retention window before disposal.
func (s *GameService) finishGameLocked(room *Room, b *batch) {
	if room.gameOverSent {
		return
	}
	room.cancelPendingLocked()
	room.state = domain.StateFinished
	room.gameOverSent = true

	b.add(domain.Event{
		Type: domain.EventGameOver,
		Payload: domain.GameOverPayload{
			Ranking:        room.rankingLocked(),
			TotalQuestions: len(room.quiz.Questions),
		},
	}, room.everyoneLocked()...)

	code := room.code
	room.cancelPending = s.scheduler.Schedule(s.cfg.Retention, func() {
		s.expireRoom(code)
	})
	log.Printf("game finished in room %s", code)
}

// expireRoom disposes a finished room after its retention window.
func (s *GameService) expireRoom(code string) {
	room, ok := s.rooms.Get(code)
	if !ok {
		return
	}

	room.mu.Lock()
	if room.state != domain.StateFinished {
		room.mu.Unlock()
		return
	}
	members := room.everyoneLocked()
	room.mu.Unlock()

	s.rooms.Delete(code)
	for _, id := range members {
		s.registry.Unbind(id)
	}
	log.Printf("room %s expired after retention", code)
}

// closeRoom dissolves a room immediately, notifying every remaining
// participant. Used when the host disconnects.
func (s *GameService) closeRoom(room *Room, message string) {
	var b batch
	room.mu.Lock()
	room.cancelPendingLocked()
	members := room.playerIDsLocked()
	b.add(domain.Event{
		Type:    domain.EventRoomClosed,
		Payload: domain.RoomClosedPayload{Message: message},
	}, members...)
	room.mu.Unlock()

	s.flush(&b)
	s.rooms.Delete(room.code)
	for _, id := range members {
		s.registry.Unbind(id)
	}
	log.Printf("room %s closed: %s", room.code, message)
}
