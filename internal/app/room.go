package app

import (
	"sort"
	"sync"

	"github.com/guimilreu/quizz/internal/domain"
)

// Room is one isolated game session: a host, a roster of participants,
// the quiz being played, and the per-question answer and result logs.
// All fields behind mu are mutated only by GameService command handlers,
// which hold the lock for the full read-decide-mutate span of a command.
type Room struct {
	code     string
	quiz     domain.Quiz
	hostID   string
	hostName string

	mu      sync.Mutex
	state   domain.RoomState
	current int // question index, -1 before start

	// players is kept in join order; score-sorted views are derived.
	players []*domain.Participant

	answers map[int][]domain.Answer
	results map[int][]domain.PlayerResult

	// cancelPending stops whichever callback is currently scheduled for
	// this room (question countdown or post-game retention).
	cancelPending func()
	gameOverSent  bool
}

// NewRoom is exported for room stores that construct rooms against a
// freshly generated code.
func NewRoom(code string, quiz domain.Quiz, hostID, hostName string) *Room {
	return &Room{
		code:     code,
		quiz:     quiz,
		hostID:   hostID,
		hostName: hostName,
		state:    domain.StateWaiting,
		current:  -1,
		answers:  make(map[int][]domain.Answer),
		results:  make(map[int][]domain.PlayerResult),
	}
}

// Code returns the room's join code.
func (r *Room) Code() string {
	return r.code
}

func (r *Room) findPlayerLocked(id string) *domain.Participant {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) nameTakenLocked(name string) bool {
	for _, p := range r.players {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (r *Room) removePlayerLocked(id string) bool {
	for i, p := range r.players {
		if p.ID == id {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return true
		}
	}
	return false
}

// allAnsweredLocked reports whether every currently-present participant
// has answered the live question. An empty roster never counts as
// all-answered, so a question is not finalized against nobody.
func (r *Room) allAnsweredLocked() bool {
	if len(r.players) == 0 {
		return false
	}
	for _, p := range r.players {
		if !p.Answered {
			return false
		}
	}
	return true
}

// rosterLocked is the join-ordered roster view shared with clients.
func (r *Room) rosterLocked() []domain.PlayerInfo {
	roster := make([]domain.PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		roster = append(roster, domain.PlayerInfo{ID: p.ID, Name: p.Name, Score: p.Score})
	}
	return roster
}

// scoreboardLocked sorts the roster by descending score. The sort is
// stable over join order, which is the documented tie-break.
func (r *Room) scoreboardLocked() []domain.PlayerInfo {
	board := r.rosterLocked()
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].Score > board[j].Score
	})
	return board
}

func (r *Room) rankingLocked() []domain.RankedPlayer {
	board := r.scoreboardLocked()
	ranking := make([]domain.RankedPlayer, len(board))
	for i, entry := range board {
		ranking[i] = domain.RankedPlayer{ID: entry.ID, Name: entry.Name, Score: entry.Score, Rank: i + 1}
	}
	return ranking
}

// everyoneLocked lists every connection subscribed to this room, host
// included.
func (r *Room) everyoneLocked() []string {
	ids := make([]string, 0, len(r.players)+1)
	ids = append(ids, r.hostID)
	for _, p := range r.players {
		ids = append(ids, p.ID)
	}
	return ids
}

func (r *Room) playerIDsLocked() []string {
	ids := make([]string, 0, len(r.players))
	for _, p := range r.players {
		ids = append(ids, p.ID)
	}
	return ids
}

func (r *Room) cancelPendingLocked() {
	if r.cancelPending != nil {
		r.cancelPending()
		r.cancelPending = nil
	}
}
