package memory

import (
	"crypto/rand"
	"strings"
	"sync"

	"github.com/guimilreu/quizz/internal/app"
	"github.com/guimilreu/quizz/internal/domain"
)

// codeAlphabet avoids 0/O and 1/I so codes survive being read aloud or
// typed from a projector.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

// RoomStore is the in-memory implementation of app.RoomRepository. It
// owns room code generation: codes are crypto-random, fixed length, and
// checked for collisions against live rooms.
type RoomStore struct {
	mu       sync.RWMutex
	rooms    map[string]*app.Room
	maxRooms int
}

// NewRoomStore builds a store capped at maxRooms concurrent rooms;
// 0 means unlimited.
func NewRoomStore(maxRooms int) *RoomStore {
	return &RoomStore{
		rooms:    make(map[string]*app.Room),
		maxRooms: maxRooms,
	}
}

func (s *RoomStore) Create(build func(code string) *app.Room) (*app.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxRooms > 0 && len(s.rooms) >= s.maxRooms {
		return nil, domain.ErrTooManyRooms
	}

	for {
		code := newRoomCode()
		if _, exists := s.rooms[code]; exists {
			continue
		}
		room := build(code)
		s.rooms[code] = room
		return room, nil
	}
}

func (s *RoomStore) Get(code string) (*app.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[NormalizeCode(code)]
	return room, ok
}

// Delete removes the room. Idempotent.
func (s *RoomStore) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, NormalizeCode(code))
}

// Len reports the number of active rooms.
func (s *RoomStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// NormalizeCode maps user-typed input onto the stored form: trimmed and
// upper-cased.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func newRoomCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}
	out := make([]byte, codeLength)
	for i := range out {
		out[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return string(out)
}
