package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guimilreu/quizz/internal/app"
	"github.com/guimilreu/quizz/internal/infra/memory"
)

// RoomStore is a Redis-aware implementation of app.RoomRepository.
// Notes:
//   - Rooms themselves stay in process memory; game state is never
//     persisted across restarts.
//   - Redis holds best-effort liveness markers per room code, useful
//     for dashboards and for reserving codes across a future pool of
//     coordinators.
type RoomStore struct {
	inner  *memory.RoomStore
	client *redis.Client
	ttl    time.Duration
}

func NewRoomStore(client *redis.Client, ttl time.Duration, maxRooms int) *RoomStore {
	return &RoomStore{
		inner:  memory.NewRoomStore(maxRooms),
		client: client,
		ttl:    ttl,
	}
}

func (s *RoomStore) Create(build func(code string) *app.Room) (*app.Room, error) {
	room, err := s.inner.Create(build)
	if err != nil {
		return nil, err
	}
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(room.Code()), "1", s.ttl).Err()
	return room, nil
}

func (s *RoomStore) Get(code string) (*app.Room, bool) {
	return s.inner.Get(code)
}

func (s *RoomStore) Delete(code string) {
	s.inner.Delete(code)
	_ = s.client.Del(context.Background(), s.key(memory.NormalizeCode(code))).Err()
}

func (s *RoomStore) key(code string) string {
	return "quiz:room:" + code
}
