package memory

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/guimilreu/quizz/internal/app"
	"github.com/guimilreu/quizz/internal/domain"
)

var codePattern = regexp.MustCompile(`^[A-HJ-NP-Z2-9]{6}$`)

func buildRoom(code string) *app.Room {
	return app.NewRoom(code, domain.Quiz{Title: "t"}, "host", "Host")
}

func TestRoomStoreLifecycle(t *testing.T) {
	store := NewRoomStore(0)

	room, err := store.Create(buildRoom)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !codePattern.MatchString(room.Code()) {
		t.Fatalf("code %q outside the unambiguous alphabet", room.Code())
	}

	if _, ok := store.Get(room.Code()); !ok {
		t.Fatalf("expected room present")
	}

	store.Delete(room.Code())
	if _, ok := store.Get(room.Code()); ok {
		t.Fatalf("expected room removed")
	}
	store.Delete(room.Code()) // idempotent
}

func TestRoomStoreCaseInsensitiveLookup(t *testing.T) {
	store := NewRoomStore(0)
	room, err := store.Create(buildRoom)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	typed := " " + strings.ToLower(room.Code()) + " "
	if _, ok := store.Get(typed); !ok {
		t.Fatalf("expected lookup of %q to find room %s", typed, room.Code())
	}
}

func TestRoomStoreGeneratesUniqueCodes(t *testing.T) {
	store := NewRoomStore(0)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		room, err := store.Create(buildRoom)
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if seen[room.Code()] {
			t.Fatalf("duplicate code %s", room.Code())
		}
		seen[room.Code()] = true
	}
	if store.Len() != 200 {
		t.Fatalf("expected 200 rooms, got %d", store.Len())
	}
}

func TestRoomStoreCapacity(t *testing.T) {
	store := NewRoomStore(1)
	if _, err := store.Create(buildRoom); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Create(buildRoom); !errors.Is(err, domain.ErrTooManyRooms) {
		t.Fatalf("expected ErrTooManyRooms, got %v", err)
	}
}
