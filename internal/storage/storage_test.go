package storage

import (
	"testing"

	"github.com/floralens/floralens/internal/models"
)

func TestSessionStore(t *testing.T) {
	store := New()

	id := NewID()
	if id == "" {
		t.Fatal("Expected a non-empty id")
	}
	if other := NewID(); other == id {
		t.Error("Expected unique ids")
	}

	if _, exists := store.Get(id); exists {
		t.Error("Expected no session before Set")
	}

	session := &models.IdentifySession{ID: id, State: models.StateIdle}
	store.Set(id, session)

	got, exists := store.Get(id)
	if !exists {
		t.Fatal("Expected session after Set")
	}
	if got.ID != id {
		t.Errorf("Expected id %s, got %s", id, got.ID)
	}

	all := store.GetAll()
	if len(all) != 1 {
		t.Errorf("Expected 1 session, got %d", len(all))
	}

	store.Delete(id)
	if _, exists := store.Get(id); exists {
		t.Error("Expected no session after Delete")
	}
}
