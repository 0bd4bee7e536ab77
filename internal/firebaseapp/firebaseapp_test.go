package firebaseapp

import (
	"context"
	"testing"
)

func TestProjectIDFromKey(t *testing.T) {
	id, err := ProjectIDFromKey(`{"type":"service_account","project_id":"cartify-dev"}`)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if id != "cartify-dev" {
		t.Errorf("project id = %q, want %q", id, "cartify-dev")
	}
}

func TestProjectIDFromKey_InvalidJSON(t *testing.T) {
	if _, err := ProjectIDFromKey("not json"); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestNew_InvalidKey_ReturnsError(t *testing.T) {
	if _, err := New(context.Background(), "{", "", false); err == nil {
		t.Fatal("expected error for invalid key")
	}
}

func TestNew_NoProjectID_ReturnsError(t *testing.T) {
	if _, err := New(context.Background(), `{"type":"service_account"}`, "", false); err == nil {
		t.Fatal("expected error when project id is unavailable")
	}
}

func TestClients_Close_NilSafe(t *testing.T) {
	var c *Clients
	if err := c.Close(); err != nil {
		t.Errorf("Close on nil should be no-op, got %v", err)
	}
	if err := (&Clients{}).Close(); err != nil {
		t.Errorf("Close without firestore should be no-op, got %v", err)
	}
}
