package service

import (
	"testing"
	"time"

	"github.com/veilduel/veilduel-backend/internal/battle"
)

func TestAbandonStaleMatches(t *testing.T) {
	repo := newMockRepo()
	m := seedMatch(repo)

	closed, err := AbandonStaleMatches(repo, 30*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closed != 1 {
		t.Fatalf("expected 1 closed match, got %d", closed)
	}
	stored := repo.matches[m.ID]
	if stored.Status != battle.StatusAbandoned {
		t.Fatalf("match not abandoned: %s", stored.Status)
	}
	if stored.WinnerID != "" {
		t.Fatalf("abandonment must not pick a winner")
	}
	if stored.CompletedAt == nil {
		t.Fatalf("completed_at not set")
	}
}
