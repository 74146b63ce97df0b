package service

import (
	"errors"
	"testing"

	"github.com/veilduel/veilduel-backend/internal/battle"
	"github.com/veilduel/veilduel-backend/internal/commitment"
)

func commitFor(t *testing.T, repo *mockRepo, code string, round int, playerID string, action battle.Action) {
	t.Helper()
	salt, err := commitment.NewSalt()
	if err != nil {
		t.Fatalf("salt: %v", err)
	}
	if _, err := CommitAction(repo, code, round, playerID, commitment.Commit(action, salt), salt); err != nil {
		t.Fatalf("commit %s for %s: %v", action, playerID, err)
	}
}

func TestRevealAction_VerifiesAgainstCommitment(t *testing.T) {
	repo := newMockRepo()
	m := seedMatch(repo)
	commitFor(t, repo, m.JoinCode, 1, "alice", battle.ActionCounter)
	commitFor(t, repo, m.JoinCode, 1, "bob", battle.ActionBlock)

	rd, err := RevealAction(repo, m.JoinCode, 1, "alice", battle.ActionCounter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rd.Player1Action != battle.ActionCounter || rd.Player1RevealedAt == nil {
		t.Fatalf("reveal not recorded: %+v", rd)
	}
}

func TestRevealAction_RequiresOpponentCommit(t *testing.T) {
	repo := newMockRepo()
	m := seedMatch(repo)
	commitFor(t, repo, m.JoinCode, 1, "alice", battle.ActionAttack)

	// Alice cannot reveal while bob is still free to choose: her action
	// would otherwise be readable before his commitment is pinned down.
	if _, err := RevealAction(repo, m.JoinCode, 1, "alice", battle.ActionAttack); !errors.Is(err, ErrNotAllCommitted) {
		t.Fatalf("expected ErrNotAllCommitted, got %v", err)
	}
	rd := repo.rounds[roundKey(m.ID, 1)]
	if rd.Player1Action != battle.ActionNone || rd.Player1RevealedAt != nil {
		t.Fatalf("rejected reveal must leave the turn untouched: %+v", rd)
	}

	commitFor(t, repo, m.JoinCode, 1, "bob", battle.ActionBlock)
	if _, err := RevealAction(repo, m.JoinCode, 1, "alice", battle.ActionAttack); err != nil {
		t.Fatalf("reveal after both committed: %v", err)
	}
}

func TestRevealAction_MismatchKeepsCommitmentOpen(t *testing.T) {
	repo := newMockRepo()
	m := seedMatch(repo)
	commitFor(t, repo, m.JoinCode, 1, "alice", battle.ActionAttack)
	commitFor(t, repo, m.JoinCode, 1, "bob", battle.ActionBlock)

	if _, err := RevealAction(repo, m.JoinCode, 1, "alice", battle.ActionHeal); !errors.Is(err, ErrCommitMismatch) {
		t.Fatalf("expected ErrCommitMismatch, got %v", err)
	}
	// The player can recover by committing again and revealing the
	// action that actually matches.
	commitFor(t, repo, m.JoinCode, 1, "alice", battle.ActionHeal)
	if _, err := RevealAction(repo, m.JoinCode, 1, "alice", battle.ActionHeal); err != nil {
		t.Fatalf("recovery reveal failed: %v", err)
	}
}

func TestRevealAction_DuplicateRevealIsIdempotent(t *testing.T) {
	repo := newMockRepo()
	m := seedMatch(repo)
	commitFor(t, repo, m.JoinCode, 1, "alice", battle.ActionAttack)
	commitFor(t, repo, m.JoinCode, 1, "bob", battle.ActionBlock)

	if _, err := RevealAction(repo, m.JoinCode, 1, "bob", battle.ActionBlock); err != nil {
		t.Fatalf("first reveal: %v", err)
	}
	if _, err := RevealAction(repo, m.JoinCode, 1, "bob", battle.ActionBlock); err != nil {
		t.Fatalf("retried reveal must succeed: %v", err)
	}
	if _, err := RevealAction(repo, m.JoinCode, 1, "bob", battle.ActionAttack); !errors.Is(err, ErrAlreadyRevealed) {
		t.Fatalf("expected ErrAlreadyRevealed for a different action, got %v", err)
	}
}

func TestRevealAction_Guards(t *testing.T) {
	repo := newMockRepo()
	m := seedMatch(repo)

	if _, err := RevealAction(repo, m.JoinCode, 1, "alice", battle.Action("fireball")); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
	if _, err := RevealAction(repo, m.JoinCode, 1, "alice", battle.ActionAttack); !errors.Is(err, ErrNoCommitment) {
		t.Fatalf("expected ErrNoCommitment, got %v", err)
	}
}
