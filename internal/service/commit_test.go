package service

import (
	"errors"
	"testing"

	"github.com/veilduel/veilduel-backend/internal/battle"
	"github.com/veilduel/veilduel-backend/internal/commitment"
)

func TestCommitAction_StoresHashAndSalt(t *testing.T) {
	repo := newMockRepo()
	m := seedMatch(repo)

	salt, _ := commitment.NewSalt()
	hash := commitment.Commit(battle.ActionAttack, salt)

	rd, err := CommitAction(repo, m.JoinCode, 1, "alice", hash, salt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rd.Player1ActionCommit != hash || rd.Player1Salt != salt {
		t.Fatalf("commitment not stored: %+v", rd)
	}
	if rd.Player1CommittedAt == nil {
		t.Fatalf("committed_at not set")
	}
	if rd.Player2ActionCommit != "" {
		t.Fatalf("opponent slot must stay empty")
	}
}

func TestCommitAction_RecommitBeforeRevealOverwrites(t *testing.T) {
	repo := newMockRepo()
	m := seedMatch(repo)

	salt1, _ := commitment.NewSalt()
	if _, err := CommitAction(repo, m.JoinCode, 1, "alice", commitment.Commit(battle.ActionAttack, salt1), salt1); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	salt2, _ := commitment.NewSalt()
	hash2 := commitment.Commit(battle.ActionBlock, salt2)
	rd, err := CommitAction(repo, m.JoinCode, 1, "alice", hash2, salt2)
	if err != nil {
		t.Fatalf("re-commit: %v", err)
	}
	if rd.Player1ActionCommit != hash2 || rd.Player1Salt != salt2 {
		t.Fatalf("re-commit did not overwrite")
	}
}

func TestCommitAction_LockedAfterOwnReveal(t *testing.T) {
	repo := newMockRepo()
	m := seedMatch(repo)

	commitFor(t, repo, m.JoinCode, 1, "alice", battle.ActionAttack)
	commitFor(t, repo, m.JoinCode, 1, "bob", battle.ActionBlock)
	if _, err := RevealAction(repo, m.JoinCode, 1, "alice", battle.ActionAttack); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	_, err := CommitAction(repo, m.JoinCode, 1, "alice", "deadbeef", "cafe")
	if !errors.Is(err, ErrAlreadyRevealed) {
		t.Fatalf("expected ErrAlreadyRevealed, got %v", err)
	}
}

func TestCommitAction_LockedAfterOpponentReveal(t *testing.T) {
	repo := newMockRepo()
	m := seedMatch(repo)

	commitFor(t, repo, m.JoinCode, 1, "alice", battle.ActionAttack)
	commitFor(t, repo, m.JoinCode, 1, "bob", battle.ActionBlock)
	if _, err := RevealAction(repo, m.JoinCode, 1, "alice", battle.ActionAttack); err != nil {
		t.Fatalf("reveal: %v", err)
	}

	// Bob's commitment is pinned the moment alice reveals against it:
	// allowing a swap here would let him renegotiate his move.
	salt, _ := commitment.NewSalt()
	_, err := CommitAction(repo, m.JoinCode, 1, "bob", commitment.Commit(battle.ActionCounter, salt), salt)
	if !errors.Is(err, ErrCommitLocked) {
		t.Fatalf("expected ErrCommitLocked, got %v", err)
	}
	rd := repo.rounds[roundKey(m.ID, 1)]
	if rd.Player2Action != battle.ActionNone {
		t.Fatalf("bob must still be able to reveal his original commitment")
	}
	if _, err := RevealAction(repo, m.JoinCode, 1, "bob", battle.ActionBlock); err != nil {
		t.Fatalf("original reveal must still work: %v", err)
	}
}

func TestCommitAction_Guards(t *testing.T) {
	repo := newMockRepo()
	m := seedMatch(repo)

	if _, err := CommitAction(repo, "NOSUCH", 1, "alice", "h", "s"); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("expected ErrMatchNotFound, got %v", err)
	}
	if _, err := CommitAction(repo, m.JoinCode, 1, "mallory", "h", "s"); !errors.Is(err, ErrNotAParticipant) {
		t.Fatalf("expected ErrNotAParticipant, got %v", err)
	}
	if _, err := CommitAction(repo, m.JoinCode, 7, "alice", "h", "s"); !errors.Is(err, ErrRoundNotFound) {
		t.Fatalf("expected ErrRoundNotFound, got %v", err)
	}

	repo.matches[m.ID].Status = battle.StatusCompleted
	if _, err := CommitAction(repo, m.JoinCode, 1, "alice", "h", "s"); !errors.Is(err, ErrMatchNotInProgress) {
		t.Fatalf("expected ErrMatchNotInProgress, got %v", err)
	}
}
