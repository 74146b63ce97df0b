package service

import (
	"errors"
	"regexp"
	"testing"

	"github.com/veilduel/veilduel-backend/internal/battle"
)

var codePattern = regexp.MustCompile("^[A-HJ-NP-Z2-9]{6}$")

func TestCreatePrivateMatch(t *testing.T) {
	repo := newMockRepo()
	ch := battle.Character{Name: "Amara", MaxHealth: 200, Damage: 30}

	m, err := CreatePrivateMatch(repo, "alice", ch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !codePattern.MatchString(m.JoinCode) {
		t.Fatalf("bad join code %q", m.JoinCode)
	}
	if m.Status != battle.StatusWaiting || m.CurrentRound != 1 {
		t.Fatalf("unexpected initial state: %+v", m)
	}
	if m.Player1Health != 200 || m.Player1Damage != 30 {
		t.Fatalf("stats not frozen into match: %+v", m)
	}
	rd, err := repo.GetRound(m.ID, 1)
	if err != nil {
		t.Fatalf("first round missing: %v", err)
	}
	if rd.Player1HealthBefore != 200 {
		t.Fatalf("round baseline wrong: %+v", rd)
	}
}

func TestJoinMatch_StartsMatch(t *testing.T) {
	repo := newMockRepo()
	m, _ := CreatePrivateMatch(repo, "alice", battle.Character{Name: "Amara", MaxHealth: 200, Damage: 30})

	joined, err := JoinMatch(repo, m.JoinCode, "bob", battle.Character{Name: "Kofi", MaxHealth: 180, Damage: 35})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if joined.Status != battle.StatusInProgress || joined.Player2ID != "bob" {
		t.Fatalf("match did not start: %+v", joined)
	}
	if joined.StartedAt == nil {
		t.Fatalf("started_at not set")
	}
	rd, _ := repo.GetRound(m.ID, 1)
	if rd.Player2HealthBefore != 180 {
		t.Fatalf("joiner baseline not written: %+v", rd)
	}
}

func TestJoinMatch_OwnMatchIsIdempotent(t *testing.T) {
	repo := newMockRepo()
	m, _ := CreatePrivateMatch(repo, "alice", battle.Character{Name: "Amara", MaxHealth: 200, Damage: 30})

	again, err := JoinMatch(repo, m.JoinCode, "alice", battle.Character{Name: "Amara", MaxHealth: 200, Damage: 30})
	if err != nil {
		t.Fatalf("rejoining own match must not fail: %v", err)
	}
	if again.Status != battle.StatusWaiting || again.Player2ID != "" {
		t.Fatalf("rejoin must not mutate the match: %+v", again)
	}
}

func TestJoinMatch_FullMatchRejected(t *testing.T) {
	repo := newMockRepo()
	m, _ := CreatePrivateMatch(repo, "alice", battle.Character{Name: "Amara", MaxHealth: 200, Damage: 30})
	if _, err := JoinMatch(repo, m.JoinCode, "bob", battle.Character{Name: "Kofi", MaxHealth: 180, Damage: 35}); err != nil {
		t.Fatalf("join: %v", err)
	}

	if _, err := JoinMatch(repo, m.JoinCode, "carol", battle.Character{Name: "Nia", MaxHealth: 190, Damage: 32}); !errors.Is(err, ErrMatchNotJoinable) {
		t.Fatalf("expected ErrMatchNotJoinable, got %v", err)
	}
}

func TestGetMatch_RestrictedToParticipants(t *testing.T) {
	repo := newMockRepo()
	m := seedMatch(repo)

	mm, rd, err := GetMatch(repo, m.JoinCode, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mm.ID != m.ID || rd == nil || rd.RoundNumber != 1 {
		t.Fatalf("wrong match/round: %+v %+v", mm, rd)
	}
	if _, _, err := GetMatch(repo, m.JoinCode, "mallory"); !errors.Is(err, ErrNotAParticipant) {
		t.Fatalf("expected ErrNotAParticipant, got %v", err)
	}
}

func TestGetMatch_HidesOpponentActionUntilBothRevealed(t *testing.T) {
	repo := newMockRepo()
	m := seedMatch(repo)
	commitFor(t, repo, m.JoinCode, 1, "alice", battle.ActionAttack)
	commitFor(t, repo, m.JoinCode, 1, "bob", battle.ActionBlock)
	if _, err := RevealAction(repo, m.JoinCode, 1, "alice", battle.ActionAttack); err != nil {
		t.Fatalf("reveal: %v", err)
	}

	// Bob polls mid-turn: alice's revealed action must not be readable,
	// or he could pick the perfect answer to it.
	_, rd, err := GetMatch(repo, m.JoinCode, "bob")
	if err != nil {
		t.Fatalf("get as bob: %v", err)
	}
	if rd.Player1Action != battle.ActionNone {
		t.Fatalf("opponent action leaked mid-turn: %q", rd.Player1Action)
	}
	if rd.Player1ActionCommit == "" || rd.Player1RevealedAt == nil {
		t.Fatalf("commit hash and reveal timestamp should stay visible: %+v", rd)
	}

	if _, err := RevealAction(repo, m.JoinCode, 1, "bob", battle.ActionBlock); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	_, rd, err = GetMatch(repo, m.JoinCode, "bob")
	if err != nil {
		t.Fatalf("get after both revealed: %v", err)
	}
	if rd.Player1Action != battle.ActionAttack || rd.Player2Action != battle.ActionBlock {
		t.Fatalf("actions must be public once both revealed: %+v", rd)
	}
}
