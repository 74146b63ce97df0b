package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/veilduel/veilduel-backend/internal/battle"
	"github.com/veilduel/veilduel-backend/internal/storage"
)

// mockRepo is an in-memory Repository good enough for coordinator
// tests: it honors version guards, unique round numbers and unique
// queue entries the same way the sqlite implementation does.
type mockRepo struct {
	matches    map[uint]*battle.Match
	rounds     map[string]*battle.Round
	queue      map[string]*battle.QueueEntry
	profiles   map[string]*battle.PlayerProfile
	nextID     uint
	statsCalls int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		matches:  map[uint]*battle.Match{},
		rounds:   map[string]*battle.Round{},
		queue:    map[string]*battle.QueueEntry{},
		profiles: map[string]*battle.PlayerProfile{},
	}
}

func roundKey(matchID uint, n int) string { return fmt.Sprintf("%d:%d", matchID, n) }

func (m *mockRepo) id() uint {
	m.nextID++
	return m.nextID
}

func (m *mockRepo) CreateMatch(mt *battle.Match) error {
	for _, other := range m.matches {
		if other.JoinCode == mt.JoinCode {
			return storage.ErrDuplicate
		}
	}
	mt.ID = m.id()
	cp := *mt
	m.matches[mt.ID] = &cp
	return nil
}

func (m *mockRepo) GetMatchByID(id uint) (*battle.Match, error) {
	mt, ok := m.matches[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *mt
	return &cp, nil
}

func (m *mockRepo) FindMatchByJoinCode(code string) (*battle.Match, error) {
	for _, mt := range m.matches {
		if mt.JoinCode == code {
			cp := *mt
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *mockRepo) FindActiveMatchByPlayer(playerID string) (*battle.Match, error) {
	for _, mt := range m.matches {
		if mt.IsParticipant(playerID) && !mt.Terminal() {
			cp := *mt
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *mockRepo) UpdateMatch(mt *battle.Match) error {
	cur, ok := m.matches[mt.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if cur.Version != mt.Version {
		return storage.ErrConflict
	}
	mt.Version++
	cp := *mt
	m.matches[mt.ID] = &cp
	return nil
}

func (m *mockRepo) GetRound(matchID uint, n int) (*battle.Round, error) {
	rd, ok := m.rounds[roundKey(matchID, n)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *rd
	return &cp, nil
}

func (m *mockRepo) CreateRound(rd *battle.Round) error {
	k := roundKey(rd.MatchID, rd.RoundNumber)
	if _, exists := m.rounds[k]; exists {
		return storage.ErrDuplicate
	}
	rd.ID = m.id()
	cp := *rd
	m.rounds[k] = &cp
	return nil
}

func (m *mockRepo) UpdateRound(rd *battle.Round) error {
	k := roundKey(rd.MatchID, rd.RoundNumber)
	cur, ok := m.rounds[k]
	if !ok {
		return storage.ErrNotFound
	}
	if cur.Version != rd.Version {
		return storage.ErrConflict
	}
	rd.Version++
	cp := *rd
	m.rounds[k] = &cp
	return nil
}

func (m *mockRepo) UpdateStatsOnMatchEnd(*battle.Match) error {
	m.statsCalls++
	return nil
}

func (m *mockRepo) UpsertQueueEntry(e *battle.QueueEntry) error {
	if existing, ok := m.queue[e.PlayerID]; ok {
		e.ID = existing.ID
	} else {
		e.ID = m.id()
	}
	cp := *e
	m.queue[e.PlayerID] = &cp
	return nil
}

func (m *mockRepo) FindQueuedOpponent(playerID string, rating, tolerance int, notBefore time.Time) (*battle.QueueEntry, error) {
	var candidates []*battle.QueueEntry
	for _, e := range m.queue {
		if e.PlayerID == playerID {
			continue
		}
		if e.Rating < rating-tolerance || e.Rating > rating+tolerance {
			continue
		}
		if e.JoinedAt.Before(notBefore) {
			continue
		}
		candidates = append(candidates, e)
	}
	if len(candidates) == 0 {
		return nil, storage.ErrNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].JoinedAt.Before(candidates[j].JoinedAt)
	})
	cp := *candidates[0]
	return &cp, nil
}

func (m *mockRepo) ClaimQueueEntry(entryID uint) (bool, error) {
	for pid, e := range m.queue {
		if e.ID == entryID {
			delete(m.queue, pid)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) RemoveQueueEntry(playerID string) error {
	delete(m.queue, playerID)
	return nil
}

func (m *mockRepo) PurgeExpiredQueueEntries(olderThan time.Time) (int64, error) {
	var n int64
	for pid, e := range m.queue {
		if e.JoinedAt.Before(olderThan) {
			delete(m.queue, pid)
			n++
		}
	}
	return n, nil
}

func (m *mockRepo) GetOrCreateProfile(playerID, displayName string) (*battle.PlayerProfile, error) {
	if p, ok := m.profiles[playerID]; ok {
		cp := *p
		return &cp, nil
	}
	p := &battle.PlayerProfile{PlayerID: playerID, DisplayName: displayName, Rating: battle.DefaultRating}
	p.ID = m.id()
	m.profiles[playerID] = p
	cp := *p
	return &cp, nil
}

func (m *mockRepo) FindStaleMatches(updatedBefore time.Time) ([]battle.Match, error) {
	var out []battle.Match
	for _, mt := range m.matches {
		if !mt.Terminal() {
			out = append(out, *mt)
		}
	}
	return out, nil
}

// seedMatch installs an in-progress match between alice and bob with its
// first round ready for play.
func seedMatch(repo *mockRepo) *battle.Match {
	m := &battle.Match{
		JoinCode: "TEST42",
		Mode:     battle.ModePrivate,
		Private:  true,

		Player1ID:        "alice",
		Player1Character: "Amara",
		Player1MaxHealth: 200,
		Player1Damage:    30,
		Player1Health:    200,

		Player2ID:        "bob",
		Player2Character: "Kofi",
		Player2MaxHealth: 180,
		Player2Damage:    35,
		Player2Health:    180,

		Status:       battle.StatusInProgress,
		CurrentRound: 1,
	}
	m.ID = repo.id()
	repo.matches[m.ID] = m
	rd := &battle.Round{
		MatchID:             m.ID,
		RoundNumber:         1,
		Player1HealthBefore: 200,
		Player2HealthBefore: 180,
	}
	rd.ID = repo.id()
	repo.rounds[roundKey(m.ID, 1)] = rd
	return m
}
