package battle

import (
	"time"

	"gorm.io/gorm"
)

// Action is a string alias representing a player's chosen combat action.
// Using a dedicated type instead of plain string makes code safer and
// self-documenting.
type Action string

const (
	ActionNone    Action = ""
	ActionAttack  Action = "attack"
	ActionBlock   Action = "block"
	ActionCounter Action = "counter"
	ActionHeal    Action = "heal"
)

// Valid reports whether the action is one of the four playable actions.
func (a Action) Valid() bool {
	switch a {
	case ActionAttack, ActionBlock, ActionCounter, ActionHeal:
		return true
	}
	return false
}

// Match status values. A match only advances waiting -> in_progress ->
// completed; abandoned may be entered from any non-terminal state.
const (
	StatusWaiting    = "waiting"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusAbandoned  = "abandoned"
)

const (
	ModeRanked  = "ranked"
	ModePrivate = "private"
)

// RoundWinsToComplete is the best-of-five threshold: first to three
// round wins takes the match.
const RoundWinsToComplete = 3

// Character holds the combat stats a player brings into a match. Stats
// are configured via the server config (veilduel_config.json) and are
// never persisted on their own; each match copies them at creation so
// they stay fixed for the whole match.
type Character struct {
	Name      string `json:"name"`
	MaxHealth int    `json:"max_health"`
	Damage    int    `json:"damage"`
}

// Match is one best-of-five contest between two players. Combatant
// stats are frozen into the record when the match forms.
type Match struct {
	gorm.Model
	JoinCode string `json:"join_code" gorm:"uniqueIndex"`
	Private  bool   `json:"private"`
	Mode     string `json:"mode"`

	Player1ID        string `json:"player1_id" gorm:"index"`
	Player1Character string `json:"player1_character"`
	Player1MaxHealth int    `json:"player1_max_health"`
	Player1Damage    int    `json:"player1_damage"`
	Player1Health    int    `json:"player1_health"`

	Player2ID        string `json:"player2_id" gorm:"index"`
	Player2Character string `json:"player2_character"`
	Player2MaxHealth int    `json:"player2_max_health"`
	Player2Damage    int    `json:"player2_damage"`
	Player2Health    int    `json:"player2_health"`

	Status           string `json:"status"`
	CurrentRound     int    `json:"current_round"`
	Player1RoundWins int    `json:"player1_round_wins"`
	Player2RoundWins int    `json:"player2_round_wins"`
	WinnerID         string `json:"winner_id"`

	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`

	// Version guards every mutating write; see storage.
	Version uint `json:"-"`
}

// IsParticipant reports whether the given player belongs to this match.
func (m *Match) IsParticipant(playerID string) bool {
	return playerID != "" && (m.Player1ID == playerID || m.Player2ID == playerID)
}

// IsPlayer1 reports whether the given player occupies the player1 slot.
func (m *Match) IsPlayer1(playerID string) bool {
	return playerID != "" && m.Player1ID == playerID
}

// Terminal reports whether the match can no longer change.
func (m *Match) Terminal() bool {
	return m.Status == StatusCompleted || m.Status == StatusAbandoned
}

// Round is one best-of-five segment of a match, itself made of repeated
// turns. The per-turn commit/reveal/resolution fields are overwritten in
// place for every turn; a nil HealthAfter is the idempotency marker
// meaning the current turn has not been resolved yet. Rounds are never
// deleted; they are the audit trail of the match.
type Round struct {
	gorm.Model
	MatchID     uint `json:"match_id" gorm:"uniqueIndex:idx_rounds_match_round"`
	RoundNumber int  `json:"round_number" gorm:"uniqueIndex:idx_rounds_match_round"`

	Player1HealthBefore int  `json:"player1_health_before"`
	Player2HealthBefore int  `json:"player2_health_before"`
	Player1HealthAfter  *int `json:"player1_health_after"`
	Player2HealthAfter  *int `json:"player2_health_after"`

	Player1ActionCommit string     `json:"player1_action_commit"`
	Player2ActionCommit string     `json:"player2_action_commit"`
	Player1Salt         string     `json:"-"`
	Player2Salt         string     `json:"-"`
	Player1CommittedAt  *time.Time `json:"player1_committed_at"`
	Player2CommittedAt  *time.Time `json:"player2_committed_at"`

	Player1Action     Action     `json:"player1_action"`
	Player2Action     Action     `json:"player2_action"`
	Player1RevealedAt *time.Time `json:"player1_revealed_at"`
	Player2RevealedAt *time.Time `json:"player2_revealed_at"`

	// Damage dealt BY the player this turn, heal received by the player.
	Player1DamageDealt *int `json:"player1_damage_dealt"`
	Player2DamageDealt *int `json:"player2_damage_dealt"`
	Player1HealAmount  *int `json:"player1_heal_amount"`
	Player2HealAmount  *int `json:"player2_heal_amount"`

	Player1Ready bool `json:"player1_ready_for_next_round"`
	Player2Ready bool `json:"player2_ready_for_next_round"`

	RoundWinnerID string `json:"round_winner_id"`

	Version uint `json:"-"`
}

// BothCommitted reports whether both players have a commitment recorded
// for the current turn.
func (r *Round) BothCommitted() bool {
	return r.Player1ActionCommit != "" && r.Player2ActionCommit != ""
}

// BothRevealed reports whether both players have a verified revealed
// action for the current turn.
func (r *Round) BothRevealed() bool {
	return r.Player1Action != ActionNone && r.Player2Action != ActionNone
}

// Resolved reports whether the current turn has already been resolved.
func (r *Round) Resolved() bool {
	return r.Player1HealthAfter != nil && r.Player2HealthAfter != nil
}

// ClearTurn resets the per-turn fields so the round can play another
// turn, carrying the given health values forward as the next turn's
// baseline. Ready flags and the round winner are untouched.
func (r *Round) ClearTurn(player1Health, player2Health int) {
	r.Player1HealthBefore = player1Health
	r.Player2HealthBefore = player2Health
	r.Player1HealthAfter = nil
	r.Player2HealthAfter = nil
	r.Player1ActionCommit = ""
	r.Player2ActionCommit = ""
	r.Player1Salt = ""
	r.Player2Salt = ""
	r.Player1CommittedAt = nil
	r.Player2CommittedAt = nil
	r.Player1Action = ActionNone
	r.Player2Action = ActionNone
	r.Player1RevealedAt = nil
	r.Player2RevealedAt = nil
	r.Player1DamageDealt = nil
	r.Player2DamageDealt = nil
	r.Player1HealAmount = nil
	r.Player2HealAmount = nil
}

// Redacted returns a copy of the round safe to hand to the given side
// while the turn is still open: until both players revealed, the
// opponent's revealed action is withheld so polling the round cannot
// leak it. Once both actions are out the round is returned unchanged.
func (r *Round) Redacted(viewerIsPlayer1 bool) *Round {
	if r.BothRevealed() {
		return r
	}
	c := *r
	if viewerIsPlayer1 {
		c.Player2Action = ActionNone
	} else {
		c.Player1Action = ActionNone
	}
	return &c
}

// QueueEntry is a single player waiting for a ranked opponent. At most
// one live entry exists per player (enforced by the unique index plus
// upsert semantics in storage).
type QueueEntry struct {
	gorm.Model
	PlayerID  string    `json:"player_id" gorm:"uniqueIndex"`
	Rating    int       `json:"rating"`
	Character string    `json:"character"`
	MaxHealth int       `json:"max_health"`
	Damage    int       `json:"damage"`
	JoinedAt  time.Time `json:"joined_at"`
}

func (QueueEntry) TableName() string { return "matchmaking_queue" }

// PlayerProfile stores unique player identity, rating and aggregate stats.
type PlayerProfile struct {
	gorm.Model
	PlayerID    string `json:"player_id" gorm:"uniqueIndex"`
	DisplayName string `json:"display_name"`
	Rating      int    `json:"rating"`
	GamesPlayed int    `json:"games_played"`
	Wins        int    `json:"wins"`
}

func (PlayerProfile) TableName() string { return "player_profiles" }

// DefaultRating is the rating assigned to new profiles.
const DefaultRating = 1200
