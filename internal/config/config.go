package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/veilduel/veilduel-backend/internal/battle"
)

type characterEntry struct {
	Name      string `json:"name"`
	MaxHealth int    `json:"max_health"`
	Damage    int    `json:"damage"`
}

type rawConfig struct {
	CharacterList []characterEntry `json:"character_list"`
	Server        *struct {
		Address string `json:"address"`
	} `json:"server"`
	Matchmaking *struct {
		RatingTolerance    int `json:"rating_tolerance"`
		QueueExpirySeconds int `json:"queue_expiry_seconds"`
	} `json:"matchmaking"`
	// Matches with no activity for this many minutes are marked
	// abandoned by the background sweep.
	AbandonAfterMinutes int `json:"abandon_after_minutes"`
}

// LoadedConfig contains the character roster and runtime tunables.
type LoadedConfig struct {
	Characters          []battle.Character
	ServerAddress       string
	RatingTolerance     int
	QueueExpirySeconds  int
	AbandonAfterMinutes int
}

// FindCharacter returns the roster entry with the given name
// (case-insensitive), or false when the roster does not contain it.
func (c *LoadedConfig) FindCharacter(name string) (battle.Character, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, ch := range c.Characters {
		if strings.ToLower(ch.Name) == want {
			return ch, true
		}
	}
	return battle.Character{}, false
}

// LoadConfig reads the configuration file at path. It requires the key
// `character_list` (snake_case); server and matchmaking sections are
// optional and fall back to defaults.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	entries := rc.CharacterList
	if len(entries) == 0 {
		return nil, fmt.Errorf("config file %s: character_list is empty (provide 'character_list' array)", path)
	}

	out := make([]battle.Character, 0, len(entries))
	nameSet := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("config file %s: character entry missing 'name'", path)
		}
		if e.MaxHealth <= 0 {
			return nil, fmt.Errorf("config file %s: character '%s' needs positive 'max_health'", path, e.Name)
		}
		if e.Damage <= 0 {
			return nil, fmt.Errorf("config file %s: character '%s' needs positive 'damage'", path, e.Name)
		}
		ln := strings.ToLower(strings.TrimSpace(e.Name))
		if _, exists := nameSet[ln]; exists {
			return nil, fmt.Errorf("config file %s: duplicate character name '%s'", path, e.Name)
		}
		nameSet[ln] = struct{}{}
		out = append(out, battle.Character{
			Name:      e.Name,
			MaxHealth: e.MaxHealth,
			Damage:    e.Damage,
		})
	}

	addr := ":8080"
	if rc.Server != nil && rc.Server.Address != "" {
		addr = rc.Server.Address
	}

	tolerance := 200
	expiry := 60
	if rc.Matchmaking != nil {
		if rc.Matchmaking.RatingTolerance > 0 {
			tolerance = rc.Matchmaking.RatingTolerance
		}
		if rc.Matchmaking.QueueExpirySeconds > 0 {
			expiry = rc.Matchmaking.QueueExpirySeconds
		}
	}

	abandon := 30
	if rc.AbandonAfterMinutes > 0 {
		abandon = rc.AbandonAfterMinutes
	}

	return &LoadedConfig{
		Characters:          out,
		ServerAddress:       addr,
		RatingTolerance:     tolerance,
		QueueExpirySeconds:  expiry,
		AbandonAfterMinutes: abandon,
	}, nil
}
