// models/player.go
package models

import (
	"strings"
	"time"
)

type PlayerProfile struct {
	ID       string  `gorm:"primaryKey;size:36" json:"id"`
	Username string  `gorm:"uniqueIndex;not null" json:"username"`
	Email    *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Password string  `gorm:"not null" json:"-"`
	Avatar   string  `json:"avatar"`
	IsGuest  bool    `gorm:"default:false" json:"is_guest"`

	// IsBot marks simulated population profiles. Bots exist only to fill
	// the leaderboard and tournaments; they never authenticate.
	IsBot bool `gorm:"default:false;index" json:"is_bot"`

	// Ranking
	Level      int  `gorm:"default:1" json:"level"`
	RankPoints int  `gorm:"default:0" json:"rank_points"`
	Online     bool `gorm:"default:false" json:"online"`

	// Progression
	AchievementsUnlocked int    `gorm:"default:0" json:"achievements_unlocked"`
	Badges               string `gorm:"type:text" json:"-"`
	Coins                int    `gorm:"default:0" json:"coins"`

	// Stats (monotonically non-decreasing counters)
	PouClicks            int `gorm:"default:0" json:"pou_clicks"`
	ItemsPurchased       int `gorm:"default:0" json:"items_purchased"`
	CustomizationChanges int `gorm:"default:0" json:"customization_changes"`
	EventsParticipated   int `gorm:"default:0" json:"events_participated"`
	TotalPlayTimeSeconds int `gorm:"default:0" json:"total_play_time_seconds"`

	// Timestamps
	JoinDate   time.Time `gorm:"not null;index" json:"join_date"`
	LastActive time.Time `json:"last_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BadgeList splits the stored badge string into ids.
func (p *PlayerProfile) BadgeList() []string {
	if p.Badges == "" {
		return nil
	}
	return strings.Split(p.Badges, ",")
}

// AddBadge appends a badge id if the player doesn't already hold it.
func (p *PlayerProfile) AddBadge(id string) {
	for _, b := range p.BadgeList() {
		if b == id {
			return
		}
	}
	if p.Badges == "" {
		p.Badges = id
	} else {
		p.Badges += "," + id
	}
}

// Clone returns a copy safe to hand to readers.
func (p *PlayerProfile) Clone() PlayerProfile {
	cp := *p
	return cp
}

// LeaderboardEntry is derived from the profile set on demand, never stored.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	PlayerID   string `json:"player_id"`
	Username   string `json:"username"`
	Avatar     string `json:"avatar"`
	Level      int    `json:"level"`
	RankPoints int    `json:"rank_points"`
	Online     bool   `json:"online"`
	Tier       string `json:"tier"`
}

func (PlayerProfile) TableName() string {
	return "player_profiles"
}
