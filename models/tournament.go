// models/tournament.go - Tournament System Data Models
package models

import (
	"strings"
	"time"
)

// Tournament status is derived from the clock, never stored.
type TournamentStatus string

const (
	TournamentScheduled TournamentStatus = "scheduled"
	TournamentActive    TournamentStatus = "active"
	TournamentEnded     TournamentStatus = "ended"
)

// Tournament types
const (
	TournamentTypeDaily   = "daily"
	TournamentTypeWeekly  = "weekly"
	TournamentTypeSpecial = "special"
)

// RewardTiers holds the payouts for the top three placements.
type RewardTiers struct {
	First  Reward `json:"first"`
	Second Reward `json:"second"`
	Third  Reward `json:"third"`
}

// Tournament is a time-boxed competition. Participants join while the
// window is active; once it ends the tournament is settled exactly once.
type Tournament struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	TemplateID  string    `gorm:"size:64;index" json:"template_id"`
	Name        string    `gorm:"not null" json:"name"`
	Type        string    `gorm:"not null;index" json:"type"` // daily, weekly, special
	Description string    `gorm:"type:text" json:"description"`
	StartDate   time.Time `gorm:"not null;index" json:"start_date"`
	EndDate     time.Time `gorm:"not null;index" json:"end_date"`

	// Reward tiers, flattened for storage
	FirstCoins  int    `gorm:"default:0" json:"-"`
	FirstItems  string `gorm:"type:text" json:"-"`
	SecondCoins int    `gorm:"default:0" json:"-"`
	SecondItems string `gorm:"type:text" json:"-"`
	ThirdCoins  int    `gorm:"default:0" json:"-"`
	ThirdItems  string `gorm:"type:text" json:"-"`

	Settled   bool       `gorm:"default:false" json:"settled"`
	SettledAt *time.Time `json:"settled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Participants []TournamentParticipant `gorm:"foreignKey:TournamentID" json:"participants,omitempty"`
}

// Status derives the lifecycle phase from the clock: scheduled before the
// window opens, active inside [start, end), ended at or after end.
func (t *Tournament) Status(now time.Time) TournamentStatus {
	if now.Before(t.StartDate) {
		return TournamentScheduled
	}
	if now.Before(t.EndDate) {
		return TournamentActive
	}
	return TournamentEnded
}

// Tiers reassembles the stored payout columns.
func (t *Tournament) Tiers() RewardTiers {
	return RewardTiers{
		First:  Reward{Coins: t.FirstCoins, Items: splitItems(t.FirstItems)},
		Second: Reward{Coins: t.SecondCoins, Items: splitItems(t.SecondItems)},
		Third:  Reward{Coins: t.ThirdCoins, Items: splitItems(t.ThirdItems)},
	}
}

// TournamentParticipant records a player's membership in a tournament.
type TournamentParticipant struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TournamentID string    `gorm:"size:36;not null;index;uniqueIndex:idx_tournament_player" json:"tournament_id"`
	PlayerID     string    `gorm:"size:36;not null;index;uniqueIndex:idx_tournament_player" json:"player_id"`
	JoinedAt     time.Time `gorm:"not null" json:"joined_at"`
	FinalRank    int       `gorm:"default:0" json:"final_rank"` // 0 = not ranked yet
	FinalScore   int       `gorm:"default:0" json:"final_score"`
}

// TournamentView is the read model for tournament cards.
type TournamentView struct {
	Definition       Tournament       `json:"definition"`
	Status           TournamentStatus `json:"status"`
	ParticipantCount int              `json:"participant_count"`
	Joined           bool             `json:"joined"`
	RewardTiers      RewardTiers      `json:"reward_tiers"`
}

func splitItems(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func (Tournament) TableName() string {
	return "tournaments"
}

func (TournamentParticipant) TableName() string {
	return "tournament_participants"
}
