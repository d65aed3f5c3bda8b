// models/achievement.go
package models

import (
	"strings"
	"time"
)

// Achievement categories
const (
	CategoryCare          = "care"
	CategoryGames         = "games"
	CategoryShopping      = "shopping"
	CategoryCustomization = "customization"
	CategorySpecial       = "special"
)

// Achievement kinds
const (
	KindSingle      = "single"      // binary condition, target is 1
	KindProgressive = "progressive" // counter accumulates toward target
)

// Achievement rarities
const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// Achievement is an immutable definition owned by the catalog. Rows are
// synced from the in-code catalog at startup; the catalog stays the source
// of truth, the table exists for inspection and joins.
type Achievement struct {
	ID          string `gorm:"primaryKey;size:64" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"not null" json:"description"`
	Category    string `gorm:"not null;index" json:"category"` // care, games, shopping, customization, special
	Kind        string `gorm:"not null" json:"kind"`           // single, progressive
	Target      int    `gorm:"not null" json:"target"`
	Rarity      string `gorm:"not null" json:"rarity"`

	// Rewards
	CoinReward  int    `gorm:"default:0" json:"coin_reward"`
	ItemRewards string `gorm:"type:text" json:"item_rewards,omitempty"` // comma-separated item ids

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Reward is what a successful claim or tournament placement pays out.
type Reward struct {
	Coins int      `json:"coins"`
	Items []string `json:"items,omitempty"`
}

// RewardOf builds the reward record for this definition.
func (a *Achievement) RewardOf() Reward {
	r := Reward{Coins: a.CoinReward}
	if a.ItemRewards != "" {
		r.Items = strings.Split(a.ItemRewards, ",")
	}
	return r
}

// AchievementState is the mutable per-player progress record.
//
// Achieved is sticky: it is set the first time Current reaches the target
// and never unset, even if a later recomputation lowers Current (conditions
// like "happiness >= 90" can fall again). Claimed is set exactly once by
// the claim operation and never reverts. Invariant: Claimed implies Achieved.
type AchievementState struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	PlayerID      string     `gorm:"size:36;not null;index;uniqueIndex:idx_player_achievement" json:"player_id"`
	AchievementID string     `gorm:"size:64;not null;index;uniqueIndex:idx_player_achievement" json:"achievement_id"`
	Current       int        `gorm:"default:0" json:"current"`
	Achieved      bool       `gorm:"default:false" json:"achieved"`
	Claimed       bool       `gorm:"default:false" json:"claimed"`
	AchievedAt    *time.Time `json:"achieved_at"`
	ClaimedAt     *time.Time `json:"claimed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AchievementView is the read model handed to display components.
type AchievementView struct {
	Definition Achievement `json:"definition"`
	Current    int         `json:"current"`
	Target     int         `json:"target"`
	Achieved   bool        `json:"achieved"`
	Claimed    bool        `json:"claimed"`
	Reward     Reward      `json:"reward"`
}

// RewardEvent is emitted on successful claim or tournament settlement and
// applied by the external currency/inventory system.
type RewardEvent struct {
	Source   string `json:"source"` // "achievement" or "tournament"
	SourceID string `json:"source_id"`
	PlayerID string `json:"player_id"`
	Reward   Reward `json:"reward"`
}

func (Achievement) TableName() string {
	return "achievements"
}

func (AchievementState) TableName() string {
	return "achievement_states"
}
