// models/game_state.go - Game State Snapshot
package models

// GameStateSnapshot is the read-only per-tick input the UI/game layer
// feeds the achievement tracker. Fields mirror the pet's live state plus
// lifetime counters; the engine never mutates a snapshot.
type GameStateSnapshot struct {
	// Live pet stats, 0-100
	Health    int `json:"health"`
	Happiness int `json:"happiness"`
	Energy    int `json:"energy"`
	Hunger    int `json:"hunger"`

	// Economy
	CoinsCurrent         int `json:"coins_current"`
	TotalCoinsEverEarned int `json:"total_coins_ever_earned"`
	InventorySize        int `json:"inventory_size"`

	// Lifetime counters
	PouClicks            int      `json:"pou_clicks"`
	ItemsPurchased       int      `json:"items_purchased"`
	CustomizationChanges int      `json:"customization_changes"`
	EventsParticipated   int      `json:"events_participated"`
	TotalPlayTimeSeconds int      `json:"total_play_time_seconds"`
	ColorsUsed           []string `json:"colors_used"`
}
