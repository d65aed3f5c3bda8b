// services/catalog.go - Catalog Store
//
// Immutable achievement definitions and tournament templates. Loaded once
// at startup; everything else reads from here. Each achievement registers
// a pure derivation rule mapping a game-state snapshot to its raw progress
// value, so new achievements are added here without touching the tracker.
package services

import (
	"log"
	"time"

	"petpal/models"
)

// DerivationFunc maps a snapshot to the raw progress value for one
// achievement. For single-kind achievements it returns 0 or 1.
type DerivationFunc func(models.GameStateSnapshot) int

// TournamentTemplate describes a recurring tournament. Concrete
// tournaments are instantiated from templates with real windows.
type TournamentTemplate struct {
	ID          string
	Name        string
	Type        string // daily, weekly, special
	Description string
	Duration    time.Duration
	Tiers       models.RewardTiers
}

type Catalog struct {
	achievements []models.Achievement
	derivations  map[string]DerivationFunc
	templates    []TournamentTemplate
}

var catalog *Catalog

// InitCatalog builds the singleton catalog.
func InitCatalog() {
	catalog = buildCatalog()
	log.Printf("✅ Catalog loaded: %d achievements, %d tournament templates",
		len(catalog.achievements), len(catalog.templates))
}

// GetCatalog returns the initialized catalog.
func GetCatalog() *Catalog {
	if catalog == nil {
		InitCatalog()
	}
	return catalog
}

// Achievements returns the definitions in declaration order.
func (c *Catalog) Achievements() []models.Achievement {
	out := make([]models.Achievement, len(c.achievements))
	copy(out, c.achievements)
	return out
}

// Achievement looks up a definition by id.
func (c *Catalog) Achievement(id string) (models.Achievement, bool) {
	for _, a := range c.achievements {
		if a.ID == id {
			return a, true
		}
	}
	return models.Achievement{}, false
}

// Derivation returns the progress rule for an achievement id.
func (c *Catalog) Derivation(id string) (DerivationFunc, bool) {
	fn, ok := c.derivations[id]
	return fn, ok
}

// Templates returns the tournament templates.
func (c *Catalog) Templates() []TournamentTemplate {
	out := make([]TournamentTemplate, len(c.templates))
	copy(out, c.templates)
	return out
}

// WindowFor computes the template's current window containing (or next
// after) the anchor time. Daily windows align to midnight UTC, weekly
// windows to Monday midnight UTC, special windows start at the anchor.
func (t TournamentTemplate) WindowFor(anchor time.Time) (time.Time, time.Time) {
	anchor = anchor.UTC()
	switch t.Type {
	case models.TournamentTypeDaily:
		start := anchor.Truncate(24 * time.Hour)
		return start, start.Add(t.Duration)
	case models.TournamentTypeWeekly:
		start := anchor.Truncate(24 * time.Hour)
		for start.Weekday() != time.Monday {
			start = start.AddDate(0, 0, -1)
		}
		return start, start.Add(t.Duration)
	default:
		return anchor, anchor.Add(t.Duration)
	}
}

func buildCatalog() *Catalog {
	c := &Catalog{derivations: make(map[string]DerivationFunc)}

	add := func(a models.Achievement, fn DerivationFunc) {
		c.achievements = append(c.achievements, a)
		c.derivations[a.ID] = fn
	}

	// Games
	add(models.Achievement{
		ID: "first_steps", Title: "First Steps", Description: "Pet your Pou for the first time",
		Category: models.CategoryGames, Kind: models.KindSingle, Target: 1,
		Rarity: models.RarityCommon, CoinReward: 50,
	}, func(s models.GameStateSnapshot) int {
		return boolToProgress(s.PouClicks >= 1)
	})
	add(models.Achievement{
		ID: "click_master", Title: "Click Master", Description: "Pet your Pou 100 times",
		Category: models.CategoryGames, Kind: models.KindProgressive, Target: 100,
		Rarity: models.RarityRare, CoinReward: 200,
	}, func(s models.GameStateSnapshot) int {
		return s.PouClicks
	})
	add(models.Achievement{
		ID: "click_legend", Title: "Click Legend", Description: "Pet your Pou 1000 times",
		Category: models.CategoryGames, Kind: models.KindProgressive, Target: 1000,
		Rarity: models.RarityEpic, CoinReward: 500,
	}, func(s models.GameStateSnapshot) int {
		return s.PouClicks
	})

	// Care
	add(models.Achievement{
		ID: "happy_pet", Title: "Happy Pet", Description: "Raise happiness to 90 or above",
		Category: models.CategoryCare, Kind: models.KindSingle, Target: 1,
		Rarity: models.RarityCommon, CoinReward: 75,
	}, func(s models.GameStateSnapshot) int {
		return boolToProgress(s.Happiness >= 90)
	})
	add(models.Achievement{
		ID: "well_rested", Title: "Well Rested", Description: "Raise energy to 95 or above",
		Category: models.CategoryCare, Kind: models.KindSingle, Target: 1,
		Rarity: models.RarityCommon, CoinReward: 60,
	}, func(s models.GameStateSnapshot) int {
		return boolToProgress(s.Energy >= 95)
	})
	add(models.Achievement{
		ID: "peak_condition", Title: "Peak Condition", Description: "Health and energy above 90 with hunger below 10",
		Category: models.CategoryCare, Kind: models.KindSingle, Target: 1,
		Rarity: models.RarityRare, CoinReward: 150,
	}, func(s models.GameStateSnapshot) int {
		return boolToProgress(s.Health >= 90 && s.Energy >= 90 && s.Hunger < 10)
	})

	// Shopping
	add(models.Achievement{
		ID: "first_purchase", Title: "First Purchase", Description: "Buy your first item",
		Category: models.CategoryShopping, Kind: models.KindSingle, Target: 1,
		Rarity: models.RarityCommon, CoinReward: 50,
	}, func(s models.GameStateSnapshot) int {
		return boolToProgress(s.ItemsPurchased >= 1)
	})
	add(models.Achievement{
		ID: "shopaholic", Title: "Shopaholic", Description: "Buy 25 items",
		Category: models.CategoryShopping, Kind: models.KindProgressive, Target: 25,
		Rarity: models.RarityRare, CoinReward: 250,
	}, func(s models.GameStateSnapshot) int {
		return s.ItemsPurchased
	})
	add(models.Achievement{
		ID: "coin_collector", Title: "Coin Collector", Description: "Earn 1000 coins in total",
		Category: models.CategoryShopping, Kind: models.KindProgressive, Target: 1000,
		Rarity: models.RarityRare, CoinReward: 300,
	}, func(s models.GameStateSnapshot) int {
		return s.TotalCoinsEverEarned
	})
	add(models.Achievement{
		ID: "tycoon", Title: "Tycoon", Description: "Earn 10000 coins in total",
		Category: models.CategoryShopping, Kind: models.KindProgressive, Target: 10000,
		Rarity: models.RarityLegendary, CoinReward: 1000, ItemRewards: "golden_bowtie",
	}, func(s models.GameStateSnapshot) int {
		return s.TotalCoinsEverEarned
	})
	add(models.Achievement{
		ID: "hoarder", Title: "Hoarder", Description: "Hold 30 items at once",
		Category: models.CategoryShopping, Kind: models.KindProgressive, Target: 30,
		Rarity: models.RarityEpic, CoinReward: 400,
	}, func(s models.GameStateSnapshot) int {
		// Inventory can shrink again; achieved stays sticky once reached.
		return s.InventorySize
	})

	// Customization
	add(models.Achievement{
		ID: "fresh_look", Title: "Fresh Look", Description: "Change your Pou's look for the first time",
		Category: models.CategoryCustomization, Kind: models.KindSingle, Target: 1,
		Rarity: models.RarityCommon, CoinReward: 50,
	}, func(s models.GameStateSnapshot) int {
		return boolToProgress(s.CustomizationChanges >= 1)
	})
	add(models.Achievement{
		ID: "stylist", Title: "Stylist", Description: "Change your Pou's look 10 times",
		Category: models.CategoryCustomization, Kind: models.KindProgressive, Target: 10,
		Rarity: models.RarityRare, CoinReward: 200,
	}, func(s models.GameStateSnapshot) int {
		return s.CustomizationChanges
	})
	add(models.Achievement{
		ID: "rainbow_pou", Title: "Rainbow Pou", Description: "Try 7 different colors",
		Category: models.CategoryCustomization, Kind: models.KindProgressive, Target: 7,
		Rarity: models.RarityEpic, CoinReward: 350, ItemRewards: "rainbow_dye",
	}, func(s models.GameStateSnapshot) int {
		return len(s.ColorsUsed)
	})

	// Special
	add(models.Achievement{
		ID: "event_goer", Title: "Event Goer", Description: "Participate in 5 events",
		Category: models.CategorySpecial, Kind: models.KindProgressive, Target: 5,
		Rarity: models.RarityRare, CoinReward: 250,
	}, func(s models.GameStateSnapshot) int {
		return s.EventsParticipated
	})
	add(models.Achievement{
		ID: "devoted_keeper", Title: "Devoted Keeper", Description: "Spend 10 hours with your Pou",
		Category: models.CategorySpecial, Kind: models.KindProgressive, Target: 36000,
		Rarity: models.RarityEpic, CoinReward: 500,
	}, func(s models.GameStateSnapshot) int {
		return s.TotalPlayTimeSeconds
	})

	c.templates = []TournamentTemplate{
		{
			ID: "daily_sprint", Name: "Daily Sprint", Type: models.TournamentTypeDaily,
			Description: "24 hours to climb as high as you can",
			Duration:    24 * time.Hour,
			Tiers: models.RewardTiers{
				First:  models.Reward{Coins: 100},
				Second: models.Reward{Coins: 50},
				Third:  models.Reward{Coins: 25},
			},
		},
		{
			ID: "weekly_championship", Name: "Weekly Championship", Type: models.TournamentTypeWeekly,
			Description: "The big one: a full week of competition",
			Duration:    7 * 24 * time.Hour,
			Tiers: models.RewardTiers{
				First:  models.Reward{Coins: 500, Items: []string{"champion_crown"}},
				Second: models.Reward{Coins: 250},
				Third:  models.Reward{Coins: 100},
			},
		},
		{
			ID: "pou_day", Name: "Pou Day Special", Type: models.TournamentTypeSpecial,
			Description: "Limited-time event with rare prizes",
			Duration:    48 * time.Hour,
			Tiers: models.RewardTiers{
				First:  models.Reward{Coins: 1000, Items: []string{"party_hat", "confetti_cannon"}},
				Second: models.Reward{Coins: 400, Items: []string{"party_hat"}},
				Third:  models.Reward{Coins: 150},
			},
		},
	}

	return c
}

func boolToProgress(b bool) int {
	if b {
		return 1
	}
	return 0
}
