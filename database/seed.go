// database/seed.go - Startup seeding
//
// Syncs the in-code catalog into the achievements table, instantiates
// tournaments for the current windows and seeds the bot population the
// activity simulator animates.
package database

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"petpal/models"
	"petpal/services"
)

var botNames = []string{
	"MilkyWay", "SirFluff", "PixelPaws", "CocoaBean", "NoodleKing",
	"BubbleTrouble", "MrWiggles", "StarSnack", "GummyBear", "TurboPou",
	"SleepyHead", "CaptainCrumb", "VelvetEars", "MangoMood", "DiscoPotato",
	"WaffleIron", "MoonMuffin", "ZippyZap", "PeachFuzz", "BoltBuddy",
}

// SeedAll runs every seeding step. Call after the facade has restored its
// state so seeding stays idempotent across restarts.
func SeedAll(facade *services.Progression, now time.Time) {
	syncCatalog()
	ensureTournaments(facade, now)
	seedBots(facade, now)
}

// syncCatalog upserts the achievement definitions so the table mirrors the
// in-code catalog. The catalog stays the source of truth.
func syncCatalog() {
	db := GetDB()
	for _, def := range services.GetCatalog().Achievements() {
		var existing models.Achievement
		if err := db.Where("id = ?", def.ID).First(&existing).Error; err != nil {
			if err := db.Create(&def).Error; err != nil {
				log.Printf("Failed to sync achievement %s: %v", def.ID, err)
			}
			continue
		}
		def.CreatedAt = existing.CreatedAt
		if err := db.Save(&def).Error; err != nil {
			log.Printf("Failed to sync achievement %s: %v", def.ID, err)
		}
	}
	log.Println("✅ Achievement catalog synced")
}

// ensureTournaments instantiates each template's current window. The
// facade dedupes on (template, start date), so reboots within the same
// window do nothing.
func ensureTournaments(facade *services.Progression, now time.Time) {
	for _, tpl := range services.GetCatalog().Templates() {
		start, end := tpl.WindowFor(now)
		facade.AddTournament(models.Tournament{
			ID:          uuid.New().String(),
			TemplateID:  tpl.ID,
			Name:        tpl.Name,
			Type:        tpl.Type,
			Description: tpl.Description,
			StartDate:   start,
			EndDate:     end,
			FirstCoins:  tpl.Tiers.First.Coins,
			FirstItems:  strings.Join(tpl.Tiers.First.Items, ","),
			SecondCoins: tpl.Tiers.Second.Coins,
			SecondItems: strings.Join(tpl.Tiers.Second.Items, ","),
			ThirdCoins:  tpl.Tiers.Third.Coins,
			ThirdItems:  strings.Join(tpl.Tiers.Third.Items, ","),
		})
	}
}

// seedBots fills the simulated population up to the configured size.
func seedBots(facade *services.Progression, now time.Time) {
	if facade.BotCount() >= len(botNames) {
		return
	}

	rng := rand.New(rand.NewSource(now.UnixNano()))
	created := 0
	for i, name := range botNames {
		// A restored bot already holds the name; the facade rejects the
		// duplicate and we move on.
		_, err := facade.RegisterProfile(models.PlayerProfile{
			ID:         uuid.New().String(),
			Username:   name,
			Avatar:     fmt.Sprintf("pou_%02d", i%12),
			IsBot:      true,
			Level:      1 + rng.Intn(25),
			RankPoints: rng.Intn(15000),
			Online:     rng.Intn(3) == 0,
			JoinDate:   now.AddDate(0, 0, -rng.Intn(365)),
			LastActive: now.Add(-time.Duration(rng.Intn(72)) * time.Hour),
		})
		if err != nil {
			continue
		}
		created++
	}
	if created > 0 {
		log.Printf("✅ Seeded %d bot profiles", created)
	}
}
