// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"petpal/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.PlayerProfile{},
		&models.Achievement{},
		&models.AchievementState{},
		&models.Tournament{},
		&models.TournamentParticipant{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()

	log.Println("✅ All migrations completed successfully")
}

func createIndexes() {
	db := GetDB()

	// Player indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_players_username ON player_profiles(username)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_players_rank_points ON player_profiles(rank_points DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_players_bot ON player_profiles(is_bot)")

	// Achievement state indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_achievement_states_player ON achievement_states(player_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_achievement_states_claimed ON achievement_states(claimed)")

	// Tournament indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_tournaments_window ON tournaments(start_date, end_date)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_tournaments_settled ON tournaments(settled)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_participants_tournament ON tournament_participants(tournament_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_participants_player ON tournament_participants(player_id)")
}
