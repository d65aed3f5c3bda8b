// handlers/progression.go
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"petpal/middleware"
	"petpal/models"
	"petpal/services"
)

// SyncGameState accepts a game-state snapshot from the client, recomputes
// achievement progress and returns anything newly achieved.
// POST /api/game/sync
func SyncGameState(c *fiber.Ctx) error {
	playerID, err := middleware.GetPlayerID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var snapshot models.GameStateSnapshot
	if err := c.BodyParser(&snapshot); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	newlyAchieved, err := services.GetProgression().ApplySnapshot(playerID, snapshot)
	if err != nil {
		return errorResponse(c, err)
	}

	player, err := services.GetProgression().Profile(playerID)
	if err != nil {
		return errorResponse(c, err)
	}

	// Tournament payouts issued by background settlement since the last
	// sync ride along here; this is their only delivery.
	rewardEvents := services.GetProgression().DrainRewardEvents(playerID)

	return c.JSON(fiber.Map{
		"success":        true,
		"newly_achieved": newlyAchieved,
		"reward_events":  rewardEvents,
		"rank_points":    player.RankPoints,
		"level":          player.Level,
		"coins":          player.Coins,
		"achievements":   player.AchievementsUnlocked,
	})
}

// GetAchievements returns the full progress list for the current player.
// GET /api/progression/achievements
func GetAchievements(c *fiber.Ctx) error {
	playerID, err := middleware.GetPlayerID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	views, err := services.GetProgression().AchievementViews(playerID)
	if err != nil {
		return errorResponse(c, err)
	}

	unlocked := 0
	claimed := 0
	for _, v := range views {
		if v.Achieved {
			unlocked++
		}
		if v.Claimed {
			claimed++
		}
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"achievements": views,
		"total":        len(views),
		"unlocked":     unlocked,
		"claimed":      claimed,
	})
}

// ClaimAchievement issues the one-time reward for an achieved achievement.
// POST /api/progression/achievements/:id/claim
func ClaimAchievement(c *fiber.Ctx) error {
	playerID, err := middleware.GetPlayerID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	achievementID := c.Params("id")
	if achievementID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Missing achievement id"})
	}

	event, err := services.GetProgression().ClaimAchievement(playerID, achievementID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"reward":  event,
	})
}

// GetProgression returns the player's progression summary.
// GET /api/progression
func GetProgression(c *fiber.Ctx) error {
	playerID, err := middleware.GetPlayerID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	player, err := services.GetProgression().Profile(playerID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"success":               true,
		"level":                 player.Level,
		"rank_points":           player.RankPoints,
		"rank_tier":             services.RankTier(player.RankPoints),
		"coins":                 player.Coins,
		"achievements_unlocked": player.AchievementsUnlocked,
		"badges":                player.BadgeList(),
		"pou_clicks":            player.PouClicks,
		"items_purchased":       player.ItemsPurchased,
		"events_participated":   player.EventsParticipated,
		"play_time_seconds":     player.TotalPlayTimeSeconds,
	})
}

// errorResponse maps engine errors onto HTTP statuses. Everything in the
// taxonomy is a recoverable client condition.
func errorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrUnknownPlayer),
		errors.Is(err, models.ErrUnknownAchievement),
		errors.Is(err, models.ErrUnknownTournament):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrAlreadyClaimed),
		errors.Is(err, models.ErrAlreadySettled):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrNotAchieved),
		errors.Is(err, models.ErrTournamentNotActive),
		errors.Is(err, models.ErrTournamentNotEnded):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}
}
