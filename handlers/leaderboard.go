// handlers/leaderboard.go
package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"petpal/services"
)

// GetLeaderboard returns the global leaderboard.
// GET /api/leaderboard?limit=100&offset=0
func GetLeaderboard(c *fiber.Ctx) error {
	limit := clampInt(queryInt(c, "limit", 100), 1, 100)
	offset := maxInt(queryInt(c, "offset", 0), 0)

	entries := services.GetProgression().Leaderboard()
	total := len(entries)

	if offset >= len(entries) {
		entries = entries[:0]
	} else {
		entries = entries[offset:]
	}
	if limit < len(entries) {
		entries = entries[:limit]
	}

	return c.JSON(fiber.Map{
		"success": true,
		"entries": entries,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetPlayerRank returns one player's rank and tier.
// GET /api/leaderboard/user/:id
func GetPlayerRank(c *fiber.Ctx) error {
	playerID := c.Params("id")
	if playerID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Missing player id"})
	}

	entries := services.GetProgression().Leaderboard()
	for _, e := range entries {
		if e.PlayerID == playerID {
			return c.JSON(fiber.Map{
				"success":     true,
				"player_id":   e.PlayerID,
				"username":    e.Username,
				"rank":        e.Rank,
				"rank_points": e.RankPoints,
				"tier":        e.Tier,
			})
		}
	}

	return c.Status(404).JSON(fiber.Map{"error": "Player not found"})
}

// GetRankTiers returns the tier threshold table for the ranking UI.
// GET /api/leaderboard/tiers
func GetRankTiers(c *fiber.Ctx) error {
	tiers := []fiber.Map{}
	for _, t := range services.TierTable() {
		tiers = append(tiers, fiber.Map{
			"tier":       t.Tier,
			"min_points": t.MinPoints,
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"tiers":   tiers,
	})
}

// helpers
func queryInt(c *fiber.Ctx, key string, def int) int {
	s := c.Query(key)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
