// handlers/tournaments.go
package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"petpal/middleware"
	"petpal/services"
)

type JoinTournamentRequest struct {
	TournamentID string `json:"tournament_id"`
}

// GetTournaments returns the tournament cards for the current player.
// GET /api/tournaments
func GetTournaments(c *fiber.Ctx) error {
	playerID, err := middleware.GetPlayerID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	views := services.GetProgression().TournamentViews(time.Now(), playerID)

	return c.JSON(fiber.Map{
		"success":     true,
		"tournaments": views,
		"total":       len(views),
	})
}

// JoinTournament enrolls the current player in an active tournament.
// Joining twice is a no-op.
// POST /api/tournaments/join
func JoinTournament(c *fiber.Ctx) error {
	playerID, err := middleware.GetPlayerID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req JoinTournamentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.TournamentID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Missing tournament id"})
	}

	if err := services.GetProgression().JoinTournament(req.TournamentID, playerID, time.Now()); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"tournament_id": req.TournamentID,
	})
}
