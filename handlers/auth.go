// handlers/auth.go
package handlers

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"petpal/middleware"
	"petpal/models"
	"petpal/services"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GuestLoginRequest struct {
	GuestName string `json:"guest_name,omitempty"`
}

type UpgradeGuestRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool       `json:"success"`
	Token   string     `json:"token,omitempty"`
	Player  PlayerInfo `json:"player,omitempty"`
	Error   string     `json:"error,omitempty"`
}

type PlayerInfo struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	IsGuest    bool      `json:"is_guest"`
	Level      int       `json:"level"`
	RankPoints int       `json:"rank_points"`
	Coins      int       `json:"coins"`
	JoinDate   time.Time `json:"join_date"`
}

// GuestLogin creates a new guest session with a fresh profile
func GuestLogin(c *fiber.Ctx) error {
	var req GuestLoginRequest
	// Empty body is fine for guests
	_ = c.BodyParser(&req)

	guestName := req.GuestName
	if guestName == "" {
		guestName = fmt.Sprintf("Guest_%s", uuid.New().String()[:8])
	}

	now := time.Now()
	player, err := services.GetProgression().RegisterProfile(models.PlayerProfile{
		ID:         uuid.New().String(),
		Username:   guestName,
		IsGuest:    true,
		Level:      1,
		Online:     true,
		JoinDate:   now,
		LastActive: now,
	})
	if errors.Is(err, models.ErrUsernameTaken) {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Guest name already taken",
		})
	}
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Error:   "Failed to create guest profile",
		})
	}

	token, err := generateToken(player)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Error:   "Failed to generate token",
		})
	}

	return c.JSON(AuthResponse{
		Success: true,
		Token:   token,
		Player:  playerInfo(player),
	})
}

// Login authenticates a registered player
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Invalid request body",
		})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Username and password required",
		})
	}

	player, err := services.GetProgression().ProfileByUsername(req.Username)
	if err != nil || player.IsGuest || player.IsBot {
		return c.Status(401).JSON(AuthResponse{
			Success: false,
			Error:   "Invalid credentials",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(player.Password), []byte(req.Password)); err != nil {
		return c.Status(401).JSON(AuthResponse{
			Success: false,
			Error:   "Invalid credentials",
		})
	}

	token, err := generateToken(player)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Error:   "Failed to generate token",
		})
	}

	return c.JSON(AuthResponse{
		Success: true,
		Token:   token,
		Player:  playerInfo(player),
	})
}

// Register creates a new player account
func Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Invalid request body",
		})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Username and password required",
		})
	}

	if len(req.Password) < 6 {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Password must be at least 6 characters",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Error:   "Failed to hash password",
		})
	}

	now := time.Now()
	var email *string
	if req.Email != "" {
		email = &req.Email
	}
	player, err := services.GetProgression().RegisterProfile(models.PlayerProfile{
		ID:         uuid.New().String(),
		Username:   req.Username,
		Email:      email,
		Password:   string(hashedPassword),
		Level:      1,
		Online:     true,
		JoinDate:   now,
		LastActive: now,
	})
	if errors.Is(err, models.ErrUsernameTaken) {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Username already taken",
		})
	}
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Error:   "Failed to create account",
		})
	}

	token, err := generateToken(player)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Error:   "Failed to generate token",
		})
	}

	return c.JSON(AuthResponse{
		Success: true,
		Token:   token,
		Player:  playerInfo(player),
	})
}

// UpgradeGuest converts a guest account to a registered account
func UpgradeGuest(c *fiber.Ctx) error {
	playerID, err := middleware.GetPlayerID(c)
	if err != nil {
		return c.Status(401).JSON(AuthResponse{
			Success: false,
			Error:   "Unauthorized",
		})
	}

	// Tokens issued to registered accounts carry is_guest=false; reject
	// before touching the facade. The profile check below stays
	// authoritative for guest tokens that outlived an upgrade.
	if !middleware.IsGuest(c) {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Account is already registered",
		})
	}

	var req UpgradeGuestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Invalid request body",
		})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Username and password required",
		})
	}

	facade := services.GetProgression()

	player, err := facade.Profile(playerID)
	if err != nil {
		return c.Status(404).JSON(AuthResponse{
			Success: false,
			Error:   "Player not found",
		})
	}

	if !player.IsGuest {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Account is already registered",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Error:   "Failed to hash password",
		})
	}

	var email *string
	if req.Email != "" {
		email = &req.Email
	}
	player, err = facade.UpgradeGuestProfile(playerID, req.Username, email, string(hashedPassword))
	if errors.Is(err, models.ErrUsernameTaken) {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Username already taken",
		})
	}
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Error:   "Failed to upgrade account",
		})
	}

	token, err := generateToken(player)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Error:   "Failed to generate token",
		})
	}

	return c.JSON(AuthResponse{
		Success: true,
		Token:   token,
		Player:  playerInfo(player),
	})
}

// Helper functions

func playerInfo(p models.PlayerProfile) PlayerInfo {
	return PlayerInfo{
		ID:         p.ID,
		Username:   p.Username,
		IsGuest:    p.IsGuest,
		Level:      p.Level,
		RankPoints: p.RankPoints,
		Coins:      p.Coins,
		JoinDate:   p.JoinDate,
	}
}

func generateToken(player models.PlayerProfile) (string, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "petpal-secret-change-in-production"
	}

	claims := jwt.MapClaims{
		"player_id": player.ID,
		"username":  player.Username,
		"is_guest":  player.IsGuest,
		"exp":       time.Now().Add(time.Hour * 720).Unix(), // 30 days
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}
