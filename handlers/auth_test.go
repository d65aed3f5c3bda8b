package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"petpal/middleware"
	"petpal/services"
)

func newAuthTestApp() *fiber.App {
	services.InitCatalog()
	services.InitProgression(nil)

	app := fiber.New()
	app.Post("/api/auth/guest", GuestLogin)
	app.Post("/api/auth/register", Register)
	app.Post("/api/auth/upgrade", middleware.AuthMiddleware, UpgradeGuest)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, token string, body interface{}) (int, AuthResponse) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s: %v", path, err)
	}
	defer resp.Body.Close()

	var out AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("%s: decode response: %v", path, err)
	}
	return resp.StatusCode, out
}

func TestGuestLoginRejectsTakenName(t *testing.T) {
	app := newAuthTestApp()

	status, resp := postJSON(t, app, "/api/auth/guest", "", GuestLoginRequest{GuestName: "Bobby"})
	if status != 200 || resp.Token == "" {
		t.Fatalf("first guest login: status %d, token %q", status, resp.Token)
	}

	status, resp = postJSON(t, app, "/api/auth/guest", "", GuestLoginRequest{GuestName: "Bobby"})
	if status != 400 {
		t.Errorf("second guest with same name: status %d, want 400", status)
	}
	if resp.Success {
		t.Error("duplicate guest name reported success")
	}
}

func TestRegisterRejectsTakenUsername(t *testing.T) {
	app := newAuthTestApp()

	status, _ := postJSON(t, app, "/api/auth/register", "", RegisterRequest{
		Username: "alice", Password: "secret1",
	})
	if status != 200 {
		t.Fatalf("first register: status %d", status)
	}

	status, resp := postJSON(t, app, "/api/auth/register", "", RegisterRequest{
		Username: "alice", Password: "other-secret",
	})
	if status != 400 || resp.Success {
		t.Errorf("duplicate register: status %d success %v, want 400/false", status, resp.Success)
	}
}

func TestUpgradeRejectsRegisteredToken(t *testing.T) {
	app := newAuthTestApp()

	status, registered := postJSON(t, app, "/api/auth/register", "", RegisterRequest{
		Username: "alice", Password: "secret1",
	})
	if status != 200 || registered.Token == "" {
		t.Fatalf("register: status %d", status)
	}

	status, resp := postJSON(t, app, "/api/auth/upgrade", registered.Token, UpgradeGuestRequest{
		Username: "alice2", Password: "secret2",
	})
	if status != 400 || resp.Success {
		t.Errorf("upgrade with registered token: status %d success %v, want 400/false", status, resp.Success)
	}
}

func TestGuestUpgradeFlow(t *testing.T) {
	app := newAuthTestApp()

	status, guest := postJSON(t, app, "/api/auth/guest", "", GuestLoginRequest{GuestName: "Wanderer"})
	if status != 200 || guest.Token == "" {
		t.Fatalf("guest login: status %d", status)
	}

	status, upgraded := postJSON(t, app, "/api/auth/upgrade", guest.Token, UpgradeGuestRequest{
		Username: "wanda", Password: "secret1",
	})
	if status != 200 || !upgraded.Success {
		t.Fatalf("upgrade: status %d success %v", status, upgraded.Success)
	}
	if upgraded.Player.IsGuest {
		t.Error("upgraded player still flagged as guest")
	}
	if upgraded.Player.ID != guest.Player.ID {
		t.Error("upgrade changed the player id")
	}
}
