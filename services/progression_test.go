package services

import (
	"errors"
	"testing"
	"time"

	"petpal/models"
)

func newTestFacade() *Progression {
	return NewProgression(nil)
}

func registerPlayer(f *Progression, id string) models.PlayerProfile {
	p, _ := f.RegisterProfile(models.PlayerProfile{
		ID:       id,
		Username: "u_" + id,
		Level:    1,
		JoinDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	return p
}

func viewFor(t *testing.T, f *Progression, playerID, achievementID string) models.AchievementView {
	t.Helper()
	views, err := f.AchievementViews(playerID)
	if err != nil {
		t.Fatalf("AchievementViews: %v", err)
	}
	for _, v := range views {
		if v.Definition.ID == achievementID {
			return v
		}
	}
	t.Fatalf("achievement %s not in views", achievementID)
	return models.AchievementView{}
}

// The reference scenario: pouClicks 0, 50, 100, 80 against click_master
// (progressive, target 100, 200 coins).
func TestClickMasterScenario(t *testing.T) {
	f := newTestFacade()
	registerPlayer(f, "me")

	steps := []struct {
		clicks      int
		wantCurrent int
	}{
		{0, 0},
		{50, 50},
		{100, 100},
		{80, 100}, // stale snapshot: counters are monotonic
	}

	for i, step := range steps {
		if _, err := f.ApplySnapshot("me", models.GameStateSnapshot{PouClicks: step.clicks}); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		v := viewFor(t, f, "me", "click_master")
		if v.Current != step.wantCurrent {
			t.Errorf("step %d: current = %d, want %d", i, v.Current, step.wantCurrent)
		}

		switch i {
		case 1:
			if _, err := f.ClaimAchievement("me", "click_master"); !errors.Is(err, models.ErrNotAchieved) {
				t.Errorf("claim at 50 clicks: err = %v, want ErrNotAchieved", err)
			}
		case 2:
			event, err := f.ClaimAchievement("me", "click_master")
			if err != nil {
				t.Fatalf("claim at 100 clicks: %v", err)
			}
			if event.Reward.Coins != 200 {
				t.Errorf("reward = %d coins, want 200", event.Reward.Coins)
			}
		case 3:
			if _, err := f.ClaimAchievement("me", "click_master"); !errors.Is(err, models.ErrAlreadyClaimed) {
				t.Errorf("claim after stale snapshot: err = %v, want ErrAlreadyClaimed", err)
			}
			if v := viewFor(t, f, "me", "click_master"); !v.Achieved {
				t.Error("achieved flag lost after stale snapshot")
			}
		}
	}
}

func TestClaimCreditsCoins(t *testing.T) {
	f := newTestFacade()
	registerPlayer(f, "me")

	if _, err := f.ApplySnapshot("me", models.GameStateSnapshot{PouClicks: 100}); err != nil {
		t.Fatal(err)
	}
	before, _ := f.Profile("me")

	if _, err := f.ClaimAchievement("me", "click_master"); err != nil {
		t.Fatal(err)
	}

	after, _ := f.Profile("me")
	if after.Coins != before.Coins+200 {
		t.Errorf("coins = %d, want %d", after.Coins, before.Coins+200)
	}
}

func TestClaimUnknownIDs(t *testing.T) {
	f := newTestFacade()
	registerPlayer(f, "me")

	if _, err := f.ClaimAchievement("nobody", "click_master"); !errors.Is(err, models.ErrUnknownPlayer) {
		t.Errorf("unknown player: err = %v, want ErrUnknownPlayer", err)
	}
	if _, err := f.ClaimAchievement("me", "no_such"); !errors.Is(err, models.ErrUnknownAchievement) {
		t.Errorf("unknown achievement: err = %v, want ErrUnknownAchievement", err)
	}
	if _, err := f.ApplySnapshot("nobody", models.GameStateSnapshot{}); !errors.Is(err, models.ErrUnknownPlayer) {
		t.Errorf("snapshot for unknown player: err = %v, want ErrUnknownPlayer", err)
	}
}

func TestNewlyAchievedReported(t *testing.T) {
	f := newTestFacade()
	registerPlayer(f, "me")

	newly, err := f.ApplySnapshot("me", models.GameStateSnapshot{PouClicks: 1})
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, v := range newly {
		if v.Definition.ID == "first_steps" {
			found = true
		}
	}
	if !found {
		t.Error("first_steps not reported as newly achieved")
	}

	// Same snapshot again: nothing newly achieved
	newly, err = f.ApplySnapshot("me", models.GameStateSnapshot{PouClicks: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(newly) != 0 {
		t.Errorf("second identical snapshot reported %d new achievements", len(newly))
	}
}

func TestEpicClaimAwardsBadge(t *testing.T) {
	f := newTestFacade()
	registerPlayer(f, "me")

	if _, err := f.ApplySnapshot("me", models.GameStateSnapshot{InventorySize: 30}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.ClaimAchievement("me", "hoarder"); err != nil {
		t.Fatal(err)
	}

	p, _ := f.Profile("me")
	hasBadge := false
	for _, b := range p.BadgeList() {
		if b == "hoarder" {
			hasBadge = true
		}
	}
	if !hasBadge {
		t.Errorf("badges = %v, want hoarder included", p.BadgeList())
	}
}

func TestFacadeTournamentLifecycle(t *testing.T) {
	f := newTestFacade()
	registerPlayer(f, "me")
	registerPlayer(f, "rival")

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	f.AddTournament(models.Tournament{
		ID: "cup", TemplateID: "daily_sprint", Name: "Cup",
		Type: models.TournamentTypeDaily, StartDate: start, EndDate: end,
		FirstCoins: 100, SecondCoins: 50, ThirdCoins: 25,
	})

	active := start.Add(time.Hour)

	if err := f.JoinTournament("cup", "nobody", active); !errors.Is(err, models.ErrUnknownPlayer) {
		t.Errorf("unknown player join: err = %v", err)
	}
	if err := f.JoinTournament("missing", "me", active); !errors.Is(err, models.ErrUnknownTournament) {
		t.Errorf("unknown tournament join: err = %v", err)
	}

	if err := f.JoinTournament("cup", "me", active); err != nil {
		t.Fatal(err)
	}
	if err := f.JoinTournament("cup", "me", active); err != nil {
		t.Errorf("duplicate join must be a no-op: %v", err)
	}
	if err := f.JoinTournament("cup", "rival", active); err != nil {
		t.Fatal(err)
	}

	views := f.TournamentViews(active, "me")
	if len(views) != 1 {
		t.Fatalf("views = %d, want 1", len(views))
	}
	if !views[0].Joined || views[0].ParticipantCount != 2 {
		t.Errorf("view = joined:%v count:%d, want joined:true count:2", views[0].Joined, views[0].ParticipantCount)
	}

	// Give rival more points so placement is deterministic
	if _, err := f.ApplySnapshot("rival", models.GameStateSnapshot{PouClicks: 500}); err != nil {
		t.Fatal(err)
	}

	events := f.SettleDueTournaments(end)
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].PlayerID != "rival" || events[0].Reward.Coins != 100 {
		t.Errorf("first payout = %s/%d, want rival/100", events[0].PlayerID, events[0].Reward.Coins)
	}

	rival, _ := f.Profile("rival")
	if rival.Coins != 100 {
		t.Errorf("rival coins = %d, want 100", rival.Coins)
	}

	// Settled tournaments disappear from views and never settle twice
	if got := f.TournamentViews(end, "me"); len(got) != 0 {
		t.Errorf("settled tournament still visible: %d views", len(got))
	}
	if events := f.SettleDueTournaments(end.Add(time.Hour)); len(events) != 0 {
		t.Errorf("second settlement issued %d events", len(events))
	}
}

func TestAddTournamentDedupes(t *testing.T) {
	f := newTestFacade()
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tpl := models.Tournament{
		TemplateID: "daily_sprint", Name: "Cup", Type: models.TournamentTypeDaily,
		StartDate: start, EndDate: start.Add(24 * time.Hour),
	}
	tpl.ID = "first"
	f.AddTournament(tpl)
	tpl.ID = "second"
	f.AddTournament(tpl)

	views := f.TournamentViews(start.Add(time.Hour), "me")
	if len(views) != 1 {
		t.Errorf("views = %d after re-seeding same window, want 1", len(views))
	}
}

func TestLeaderboardThroughFacade(t *testing.T) {
	f := newTestFacade()
	registerPlayer(f, "a")
	registerPlayer(f, "b")

	if _, err := f.ApplySnapshot("b", models.GameStateSnapshot{PouClicks: 100}); err != nil {
		t.Fatal(err)
	}

	entries := f.Leaderboard()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].PlayerID != "b" || entries[0].Rank != 1 {
		t.Errorf("leader = %s rank %d, want b rank 1", entries[0].PlayerID, entries[0].Rank)
	}
}

func TestRegisterProfileRejectsDuplicateUsername(t *testing.T) {
	f := newTestFacade()

	if _, err := f.RegisterProfile(models.PlayerProfile{ID: "p1", Username: "Bob"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.RegisterProfile(models.PlayerProfile{ID: "p2", Username: "Bob"}); !errors.Is(err, models.ErrUsernameTaken) {
		t.Errorf("second Bob: err = %v, want ErrUsernameTaken", err)
	}
	if _, err := f.Profile("p2"); !errors.Is(err, models.ErrUnknownPlayer) {
		t.Error("rejected profile was still stored")
	}
}

func TestUpgradeGuestRejectsTakenUsername(t *testing.T) {
	f := newTestFacade()
	if _, err := f.RegisterProfile(models.PlayerProfile{ID: "g1", Username: "Guest_1", IsGuest: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.RegisterProfile(models.PlayerProfile{ID: "p1", Username: "Bob"}); err != nil {
		t.Fatal(err)
	}

	if _, err := f.UpgradeGuestProfile("g1", "Bob", nil, "hash"); !errors.Is(err, models.ErrUsernameTaken) {
		t.Errorf("upgrade to taken name: err = %v, want ErrUsernameTaken", err)
	}

	// Keeping your own name is fine.
	p, err := f.UpgradeGuestProfile("g1", "Guest_1", nil, "hash")
	if err != nil {
		t.Fatalf("upgrade keeping own name: %v", err)
	}
	if p.IsGuest {
		t.Error("profile still flagged as guest after upgrade")
	}
}

func TestSettlementRewardsDeliveredOnce(t *testing.T) {
	f := newTestFacade()
	registerPlayer(f, "me")
	if _, err := f.RegisterProfile(models.PlayerProfile{
		ID: "bot1", Username: "MilkyWay", IsBot: true, RankPoints: 9000,
	}); err != nil {
		t.Fatal(err)
	}

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	f.AddTournament(models.Tournament{
		ID: "cup", TemplateID: "daily_sprint", Name: "Cup",
		Type: models.TournamentTypeDaily, StartDate: start, EndDate: end,
		FirstCoins: 100, SecondCoins: 50, ThirdCoins: 25,
	})

	active := start.Add(time.Hour)
	if err := f.JoinTournament("cup", "me", active); err != nil {
		t.Fatal(err)
	}
	if err := f.JoinTournament("cup", "bot1", active); err != nil {
		t.Fatal(err)
	}

	f.SettleDueTournaments(end)

	// The bot placed first but has no client; only the real player's
	// payout is banked for delivery.
	events := f.DrainRewardEvents("me")
	if len(events) != 1 {
		t.Fatalf("banked events = %d, want 1", len(events))
	}
	if events[0].Source != "tournament" || events[0].SourceID != "cup" || events[0].Reward.Coins != 50 {
		t.Errorf("event = %+v, want tournament/cup/50 coins", events[0])
	}

	if got := f.DrainRewardEvents("me"); len(got) != 0 {
		t.Errorf("second drain returned %d events, want 0", len(got))
	}
	if got := f.DrainRewardEvents("bot1"); len(got) != 0 {
		t.Errorf("bot had %d banked events, want 0", len(got))
	}
}

func TestRegisterProfileIdempotent(t *testing.T) {
	f := newTestFacade()
	registerPlayer(f, "me")

	if _, err := f.ApplySnapshot("me", models.GameStateSnapshot{PouClicks: 10}); err != nil {
		t.Fatal(err)
	}
	// Re-registering the same id must not reset progress
	f.RegisterProfile(models.PlayerProfile{ID: "me", Username: "other"})

	p, _ := f.Profile("me")
	if p.PouClicks != 10 {
		t.Errorf("pou clicks = %d after re-register, want 10", p.PouClicks)
	}
}
