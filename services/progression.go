// services/progression.go - Progression Facade
//
// The facade is the one boundary the rest of the app talks to, and the
// sole writer of all mutable progression state: player profiles,
// achievement states and tournament membership live in maps keyed by id
// behind a single mutex. Readers always get copies, never references into
// the maps. The database is a write-through persistence collaborator; a
// nil DB runs the engine purely in memory (tests do this).
package services

import (
	"log"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"petpal/models"
)

type Progression struct {
	mu      sync.Mutex
	db      *gorm.DB
	catalog *Catalog
	tracker *Tracker

	profiles    map[string]*models.PlayerProfile
	states      map[string]map[string]*models.AchievementState // player id -> achievement id -> state
	tournaments map[string]*models.Tournament

	// Reward events from background settlement, banked per real player
	// until the client's next sync picks them up.
	pending map[string][]models.RewardEvent

	listeners []func()
}

var progression *Progression

// InitProgression builds the singleton facade and restores persisted state.
func InitProgression(db *gorm.DB) *Progression {
	progression = NewProgression(db)
	if db != nil {
		if err := progression.loadState(); err != nil {
			log.Fatalf("❌ Failed to restore progression state: %v", err)
		}
	}
	return progression
}

// GetProgression returns the initialized facade.
func GetProgression() *Progression {
	return progression
}

func NewProgression(db *gorm.DB) *Progression {
	catalog := GetCatalog()
	return &Progression{
		db:          db,
		catalog:     catalog,
		tracker:     NewTracker(catalog),
		profiles:    make(map[string]*models.PlayerProfile),
		states:      make(map[string]map[string]*models.AchievementState),
		tournaments: make(map[string]*models.Tournament),
		pending:     make(map[string][]models.RewardEvent),
	}
}

// OnLeaderboardChange registers a callback fired after any mutation that
// can reorder the leaderboard. Callbacks run under the facade lock and
// must not call back into the facade; the websocket feed just signals a
// channel.
func (f *Progression) OnLeaderboardChange(fn func()) {
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
}

func (f *Progression) notifyLeaderboard() {
	for _, fn := range f.listeners {
		fn()
	}
}

// loadState restores profiles, achievement states and tournaments from the
// persistence collaborator.
func (f *Progression) loadState() error {
	var profiles []models.PlayerProfile
	if err := f.db.Find(&profiles).Error; err != nil {
		return err
	}
	for i := range profiles {
		p := profiles[i]
		f.profiles[p.ID] = &p
		f.states[p.ID] = make(map[string]*models.AchievementState)
	}

	var states []models.AchievementState
	if err := f.db.Find(&states).Error; err != nil {
		return err
	}
	for i := range states {
		s := states[i]
		if byID, ok := f.states[s.PlayerID]; ok {
			byID[s.AchievementID] = &s
		}
	}

	var tournaments []models.Tournament
	if err := f.db.Preload("Participants").Find(&tournaments).Error; err != nil {
		return err
	}
	for i := range tournaments {
		t := tournaments[i]
		f.tournaments[t.ID] = &t
	}

	log.Printf("✅ Progression state restored: %d players, %d tournaments",
		len(f.profiles), len(f.tournaments))
	return nil
}

// RegisterProfile adds a new player with zeroed achievement states. A
// profile that already exists is left untouched. Usernames are unique
// across all profiles; the check lives here, not in the schema's unique
// index, so an in-memory duplicate can never silently fail write-through.
func (f *Progression) RegisterProfile(p models.PlayerProfile) (models.PlayerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if existing, ok := f.profiles[p.ID]; ok {
		return existing.Clone(), nil
	}
	for _, existing := range f.profiles {
		if existing.Username == p.Username {
			return models.PlayerProfile{}, models.ErrUsernameTaken
		}
	}

	prof := p
	f.profiles[prof.ID] = &prof
	byID := make(map[string]*models.AchievementState)
	for _, s := range f.tracker.NewStates(prof.ID) {
		byID[s.AchievementID] = s
		f.persistState(s)
	}
	f.states[prof.ID] = byID
	f.persistProfile(&prof)
	return prof.Clone(), nil
}

// AddTournament registers a tournament instance. Existing ids are kept,
// so re-seeding the same windows is idempotent.
func (f *Progression) AddTournament(t models.Tournament) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.tournaments {
		if existing.TemplateID == t.TemplateID && existing.StartDate.Equal(t.StartDate) {
			return
		}
	}
	tt := t
	f.tournaments[tt.ID] = &tt
	f.persistTournament(&tt)
}

// BotCount reports how many simulated profiles exist.
func (f *Progression) BotCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, p := range f.profiles {
		if p.IsBot {
			n++
		}
	}
	return n
}

// Profile returns a copy of a player profile.
func (f *Progression) Profile(playerID string) (models.PlayerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[playerID]
	if !ok {
		return models.PlayerProfile{}, models.ErrUnknownPlayer
	}
	return p.Clone(), nil
}

// ProfileByUsername returns a copy of a player profile looked up by name.
func (f *Progression) ProfileByUsername(username string) (models.PlayerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.profiles {
		if p.Username == username {
			return p.Clone(), nil
		}
	}
	return models.PlayerProfile{}, models.ErrUnknownPlayer
}

// UpgradeGuestProfile converts a guest profile into a registered account.
// Progression state (points, achievements, coins) carries over untouched.
func (f *Progression) UpgradeGuestProfile(playerID, username string, email *string, passwordHash string) (models.PlayerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[playerID]
	if !ok {
		return models.PlayerProfile{}, models.ErrUnknownPlayer
	}
	for _, existing := range f.profiles {
		if existing.ID != playerID && existing.Username == username {
			return models.PlayerProfile{}, models.ErrUsernameTaken
		}
	}
	p.Username = username
	p.Email = email
	p.Password = passwordHash
	p.IsGuest = false
	f.persistProfile(p)
	return p.Clone(), nil
}

// ApplySnapshot feeds a game-state snapshot through the achievement
// tracker and folds the snapshot's lifetime counters into the profile.
// Counters only move forward; a stale snapshot cannot roll them back.
// Returns the achievements newly achieved by this snapshot.
func (f *Progression) ApplySnapshot(playerID string, snapshot models.GameStateSnapshot) ([]models.AchievementView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[playerID]
	if !ok {
		return nil, models.ErrUnknownPlayer
	}

	delta := foldCounters(p, snapshot)
	p.RankPoints += delta
	p.Online = true
	p.LastActive = time.Now()

	// Lifetime counters are monotonic; a stale snapshot cannot roll
	// progress back. Live stats (happiness etc.) pass through as-is.
	snapshot.PouClicks = p.PouClicks
	snapshot.ItemsPurchased = p.ItemsPurchased
	snapshot.CustomizationChanges = p.CustomizationChanges
	snapshot.EventsParticipated = p.EventsParticipated
	snapshot.TotalPlayTimeSeconds = p.TotalPlayTimeSeconds

	byID := f.states[playerID]
	states := make([]*models.AchievementState, 0, len(byID))
	for _, s := range byID {
		states = append(states, s)
	}

	newly := f.tracker.RecomputeProgress(snapshot, states)
	p.AchievementsUnlocked += len(newly)
	p.Level = 1 + p.AchievementsUnlocked

	for _, s := range states {
		f.persistState(s)
	}
	f.persistProfile(p)

	views := make([]models.AchievementView, 0, len(newly))
	for _, s := range newly {
		if def, ok := f.catalog.Achievement(s.AchievementID); ok {
			views = append(views, stateView(def, s))
		}
	}

	if delta > 0 {
		f.notifyLeaderboard()
	}
	return views, nil
}

// foldCounters advances the profile's monotonic counters toward the
// snapshot values and returns the rank-point delta earned by the movement.
func foldCounters(p *models.PlayerProfile, s models.GameStateSnapshot) int {
	delta := 0
	if s.PouClicks > p.PouClicks {
		delta += s.PouClicks - p.PouClicks
		p.PouClicks = s.PouClicks
	}
	if s.ItemsPurchased > p.ItemsPurchased {
		delta += 2 * (s.ItemsPurchased - p.ItemsPurchased)
		p.ItemsPurchased = s.ItemsPurchased
	}
	if s.CustomizationChanges > p.CustomizationChanges {
		delta += 2 * (s.CustomizationChanges - p.CustomizationChanges)
		p.CustomizationChanges = s.CustomizationChanges
	}
	if s.EventsParticipated > p.EventsParticipated {
		delta += 10 * (s.EventsParticipated - p.EventsParticipated)
		p.EventsParticipated = s.EventsParticipated
	}
	if s.TotalPlayTimeSeconds > p.TotalPlayTimeSeconds {
		p.TotalPlayTimeSeconds = s.TotalPlayTimeSeconds
	}
	return delta
}

// ClaimAchievement issues an achievement reward exactly once and credits
// the coins to the player.
func (f *Progression) ClaimAchievement(playerID, achievementID string) (models.RewardEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[playerID]
	if !ok {
		return models.RewardEvent{}, models.ErrUnknownPlayer
	}
	byID, ok := f.states[playerID]
	if !ok {
		return models.RewardEvent{}, models.ErrUnknownPlayer
	}
	state, ok := byID[achievementID]
	if !ok {
		return models.RewardEvent{}, models.ErrUnknownAchievement
	}

	reward, err := f.tracker.Claim(state)
	if err != nil {
		return models.RewardEvent{}, err
	}

	p.Coins += reward.Coins
	if def, ok := f.catalog.Achievement(achievementID); ok {
		if def.Rarity == models.RarityEpic || def.Rarity == models.RarityLegendary {
			p.AddBadge(def.ID)
		}
	}

	f.persistState(state)
	f.persistProfile(p)

	return models.RewardEvent{
		Source:   "achievement",
		SourceID: achievementID,
		PlayerID: playerID,
		Reward:   reward,
	}, nil
}

// JoinTournament adds the player to an active tournament, idempotently.
func (f *Progression) JoinTournament(tournamentID, playerID string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.profiles[playerID]; !ok {
		return models.ErrUnknownPlayer
	}
	t, ok := f.tournaments[tournamentID]
	if !ok {
		return models.ErrUnknownTournament
	}

	added, err := JoinTournament(t, playerID, now)
	if err != nil {
		return err
	}
	if added {
		f.persistParticipant(&t.Participants[len(t.Participants)-1])
	}
	return nil
}

// SettleDueTournaments settles every ended, unsettled tournament and
// credits the payouts. Returns the reward events issued.
func (f *Progression) SettleDueTournaments(now time.Time) []models.RewardEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	var events []models.RewardEvent
	for _, t := range DueTournaments(f.tournaments, now) {
		payouts, err := SettleTournament(t, f.profiles, now)
		if err != nil {
			log.Printf("Tournament %s settlement skipped: %v", t.ID, err)
			continue
		}
		for _, payout := range payouts {
			event := models.RewardEvent{
				Source:   "tournament",
				SourceID: t.ID,
				PlayerID: payout.PlayerID,
				Reward:   payout.Reward,
			}
			if p, ok := f.profiles[payout.PlayerID]; ok {
				p.Coins += payout.Reward.Coins
				f.persistProfile(p)
				// Bank the event for the next sync; bots have no
				// client to deliver to.
				if !p.IsBot {
					f.pending[p.ID] = append(f.pending[p.ID], event)
				}
			}
			events = append(events, event)
		}
		f.persistTournament(t)
		for i := range t.Participants {
			f.persistParticipant(&t.Participants[i])
		}
		log.Printf("🏆 Tournament %q settled with %d payouts", t.Name, len(payouts))
	}
	return events
}

// DrainRewardEvents hands over the reward events banked for a player by
// background settlement and clears the buffer, so each event is delivered
// exactly once.
func (f *Progression) DrainRewardEvents(playerID string) []models.RewardEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	events := f.pending[playerID]
	delete(f.pending, playerID)
	return events
}

// MutateBots applies fn to every bot profile under the facade's lock.
// Real player profiles are never passed to fn; this is where the activity
// simulator's isolation invariant is enforced, not in the simulator.
func (f *Progression) MutateBots(fn func(*models.PlayerProfile)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.profiles {
		if !p.IsBot {
			continue
		}
		fn(p)
		f.persistProfile(p)
	}
	f.notifyLeaderboard()
}

// Leaderboard recomputes the full ranking from the current profile set.
func (f *Progression) Leaderboard() []models.LeaderboardEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return ComputeLeaderboard(f.profileList())
}

// TopPlayers returns the first n leaderboard entries.
func (f *Progression) TopPlayers(n int) []models.LeaderboardEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return TopPlayers(f.profileList(), n)
}

// AchievementViews builds the read model for a player's progress list, in
// catalog order.
func (f *Progression) AchievementViews(playerID string) ([]models.AchievementView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	byID, ok := f.states[playerID]
	if !ok {
		return nil, models.ErrUnknownPlayer
	}

	defs := f.catalog.Achievements()
	views := make([]models.AchievementView, 0, len(defs))
	for _, def := range defs {
		state, ok := byID[def.ID]
		if !ok {
			state = &models.AchievementState{PlayerID: playerID, AchievementID: def.ID}
		}
		views = append(views, stateView(def, state))
	}
	return views, nil
}

// TournamentViews builds the read model for tournament cards, skipping
// settled tournaments.
func (f *Progression) TournamentViews(now time.Time, playerID string) []models.TournamentView {
	f.mu.Lock()
	defer f.mu.Unlock()

	var views []models.TournamentView
	for _, t := range f.tournaments {
		if t.Settled {
			continue
		}
		joined := false
		for _, p := range t.Participants {
			if p.PlayerID == playerID {
				joined = true
				break
			}
		}
		def := *t
		def.Participants = nil
		views = append(views, models.TournamentView{
			Definition:       def,
			Status:           t.Status(now),
			ParticipantCount: len(t.Participants),
			Joined:           joined,
			RewardTiers:      t.Tiers(),
		})
	}
	sortTournamentViews(views)
	return views
}

func sortTournamentViews(views []models.TournamentView) {
	// Active first, then scheduled, then ended, earliest start first.
	order := map[models.TournamentStatus]int{
		models.TournamentActive:    0,
		models.TournamentScheduled: 1,
		models.TournamentEnded:     2,
	}
	sort.Slice(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if order[a.Status] != order[b.Status] {
			return order[a.Status] < order[b.Status]
		}
		return a.Definition.StartDate.Before(b.Definition.StartDate)
	})
}

func (f *Progression) profileList() []models.PlayerProfile {
	out := make([]models.PlayerProfile, 0, len(f.profiles))
	for _, p := range f.profiles {
		out = append(out, p.Clone())
	}
	return out
}

func stateView(def models.Achievement, s *models.AchievementState) models.AchievementView {
	return models.AchievementView{
		Definition: def,
		Current:    s.Current,
		Target:     def.Target,
		Achieved:   s.Achieved,
		Claimed:    s.Claimed,
		Reward:     def.RewardOf(),
	}
}

// Persistence helpers. The database is a collaborator, not the authority:
// write failures are logged and the in-memory state stays canonical.

func (f *Progression) persistProfile(p *models.PlayerProfile) {
	if f.db == nil {
		return
	}
	if err := f.db.Save(p).Error; err != nil {
		log.Printf("Failed to persist profile %s: %v", p.ID, err)
	}
}

func (f *Progression) persistState(s *models.AchievementState) {
	if f.db == nil {
		return
	}
	if err := f.db.Save(s).Error; err != nil {
		log.Printf("Failed to persist achievement state %s/%s: %v", s.PlayerID, s.AchievementID, err)
	}
}

func (f *Progression) persistTournament(t *models.Tournament) {
	if f.db == nil {
		return
	}
	if err := f.db.Omit("Participants").Save(t).Error; err != nil {
		log.Printf("Failed to persist tournament %s: %v", t.ID, err)
	}
}

func (f *Progression) persistParticipant(p *models.TournamentParticipant) {
	if f.db == nil {
		return
	}
	if err := f.db.Save(p).Error; err != nil {
		log.Printf("Failed to persist participant %s/%s: %v", p.TournamentID, p.PlayerID, err)
	}
}
