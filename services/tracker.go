// services/tracker.go - Achievement Tracker
package services

import (
	"time"

	"petpal/models"
)

// Tracker recomputes achievement progress from game-state snapshots and
// owns the claim transition. It is pure over its inputs; the progression
// facade serializes all calls.
type Tracker struct {
	catalog *Catalog
}

func NewTracker(catalog *Catalog) *Tracker {
	return &Tracker{catalog: catalog}
}

// RecomputeProgress applies each achievement's derivation rule to the
// snapshot and updates the given states in place. Progress is clamped to
// [0, target]. Achieved is set the first time the raw value reaches the
// target and is never unset, so a condition that later falls (happiness
// dipping below 90) cannot revoke claim eligibility. States without a
// matching rule are left untouched. Returns the states whose Achieved
// flag flipped on this pass.
func (t *Tracker) RecomputeProgress(snapshot models.GameStateSnapshot, states []*models.AchievementState) []*models.AchievementState {
	var newlyAchieved []*models.AchievementState

	for _, state := range states {
		def, ok := t.catalog.Achievement(state.AchievementID)
		if !ok {
			continue
		}
		fn, ok := t.catalog.Derivation(state.AchievementID)
		if !ok {
			continue
		}

		raw := fn(snapshot)
		if raw < 0 {
			raw = 0
		}

		reached := raw >= def.Target
		if raw > def.Target {
			raw = def.Target
		}
		state.Current = raw

		if reached && !state.Achieved {
			state.Achieved = true
			now := time.Now()
			state.AchievedAt = &now
			newlyAchieved = append(newlyAchieved, state)
		}
	}

	return newlyAchieved
}

// Claim issues the reward for an achieved, unclaimed achievement exactly
// once. The achieved flag, not the raw current value, gates the claim.
func (t *Tracker) Claim(state *models.AchievementState) (models.Reward, error) {
	def, ok := t.catalog.Achievement(state.AchievementID)
	if !ok {
		return models.Reward{}, models.ErrUnknownAchievement
	}
	if state.Claimed {
		return models.Reward{}, models.ErrAlreadyClaimed
	}
	if !state.Achieved {
		return models.Reward{}, models.ErrNotAchieved
	}

	state.Claimed = true
	now := time.Now()
	state.ClaimedAt = &now
	return def.RewardOf(), nil
}

// NewStates creates zeroed progress records for every catalog achievement,
// called when a player profile is created.
func (t *Tracker) NewStates(playerID string) []*models.AchievementState {
	defs := t.catalog.Achievements()
	states := make([]*models.AchievementState, 0, len(defs))
	for _, def := range defs {
		states = append(states, &models.AchievementState{
			PlayerID:      playerID,
			AchievementID: def.ID,
		})
	}
	return states
}
