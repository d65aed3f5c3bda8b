// services/tournament.go - Tournament Manager
package services

import (
	"sort"
	"time"

	"petpal/models"
)

// SettlementPayout is one placement's result from settling a tournament.
type SettlementPayout struct {
	PlayerID string
	Rank     int
	Reward   models.Reward
}

// JoinTournament adds a player to a tournament. Joining twice is a no-op,
// not an error, so replayed join commands cannot corrupt membership.
// Returns true when the player was actually added.
func JoinTournament(t *models.Tournament, playerID string, now time.Time) (bool, error) {
	if t.Status(now) != models.TournamentActive {
		return false, models.ErrTournamentNotActive
	}
	for _, p := range t.Participants {
		if p.PlayerID == playerID {
			return false, nil
		}
	}
	t.Participants = append(t.Participants, models.TournamentParticipant{
		TournamentID: t.ID,
		PlayerID:     playerID,
		JoinedAt:     now,
	})
	return true, nil
}

// SettleTournament computes final placements and the top-3 payouts for an
// ended tournament, exactly once. Scoring uses the participants' profiles
// as they stand at settlement time, ordered by the same total order as the
// global leaderboard, so the result is deterministic. A tournament with no
// participants settles with no payouts. Repeat calls fail with
// ErrAlreadySettled.
func SettleTournament(t *models.Tournament, profiles map[string]*models.PlayerProfile, now time.Time) ([]SettlementPayout, error) {
	if t.Settled {
		return nil, models.ErrAlreadySettled
	}
	if t.Status(now) != models.TournamentEnded {
		return nil, models.ErrTournamentNotEnded
	}

	// Rank participants by their profile at settlement time.
	ranked := make([]models.PlayerProfile, 0, len(t.Participants))
	for _, p := range t.Participants {
		if prof, ok := profiles[p.PlayerID]; ok {
			ranked = append(ranked, *prof)
		}
	}
	entries := ComputeLeaderboard(ranked)

	rankByPlayer := make(map[string]models.LeaderboardEntry, len(entries))
	for _, e := range entries {
		rankByPlayer[e.PlayerID] = e
	}
	for i := range t.Participants {
		if e, ok := rankByPlayer[t.Participants[i].PlayerID]; ok {
			t.Participants[i].FinalRank = e.Rank
			t.Participants[i].FinalScore = e.RankPoints
		}
	}

	tiers := t.Tiers()
	tierRewards := []models.Reward{tiers.First, tiers.Second, tiers.Third}

	var payouts []SettlementPayout
	for _, e := range entries {
		if e.Rank > 3 {
			break
		}
		payouts = append(payouts, SettlementPayout{
			PlayerID: e.PlayerID,
			Rank:     e.Rank,
			Reward:   tierRewards[e.Rank-1],
		})
	}

	t.Settled = true
	settledAt := now
	t.SettledAt = &settledAt
	return payouts, nil
}

// DueTournaments returns the tournaments that have ended but not yet been
// settled, oldest end date first so settlement order is stable.
func DueTournaments(tournaments map[string]*models.Tournament, now time.Time) []*models.Tournament {
	var due []*models.Tournament
	for _, t := range tournaments {
		if !t.Settled && t.Status(now) == models.TournamentEnded {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].EndDate.Equal(due[j].EndDate) {
			return due[i].EndDate.Before(due[j].EndDate)
		}
		return due[i].ID < due[j].ID
	})
	return due
}
