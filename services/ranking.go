// services/ranking.go - Ranking Calculator
package services

import (
	"sort"

	"petpal/models"
)

// Rank tiers, lowest to highest.
const (
	TierBronze   = "Bronze"
	TierSilver   = "Silver"
	TierGold     = "Gold"
	TierPlatinum = "Platinum"
	TierDiamond  = "Diamond"
	TierMaster   = "Master"
)

// TierThreshold is a minimum-points entry in the tier table. The table is
// configuration: retune thresholds here without touching RankTier.
type TierThreshold struct {
	Tier      string
	MinPoints int
}

// tierTable must be ascending by MinPoints.
var tierTable = []TierThreshold{
	{TierBronze, 0},
	{TierSilver, 1000},
	{TierGold, 2500},
	{TierPlatinum, 5000},
	{TierDiamond, 10000},
	{TierMaster, 20000},
}

// RankTier maps rank points onto the tier table.
func RankTier(points int) string {
	tier := tierTable[0].Tier
	for _, t := range tierTable {
		if points >= t.MinPoints {
			tier = t.Tier
		}
	}
	return tier
}

// TierTable returns a copy of the threshold configuration.
func TierTable() []TierThreshold {
	out := make([]TierThreshold, len(tierTable))
	copy(out, tierTable)
	return out
}

// ComputeLeaderboard derives a gap-free 1-based ranking over the given
// profiles. Order: rank points desc, then level desc, then earlier join
// date, then id, which makes the ordering total and the output
// deterministic for any input. Recomputed on demand, never stored.
func ComputeLeaderboard(profiles []models.PlayerProfile) []models.LeaderboardEntry {
	sorted := make([]models.PlayerProfile, len(profiles))
	copy(sorted, profiles)

	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.RankPoints != b.RankPoints {
			return a.RankPoints > b.RankPoints
		}
		if a.Level != b.Level {
			return a.Level > b.Level
		}
		if !a.JoinDate.Equal(b.JoinDate) {
			return a.JoinDate.Before(b.JoinDate)
		}
		return a.ID < b.ID
	})

	entries := make([]models.LeaderboardEntry, len(sorted))
	for i, p := range sorted {
		entries[i] = models.LeaderboardEntry{
			Rank:       i + 1,
			PlayerID:   p.ID,
			Username:   p.Username,
			Avatar:     p.Avatar,
			Level:      p.Level,
			RankPoints: p.RankPoints,
			Online:     p.Online,
			Tier:       RankTier(p.RankPoints),
		}
	}
	return entries
}

// TopPlayers returns the first n leaderboard entries.
func TopPlayers(profiles []models.PlayerProfile, n int) []models.LeaderboardEntry {
	entries := ComputeLeaderboard(profiles)
	if n < len(entries) {
		entries = entries[:n]
	}
	return entries
}
