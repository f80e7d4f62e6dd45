package models

// LeaderboardEntry is one user's row on the leaderboard
type LeaderboardEntry struct {
	Rank           int            `json:"rank"`
	Username       string         `json:"username"`
	TotalHours     float64        `json:"total_hours"`
	RankName       string         `json:"rank_name"`
	RankEmoji      string         `json:"rank_emoji"`
	CoinsEverest   float64        `json:"coins_everest"`
	CoinsPizza     float64        `json:"coins_pizza"`
	CoinsHeartbeat int            `json:"coins_heartbeat"`
	Percentile     float64        `json:"percentile"`
	BadgesCounts   map[string]int `json:"badges_counts"`
}

// LeaderboardResponse is the API response for the leaderboard
type LeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	TotalUsers  int                `json:"total_users"`
}
