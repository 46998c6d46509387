package models

// MatchResult is a swipe candidate scored against the current user.
type MatchResult struct {
	UserID  string   `json:"userId"`
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
}
