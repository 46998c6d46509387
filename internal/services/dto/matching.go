package dto

// CandidatesQuery binds ?limit=; zero means the service default.
type CandidatesQuery struct {
	Limit int `form:"limit" validate:"min=0,max=100"`
}

type SwipeRequest struct {
	Username string `json:"username" validate:"required,not-blank"`
}

type SwipeCandidate struct {
	Profile PublicProfile `json:"profile"`
	Score   float64       `json:"score"`
	Reasons []string      `json:"reasons"`
}

type LikeResponse struct {
	Matched bool   `json:"matched"`
	Message string `json:"message"`
}
