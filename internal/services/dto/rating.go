package dto

import "time"

type RateVideoRequest struct {
	VideoOwnerUsername string `json:"videoOwnerUsername" validate:"required,not-blank"`
	Skill              string `json:"skill" validate:"required,not-blank"`
	Rating             *int   `json:"rating" validate:"required"`
}

type RateVideoResponse struct {
	Message       string  `json:"message"`
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int     `json:"totalRatings"`
}

type RatingEntry struct {
	Username  string    `json:"username"`
	FName     string    `json:"fname"`
	LName     string    `json:"lname"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

type VideoRatingsResponse struct {
	AverageRating float64       `json:"averageRating"`
	TotalRatings  int           `json:"totalRatings"`
	Ratings       []RatingEntry `json:"ratings"`
}

type RatingSummary struct {
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int     `json:"totalRatings"`
}
