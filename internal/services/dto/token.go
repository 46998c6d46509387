package dto

type WatchVideoRequest struct {
	VideoOwnerUsername string `json:"videoOwnerUsername" validate:"required,not-blank"`
	SkillName          string `json:"skillName" validate:"required,not-blank"`
}

type WatchVideoResponse struct {
	Message         string `json:"message"`
	NewTokenBalance int    `json:"newTokenBalance"`
	TokensSpent     int    `json:"tokensSpent"`
}

type TokenBalanceResponse struct {
	Tokens   int    `json:"tokens"`
	Username string `json:"username"`
}

// InsufficientTokensDetails is attached to INSUFFICIENT_TOKENS errors.
type InsufficientTokensDetails struct {
	CurrentTokens int `json:"currentTokens"`
	Required      int `json:"required"`
}
