package dto

import "time"

type RegisterRequest struct {
	FName    string `json:"fname" validate:"required,not-blank,max=19"`
	LName    string `json:"lname" validate:"required,not-blank,max=19"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=7,max=19"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User        *UserProfile `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
}

type UpdateProfileRequest struct {
	FName    *string `json:"fname,omitempty" validate:"omitempty,not-blank,max=19"`
	LName    *string `json:"lname,omitempty" validate:"omitempty,not-blank,max=19"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Username *string `json:"username,omitempty" validate:"omitempty,username"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=500"`
}

type UpdateSkillsRequest struct {
	Skills []string `json:"skills" validate:"dive,not-blank"`
}

type UpdateInterestsRequest struct {
	Interests []string `json:"interests" validate:"dive,not-blank"`
}

type SaveVideoRequest struct {
	Skill    string `json:"skill" validate:"required,not-blank"`
	VideoURL string `json:"videoUrl" validate:"required,http-url"`
}

type DeleteVideoRequest struct {
	Skill string `json:"skill" validate:"required,not-blank"`
}

// UserProfile is the owner's own view.
type UserProfile struct {
	ID          string            `json:"id"`
	FName       string            `json:"fname"`
	LName       string            `json:"lname"`
	Email       string            `json:"email"`
	Username    string            `json:"username"`
	Bio         string            `json:"bio"`
	Tokens      int               `json:"tokens"`
	Skills      []string          `json:"skills"`
	Interests   []string          `json:"interests"`
	SkillVideos map[string]string `json:"skillVideos"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// PublicProfile is what other users see.
type PublicProfile struct {
	ID          string            `json:"id"`
	FName       string            `json:"fname"`
	LName       string            `json:"lname"`
	Username    string            `json:"username"`
	Bio         string            `json:"bio"`
	Skills      []string          `json:"skills"`
	Interests   []string          `json:"interests"`
	SkillVideos map[string]string `json:"skillVideos"`
}

type NotificationResponse struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	IsRead    bool        `json:"isRead"`
	CreatedAt time.Time   `json:"createdAt"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unreadCount"`
}

type SkillResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
