package models

import "strings"

// DefaultTokens is the starting balance, and the balance assumed for rows whose tokens column is NULL.
const DefaultTokens = 100

type User struct {
	BaseModel
	FName        string `gorm:"column:fname;size:20;not null"`
	LName        string `gorm:"column:lname;size:20;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	Username     string `gorm:"uniqueIndex;size:15;not null"`
	PasswordHash string `gorm:"not null"`
	Bio          string
	Tokens       *int `gorm:"default:100"`

	// Relations
	Skills        []Skill      `gorm:"many2many:user_skills"`
	Interests     []Skill      `gorm:"many2many:user_interests"`
	Matches       []*User      `gorm:"many2many:user_matches;joinForeignKey:UserID;joinReferences:MatchID"`
	MatchRequests []*User      `gorm:"many2many:user_match_requests;joinForeignKey:UserID;joinReferences:RequesterID"`
	Rejected      []*User      `gorm:"many2many:user_rejections;joinForeignKey:UserID;joinReferences:RejectedID"`
	SkillVideos   []SkillVideo `gorm:"foreignKey:UserID"`
}

// TokenBalance is the only place a balance is read from a loaded user.
func (u *User) TokenBalance() int {
	if u == nil || u.Tokens == nil {
		return DefaultTokens
	}
	return *u.Tokens
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FName + " " + u.LName)
}

// HasMatch reports whether userID is in the (preloaded) match list.
func (u *User) HasMatch(userID string) bool {
	for _, m := range u.Matches {
		if m != nil && m.ID == userID {
			return true
		}
	}
	return false
}

// SkillVideoMap flattens the preloaded videos into skill -> url. Missing skills are simply absent.
func (u *User) SkillVideoMap() map[string]string {
	videos := make(map[string]string, len(u.SkillVideos))
	for _, v := range u.SkillVideos {
		videos[v.Skill] = v.URL
	}
	return videos
}

func SkillNames(skills []Skill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return names
}
