// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"skillswap_backend/database"
	"skillswap_backend/internal/auth"
	"skillswap_backend/internal/logger"
	"skillswap_backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// DefaultPassword is the raw password of every fixture user.
const DefaultPassword = "password123"

var (
	quietOnce sync.Once

	hashOnce   sync.Once
	cachedHash string
)

// NewTestDB opens a private in-memory sqlite database with the full schema
// and the given skill catalog seeded.
func NewTestDB(t *testing.T, catalog ...string) *gorm.DB {
	t.Helper()
	quietOnce.Do(func() { logger.InitWithWriter("test", io.Discard) })

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString()[:8])

	db, err := database.Connect(dsn, false)
	require.NoError(t, err, "open test database")
	require.NoError(t, database.AutoMigrate(db))
	if len(catalog) > 0 {
		require.NoError(t, database.SeedSkills(db, catalog))
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func passwordHash(t *testing.T) string {
	hashOnce.Do(func() {
		h, err := auth.HashPassword(DefaultPassword)
		require.NoError(t, err)
		cachedHash = h
	})
	return cachedHash
}

// CreateUser inserts a user with DefaultPassword. Zero-valued names and email are filled in
// from username.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		FName:        strings.ToUpper(username[:1]) + username[1:],
		LName:        "Tester",
		Email:        username + "@test.com",
		Username:     username,
		PasswordHash: passwordHash(t),
	}
	require.NoError(t, db.Create(user).Error, "create user %s", username)
	return user
}

// SetTokens overwrites a user's balance. nil stores NULL.
func SetTokens(t *testing.T, db *gorm.DB, userID string, tokens *int) {
	t.Helper()
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", userID).
		Update("tokens", tokens).Error)
}

// Tokens reads the stored balance through the model accessor.
func Tokens(t *testing.T, db *gorm.DB, userID string) int {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", userID).Error)
	return user.TokenBalance()
}

// AddVideo stores a skill video for user.
func AddVideo(t *testing.T, db *gorm.DB, userID, skill string) {
	t.Helper()
	require.NoError(t, db.Create(&models.SkillVideo{
		UserID: userID,
		Skill:  skill,
		URL:    "https://videos.example.com/" + strings.ReplaceAll(skill, " ", "-"),
	}).Error)
}

// Match links a and b in both directions.
func Match(t *testing.T, db *gorm.DB, a, b *models.User) {
	t.Helper()
	require.NoError(t, db.Exec("INSERT INTO user_matches (user_id, match_id) VALUES (?, ?), (?, ?)",
		a.ID, b.ID, b.ID, a.ID).Error)
}

// SetSkills replaces the user's taught skills and wanted interests by catalog name.
func SetSkills(t *testing.T, db *gorm.DB, user *models.User, skills, interests []string) {
	t.Helper()
	load := func(names []string) []models.Skill {
		var out []models.Skill
		if len(names) == 0 {
			return out
		}
		require.NoError(t, db.Where("name IN ?", names).Find(&out).Error)
		return out
	}
	require.NoError(t, db.Model(user).Association("Skills").Replace(load(skills)))
	require.NoError(t, db.Model(user).Association("Interests").Replace(load(interests)))
}
