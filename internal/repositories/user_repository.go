package repositories

import (
	"errors"

	"skillswap_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	// User operations
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByUsername(db *gorm.DB, username string) (*models.User, error)
	FindWithRelations(db *gorm.DB, id string) (*models.User, error)
	ExistsByEmail(db *gorm.DB, email, excludeID string) (bool, error)
	ExistsByUsername(db *gorm.DB, username, excludeID string) (bool, error)
	UpdateFields(db *gorm.DB, userID string, fields map[string]interface{}) error
	ReplaceSkills(db *gorm.DB, user *models.User, skills []models.Skill) error
	ReplaceInterests(db *gorm.DB, user *models.User, skills []models.Skill) error

	// Token operations
	DebitTokens(db *gorm.DB, userID string, amount int) (bool, error)
	CreditTokens(db *gorm.DB, userID string, amount int) error
	GetTokenBalance(db *gorm.DB, userID string) (int, error)

	// Match operations
	AddMatch(db *gorm.DB, userID, otherID string) error
	IsMatched(db *gorm.DB, userID, otherID string) (bool, error)
	AddMatchRequest(db *gorm.DB, userID, requesterID string) error
	HasMatchRequest(db *gorm.DB, userID, requesterID string) (bool, error)
	RemoveMatchRequest(db *gorm.DB, userID, requesterID string) error
	AddRejection(db *gorm.DB, userID, rejectedID string) error
	FindCandidates(db *gorm.DB, userID string, limit int) ([]models.User, error)
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("email = ? OR username = ?", user.Email, user.Username).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUserAlreadyExists
	}
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	return r.findOne(db, "id = ?", id)
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	return r.findOne(db, "email = ?", email)
}

func (r *UserRepositoryImpl) FindByUsername(db *gorm.DB, username string) (*models.User, error) {
	return r.findOne(db.Preload("Skills").Preload("Interests").Preload("SkillVideos"), "username = ?", username)
}

// FindWithRelations loads everything the profile and swipe screens need.
func (r *UserRepositoryImpl) FindWithRelations(db *gorm.DB, id string) (*models.User, error) {
	q := db.Preload("Skills").Preload("Interests").Preload("SkillVideos").
		Preload("Matches").Preload("Matches.Skills").Preload("Matches.SkillVideos").
		Preload("MatchRequests").Preload("Rejected")
	return r.findOne(q, "id = ?", id)
}

func (r *UserRepositoryImpl) findOne(db *gorm.DB, query string, arg string) (*models.User, error) {
	var user models.User
	if err := db.Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) ExistsByEmail(db *gorm.DB, email, excludeID string) (bool, error) {
	return r.exists(db, "email = ?", email, excludeID)
}

func (r *UserRepositoryImpl) ExistsByUsername(db *gorm.DB, username, excludeID string) (bool, error) {
	return r.exists(db, "username = ?", username, excludeID)
}

func (r *UserRepositoryImpl) exists(db *gorm.DB, query, arg, excludeID string) (bool, error) {
	q := db.Model(&models.User{}).Where(query, arg)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepositoryImpl) UpdateFields(db *gorm.DB, userID string, fields map[string]interface{}) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(fields)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) ReplaceSkills(db *gorm.DB, user *models.User, skills []models.Skill) error {
	return db.Model(user).Association("Skills").Replace(skills)
}

func (r *UserRepositoryImpl) ReplaceInterests(db *gorm.DB, user *models.User, skills []models.Skill) error {
	return db.Model(user).Association("Interests").Replace(skills)
}

// Token operations

// DebitTokens subtracts amount only when the balance covers it. A false return means nothing changed.
func (r *UserRepositoryImpl) DebitTokens(db *gorm.DB, userID string, amount int) (bool, error) {
	result := db.Model(&models.User{}).
		Where("id = ? AND COALESCE(tokens, ?) >= ?", userID, models.DefaultTokens, amount).
		Update("tokens", gorm.Expr("COALESCE(tokens, ?) - ?", models.DefaultTokens, amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *UserRepositoryImpl) CreditTokens(db *gorm.DB, userID string, amount int) error {
	result := db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("tokens", gorm.Expr("COALESCE(tokens, ?) + ?", models.DefaultTokens, amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) GetTokenBalance(db *gorm.DB, userID string) (int, error) {
	var user models.User
	if err := db.Select("id", "tokens").Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return user.TokenBalance(), nil
}

// Match operations

type joinRow struct {
	UserID  string
	OtherID string
}

// AddMatch links both users to each other.
func (r *UserRepositoryImpl) AddMatch(db *gorm.DB, userID, otherID string) error {
	for _, pair := range []joinRow{{userID, otherID}, {otherID, userID}} {
		if err := r.insertJoin(db, "user_matches", "match_id", pair); err != nil {
			return err
		}
	}
	return nil
}

func (r *UserRepositoryImpl) IsMatched(db *gorm.DB, userID, otherID string) (bool, error) {
	return r.joinExists(db, "user_matches", "match_id", userID, otherID)
}

func (r *UserRepositoryImpl) AddMatchRequest(db *gorm.DB, userID, requesterID string) error {
	return r.insertJoin(db, "user_match_requests", "requester_id", joinRow{userID, requesterID})
}

func (r *UserRepositoryImpl) HasMatchRequest(db *gorm.DB, userID, requesterID string) (bool, error) {
	return r.joinExists(db, "user_match_requests", "requester_id", userID, requesterID)
}

func (r *UserRepositoryImpl) RemoveMatchRequest(db *gorm.DB, userID, requesterID string) error {
	return db.Exec("DELETE FROM user_match_requests WHERE user_id = ? AND requester_id = ?", userID, requesterID).Error
}

func (r *UserRepositoryImpl) AddRejection(db *gorm.DB, userID, rejectedID string) error {
	return r.insertJoin(db, "user_rejections", "rejected_id", joinRow{userID, rejectedID})
}

func (r *UserRepositoryImpl) insertJoin(db *gorm.DB, table, otherColumn string, row joinRow) error {
	exists, err := r.joinExists(db, table, otherColumn, row.UserID, row.OtherID)
	if err != nil || exists {
		return err
	}
	return db.Exec("INSERT INTO "+table+" (user_id, "+otherColumn+") VALUES (?, ?)", row.UserID, row.OtherID).Error
}

func (r *UserRepositoryImpl) joinExists(db *gorm.DB, table, otherColumn, userID, otherID string) (bool, error) {
	var count int64
	err := db.Table(table).Where("user_id = ? AND "+otherColumn+" = ?", userID, otherID).Count(&count).Error
	return count > 0, err
}

// FindCandidates returns users the given user has not matched, rejected or already liked.
func (r *UserRepositoryImpl) FindCandidates(db *gorm.DB, userID string, limit int) ([]models.User, error) {
	var users []models.User
	q := db.Preload("Skills").Preload("Interests").Preload("SkillVideos").
		Where("id <> ?", userID).
		Where("id NOT IN (?)", db.Table("user_matches").Select("match_id").Where("user_id = ?", userID)).
		Where("id NOT IN (?)", db.Table("user_rejections").Select("rejected_id").Where("user_id = ?", userID)).
		Where("id NOT IN (?)", db.Table("user_match_requests").Select("user_id").Where("requester_id = ?", userID)).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
