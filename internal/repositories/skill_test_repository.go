package repositories

import (
	"errors"

	"skillswap_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrTestResultNotFound = errors.New("test result not found")
	ErrSessionAlreadyUsed = errors.New("test session already submitted")
)

type SkillTestRepository interface {
	Create(db *gorm.DB, result *models.SkillTestResult) error
	SessionUsed(db *gorm.DB, sessionID string) (bool, error)
	FindByUser(db *gorm.DB, userID string) ([]models.SkillTestResult, error)
	FindCertificate(db *gorm.DB, userID, certificateID string) (*models.SkillTestResult, error)
}

type SkillTestRepositoryImpl struct{}

func NewSkillTestRepository() SkillTestRepository {
	return &SkillTestRepositoryImpl{}
}

func (r *SkillTestRepositoryImpl) Create(db *gorm.DB, result *models.SkillTestResult) error {
	if err := db.Create(result).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSessionAlreadyUsed
		}
		return err
	}
	return nil
}

func (r *SkillTestRepositoryImpl) SessionUsed(db *gorm.DB, sessionID string) (bool, error) {
	var count int64
	err := db.Model(&models.SkillTestResult{}).Where("session_id = ?", sessionID).Count(&count).Error
	return count > 0, err
}

// FindByUser returns the user's results, most recent first.
func (r *SkillTestRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.SkillTestResult, error) {
	var results []models.SkillTestResult
	err := db.Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&results).Error
	return results, err
}

// FindCertificate only matches passed results owned by userID.
func (r *SkillTestRepositoryImpl) FindCertificate(db *gorm.DB, userID, certificateID string) (*models.SkillTestResult, error) {
	var result models.SkillTestResult
	err := db.Where("user_id = ? AND certificate_id = ? AND passed = ?", userID, certificateID, true).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestResultNotFound
		}
		return nil, err
	}
	return &result, nil
}
