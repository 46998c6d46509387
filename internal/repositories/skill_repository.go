package repositories

import (
	"skillswap_backend/internal/models"

	"gorm.io/gorm"
)

type SkillRepository interface {
	FindAll(db *gorm.DB) ([]models.Skill, error)
	FindByNames(db *gorm.DB, names []string) ([]models.Skill, error)
}

type SkillRepositoryImpl struct{}

func NewSkillRepository() SkillRepository {
	return &SkillRepositoryImpl{}
}

func (r *SkillRepositoryImpl) FindAll(db *gorm.DB) ([]models.Skill, error) {
	var skills []models.Skill
	err := db.Order("name ASC").Find(&skills).Error
	return skills, err
}

// FindByNames returns the catalog entries among names; unknown names are silently dropped.
func (r *SkillRepositoryImpl) FindByNames(db *gorm.DB, names []string) ([]models.Skill, error) {
	if len(names) == 0 {
		return []models.Skill{}, nil
	}
	var skills []models.Skill
	err := db.Where("name IN ?", names).Order("name ASC").Find(&skills).Error
	return skills, err
}
