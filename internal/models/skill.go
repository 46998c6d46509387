package models

// Skill is a Skill Catalog entry users pick as skills or interests.
type Skill struct {
	BaseModel
	Name string `gorm:"uniqueIndex;size:100;not null"`
}
