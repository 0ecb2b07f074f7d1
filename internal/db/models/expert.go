package models

import "time"

// Expert is a team member shown on the team page.
type Expert struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Role       string    `gorm:"size:255;not null" json:"role"`
	Bio        string    `gorm:"type:text" json:"bio"`
	Image      string    `gorm:"size:1024" json:"image"`
	Experience string    `gorm:"size:100" json:"experience"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`

	// Expertise is assembled from the expert_expertise rows.
	Expertise []string `gorm:"-" json:"expertise"`

	// ExpertiseRows only declares the child table and its cascade rule.
	ExpertiseRows []ExpertExpertise `gorm:"foreignKey:ExpertID;constraint:OnDelete:CASCADE" json:"-"`
}

// ExpertExpertise is one entry of an expert's expertise list.
type ExpertExpertise struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	ExpertID  string `gorm:"size:36;not null;index"`
	Expertise string `gorm:"size:255;not null"`
}

// TableName overrides the table name.
func (ExpertExpertise) TableName() string { return "expert_expertise" }

// GetID returns the surrogate id.
func (e *Expert) GetID() string { return e.ID }

// SetCollection stores an assembled child collection.
func (e *Expert) SetCollection(field string, values []string) {
	if field == "expertise" {
		e.Expertise = values
	}
}
