package models

import "time"

// Service is an offering listed on the services page.
type Service struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"size:1024" json:"image"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`

	Features []string `gorm:"-" json:"features"`
	Benefits []string `gorm:"-" json:"benefits"`

	FeatureRows []ServiceFeature `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE" json:"-"`
	BenefitRows []ServiceBenefit `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE" json:"-"`
}

// ServiceFeature is one feature bullet of a service.
type ServiceFeature struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	ServiceID string `gorm:"size:36;not null;index"`
	Feature   string `gorm:"size:255;not null"`
}

// TableName overrides the table name.
func (ServiceFeature) TableName() string { return "service_features" }

// ServiceBenefit is one benefit bullet of a service.
type ServiceBenefit struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	ServiceID string `gorm:"size:36;not null;index"`
	Benefit   string `gorm:"size:255;not null"`
}

// TableName overrides the table name.
func (ServiceBenefit) TableName() string { return "service_benefits" }

// GetID returns the surrogate id.
func (s *Service) GetID() string { return s.ID }

// SetCollection stores an assembled child collection.
func (s *Service) SetCollection(field string, values []string) {
	switch field {
	case "features":
		s.Features = values
	case "benefits":
		s.Benefits = values
	}
}
