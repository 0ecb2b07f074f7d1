package models

import "time"

// Industry is a market the studio works in.
type Industry struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"size:1024" json:"image"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// TableName overrides the table name.
func (Industry) TableName() string { return "industries" }

// GetID returns the surrogate id.
func (i *Industry) GetID() string { return i.ID }

// SetCollection is a no-op, industries have no child collections.
func (i *Industry) SetCollection(string, []string) {}
