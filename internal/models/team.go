package models

import (
	"time"

	"gorm.io/gorm"
)

type Team struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Color     string         `gorm:"type:varchar(20)" json:"color,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Members []User      `gorm:"foreignKey:TeamID" json:"members,omitempty"`
	Scores  []TeamScore `gorm:"foreignKey:TeamID" json:"-"`
}
