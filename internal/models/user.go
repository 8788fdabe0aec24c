package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Name         string         `gorm:"type:varchar(100)" json:"name"`
	Surname      string         `gorm:"type:varchar(100)" json:"surname"`
	Avatar       string         `gorm:"type:varchar(500)" json:"avatar,omitempty"`
	TeamID       *uint64        `gorm:"index" json:"team_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Team        *Team     `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	OwnedTasks  []Task    `gorm:"foreignKey:OwnerID" json:"-"`
	Assignments []TaskAssignment `gorm:"foreignKey:UserID" json:"-"`
	WorkLogs    []WorkLog `gorm:"foreignKey:UserID" json:"-"`
	Scores      []Score   `gorm:"foreignKey:UserID" json:"-"`
}
