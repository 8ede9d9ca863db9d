package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Password     string `gorm:"not null" json:"-"`
	Name         string `gorm:"not null" json:"name"`
	Status       string `gorm:"default:'active'" json:"status"`
	TokenVersion int    `gorm:"default:1" json:"-"`
}
