package models

import "time"

// User account
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:100;not null;default:''"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:191;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;size:255;not null"`
	IsAdmin      bool      `json:"isAdmin" gorm:"default:false;index"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}

// UserRef is the owner summary attached to admin listings.
type UserRef struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Ref returns the owner summary, nil when the user was not loaded.
func (u *User) Ref() *UserRef {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}
