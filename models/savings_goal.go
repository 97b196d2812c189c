package models

import "time"

// SavingsGoal target amount a user saves towards
type SavingsGoal struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	UserID        uint       `json:"userId" gorm:"index;not null"`
	Title         string     `json:"title" gorm:"size:200;not null"`
	TargetAmount  float64    `json:"targetAmount" gorm:"type:decimal(12,2);not null"`
	CurrentAmount float64    `json:"currentAmount" gorm:"type:decimal(12,2);not null;default:0"`
	Deadline      *time.Time `json:"deadline"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	User          *User      `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (SavingsGoal) TableName() string {
	return "savings_goals"
}

// Reached reports whether the saved amount covers the target.
func (g *SavingsGoal) Reached() bool {
	return g.TargetAmount > 0 && g.CurrentAmount >= g.TargetAmount
}
