package models

import "time"

// Income earning record
type Income struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"index;not null"`
	Amount    float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	Source    string    `json:"source" gorm:"size:100;not null;default:''"`
	Date      time.Time `json:"date" gorm:"index;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	User      *User     `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (Income) TableName() string {
	return "incomes"
}
