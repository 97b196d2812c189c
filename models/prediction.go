package models

import "time"

// Prediction spending forecast served to a user
type Prediction struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	UserID            uint      `json:"userId" gorm:"index;not null"`
	Month             string    `json:"month" gorm:"size:7;not null"` // YYYY-MM
	PredictedSpending float64   `json:"predictedSpending" gorm:"type:decimal(12,2);not null"`
	ConfidenceScore   float64   `json:"confidenceScore" gorm:"not null"`
	CreatedAt         time.Time `json:"createdAt"`
}

// TableName 设置表名
func (Prediction) TableName() string {
	return "predictions"
}

// Recommendation advice message for a user
type Recommendation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"index;not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"autoCreateTime"`
}

// TableName 设置表名
func (Recommendation) TableName() string {
	return "recommendations"
}
