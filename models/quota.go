package models

import (
	"time"

	"gorm.io/gorm"
)

// Quota 缴款记录模型，归属于某个预算
type Quota struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	BudgetID  uint           `json:"budget_id" gorm:"index;not null"`
	Amount    float64        `json:"amount" gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	Budget    Budget         `json:"-" gorm:"foreignKey:BudgetID"`
}

// TableName 设置表名
func (Quota) TableName() string {
	return "quotas"
}
