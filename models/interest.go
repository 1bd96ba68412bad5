package models

import (
	"time"

	"gorm.io/gorm"
)

// Interest 利率配置模型：分期期数 -> 利率百分比
type Interest struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	PaymentTerm int            `json:"payment_term" gorm:"uniqueIndex;not null"` // 分期期数
	Rate        float64        `json:"rate" gorm:"type:decimal(5,2);not null"`   // 利率百分比 [0,100]
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Interest) TableName() string {
	return "interests"
}

// DefaultInterestConfig 默认利率配置项
type DefaultInterestConfig struct {
	PaymentTerm int
	Rate        float64
}

// GetDefaultInterestConfigs 获取默认利率配置（仅在表为空时初始化）
func GetDefaultInterestConfigs() []DefaultInterestConfig {
	return []DefaultInterestConfig{
		{PaymentTerm: 1, Rate: 0},   // 一次性付清无利息
		{PaymentTerm: 3, Rate: 5},   // 3 期 5%
		{PaymentTerm: 6, Rate: 10},  // 6 期 10%
		{PaymentTerm: 12, Rate: 15}, // 12 期 15%
		{PaymentTerm: 24, Rate: 25}, // 24 期 25%
	}
}
