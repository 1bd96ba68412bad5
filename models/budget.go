package models

import (
	"time"

	"gorm.io/gorm"
)

// 预算状态常量
const (
	// BudgetStatusActive 进行中：可继续缴款
	BudgetStatusActive = "ACTIVE"
	// BudgetStatusExpired 已过期：超过截止日期，终态
	BudgetStatusExpired = "EXPIRED"
	// BudgetStatusFinished 已完成：缴款总额达到预算总额，终态
	BudgetStatusFinished = "FINISHED"
)

// Budget 预算模型
// 利率在创建时从利率配置表快照到 InterestRate 字段，之后修改配置表不影响已有预算
type Budget struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Code           string         `json:"code" gorm:"uniqueIndex;size:10;not null"` // 预算编号，如 001A
	UserID         uint           `json:"user_id" gorm:"index;not null"`
	BaseAmount     float64        `json:"base_amount" gorm:"type:decimal(10,2);not null"`
	TotalAmount    float64        `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	InterestRate   float64        `json:"interest_rate" gorm:"type:decimal(5,2);not null"`
	PaymentTerm    int            `json:"payment_term" gorm:"not null"`
	Status         string         `json:"status" gorm:"size:20;default:ACTIVE;index"`
	ExpirationDate time.Time      `json:"expiration_date" gorm:"not null"`
	Quotas         []Quota        `json:"quotas,omitempty" gorm:"foreignKey:BudgetID"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
	User           User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (Budget) TableName() string {
	return "budgets"
}

// GetBudgetStatuses 获取所有预算状态
func GetBudgetStatuses() []string {
	return []string{
		BudgetStatusActive,
		BudgetStatusExpired,
		BudgetStatusFinished,
	}
}

// IsValidBudgetStatus 判断是否为合法的预算状态
func IsValidBudgetStatus(status string) bool {
	switch status {
	case BudgetStatusActive, BudgetStatusExpired, BudgetStatusFinished:
		return true
	}
	return false
}
