package service

import (
	"errors"
	"time"

	"budget/models"

	"gorm.io/gorm"
)

// 金额比较容差，抵消浮点累加误差
const amountEpsilon = 1e-9

// StatusManager 预算状态机
// 状态只能单向流转: ACTIVE -> EXPIRED / ACTIVE -> FINISHED，终态不可再变
type StatusManager struct {
	db *gorm.DB
}

// NewStatusManager 创建状态管理器
func NewStatusManager(db *gorm.DB) *StatusManager {
	return &StatusManager{db: db}
}

// MaintenanceResult 状态维护结果
type MaintenanceResult struct {
	Expired      int64    `json:"expired"`
	Finished     int64    `json:"finished"`
	ExpiredCodes []string `json:"expired_codes,omitempty"` // 本次被置为过期的预算编号
}

// validTransitions 状态流转表，终态无出边
var validTransitions = map[string][]string{
	models.BudgetStatusActive:   {models.BudgetStatusExpired, models.BudgetStatusFinished},
	models.BudgetStatusExpired:  {},
	models.BudgetStatusFinished: {},
}

// IsValidStatusTransition 判断状态流转是否合法
func IsValidStatusTransition(current, next string) bool {
	for _, allowed := range validTransitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

// UpdateExpiredBudgets 批量将已到截止日期的进行中预算置为 EXPIRED
// 返回更新条数与涉及的预算编号（编号仅用于过期提醒邮件，以条件更新的条数为准）。
// 条件更新（status 仍为 ACTIVE）保证不会覆盖并发写入的终态；无匹配是正常结果
func (m *StatusManager) UpdateExpiredBudgets() (int64, []string, error) {
	now := time.Now()

	var codes []string
	if err := m.db.Model(&models.Budget{}).
		Where("status = ? AND expiration_date <= ?", models.BudgetStatusActive, now).
		Order("code").
		Pluck("code", &codes).Error; err != nil {
		return 0, nil, err
	}

	res := m.db.Model(&models.Budget{}).
		Where("status = ? AND expiration_date <= ?", models.BudgetStatusActive, now).
		Update("status", models.BudgetStatusExpired)
	return res.RowsAffected, codes, res.Error
}

// ShouldMarkAsFinished 判断预算的缴款总额是否已达到预算总额
func (m *StatusManager) ShouldMarkAsFinished(budgetID uint) (bool, error) {
	var budget models.Budget
	if err := m.db.Select("id, total_amount").First(&budget, budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	var totalPaid float64
	if err := m.db.Model(&models.Quota{}).
		Where("budget_id = ?", budgetID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalPaid).Error; err != nil {
		return false, err
	}

	return totalPaid+amountEpsilon >= budget.TotalAmount, nil
}

// UpdateToFinishedIfComplete 缴款总额达到预算总额时将状态置为 FINISHED
// 写入以 status 仍为 ACTIVE 为条件：与并发的过期扫描或另一次完成检查竞争时，
// 只有一次生效，其余为无害的空操作（返回 false）
func (m *StatusManager) UpdateToFinishedIfComplete(budgetID uint) (bool, error) {
	shouldFinish, err := m.ShouldMarkAsFinished(budgetID)
	if err != nil {
		return false, err
	}
	if !shouldFinish {
		return false, nil
	}

	res := m.db.Model(&models.Budget{}).
		Where("id = ? AND status = ?", budgetID, models.BudgetStatusActive).
		Update("status", models.BudgetStatusFinished)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// PerformStatusMaintenance 对全部进行中预算做一次状态维护
// 先批量处理过期，再逐个检查剩余进行中预算是否缴清。
// 顺序有意为之：同时满足过期与缴清的预算会先被置为 EXPIRED，
// 随后的完成检查只扫描仍为 ACTIVE 的预算，即过期优先于完成
func (m *StatusManager) PerformStatusMaintenance() (MaintenanceResult, error) {
	result := MaintenanceResult{}

	expired, expiredCodes, err := m.UpdateExpiredBudgets()
	if err != nil {
		return result, err
	}
	result.Expired = expired
	result.ExpiredCodes = expiredCodes

	var activeIDs []uint
	if err := m.db.Model(&models.Budget{}).
		Where("status = ?", models.BudgetStatusActive).
		Pluck("id", &activeIDs).Error; err != nil {
		return result, err
	}

	for _, id := range activeIDs {
		updated, err := m.UpdateToFinishedIfComplete(id)
		if err != nil {
			// 中断后已完成的过渡仍然有效，重跑维护可继续处理剩余预算
			return result, err
		}
		if updated {
			result.Finished++
		}
	}

	return result, nil
}

// GetStatusSummary 按状态统计未删除预算数量，三种状态始终都在结果中（缺省补零）
func (m *StatusManager) GetStatusSummary() (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}

	var rows []statusCount
	if err := m.db.Model(&models.Budget{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	summary := map[string]int64{
		models.BudgetStatusActive:   0,
		models.BudgetStatusExpired:  0,
		models.BudgetStatusFinished: 0,
	}
	for _, row := range rows {
		summary[row.Status] = row.Count
	}
	return summary, nil
}
