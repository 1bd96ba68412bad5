package service

import (
	"errors"

	"budget/models"

	"gorm.io/gorm"
)

// QuotaService 缴款记录服务
// 新增缴款走 BudgetService.AddQuota；此处负责查询、修改、删除与统计
type QuotaService struct {
	db            *gorm.DB
	statusManager *StatusManager
}

// NewQuotaService 创建缴款服务
func NewQuotaService(db *gorm.DB) *QuotaService {
	return &QuotaService{
		db:            db,
		statusManager: NewStatusManager(db),
	}
}

// GetAllQuotas 获取全部缴款记录
func (s *QuotaService) GetAllQuotas() ([]models.Quota, error) {
	var quotas []models.Quota
	err := s.db.Order("created_at").Find(&quotas).Error
	return quotas, err
}

// GetQuotaByID 按 ID 获取缴款记录
func (s *QuotaService) GetQuotaByID(id uint) (*models.Quota, error) {
	var quota models.Quota
	if err := s.db.First(&quota, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotaNotFound
		}
		return nil, err
	}
	return &quota, nil
}

// GetQuotasByBudgetID 获取某预算的缴款记录，按创建时间升序
func (s *QuotaService) GetQuotasByBudgetID(budgetID uint) ([]models.Quota, error) {
	var count int64
	if err := s.db.Model(&models.Budget{}).Where("id = ?", budgetID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrBudgetNotFound
	}

	var quotas []models.Quota
	err := s.db.Where("budget_id = ?", budgetID).Order("created_at").Find(&quotas).Error
	return quotas, err
}

// UpdateQuota 修改缴款金额
// 余额校验需排除自身原金额；改完后重跑完成检查，但终态预算不会被降级
func (s *QuotaService) UpdateQuota(id uint, amount float64) (*models.Quota, error) {
	if !isValidAmount(amount) {
		return nil, ErrInvalidQuotaAmount
	}

	var quota models.Quota
	if err := s.db.First(&quota, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotaNotFound
		}
		return nil, err
	}

	unlock := lockBudget(quota.BudgetID)
	defer unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var budget models.Budget
		if err := tx.First(&budget, quota.BudgetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBudgetNotFound
			}
			return err
		}

		var otherPaid float64
		if err := tx.Model(&models.Quota{}).
			Where("budget_id = ? AND id <> ?", quota.BudgetID, id).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&otherPaid).Error; err != nil {
			return err
		}

		remaining := Round2(budget.TotalAmount - otherPaid)
		if amount > remaining+amountEpsilon {
			return ErrInvalidQuotaAmount
		}

		quota.Amount = Round2(amount)
		return tx.Save(&quota).Error
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.statusManager.UpdateToFinishedIfComplete(quota.BudgetID); err != nil {
		return nil, err
	}

	return &quota, nil
}

// DeleteQuota 删除缴款记录
// 删除后重跑完成检查；状态只会 ACTIVE -> FINISHED，已完成或已过期的预算不会被降级
func (s *QuotaService) DeleteQuota(id uint) error {
	var quota models.Quota
	if err := s.db.First(&quota, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuotaNotFound
		}
		return err
	}

	if err := s.db.Delete(&quota).Error; err != nil {
		return err
	}

	_, err := s.statusManager.UpdateToFinishedIfComplete(quota.BudgetID)
	return err
}

// GetTotalPaid 计算某预算的已缴总额
func (s *QuotaService) GetTotalPaid(budgetID uint) (float64, error) {
	var totalPaid float64
	err := s.db.Model(&models.Quota{}).
		Where("budget_id = ?", budgetID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalPaid).Error
	return Round2(totalPaid), err
}

// QuotaStats 某预算的缴款统计
type QuotaStats struct {
	TotalQuotas          int64   `json:"total_quotas"`
	TotalPaid            float64 `json:"total_paid"`
	RemainingAmount      float64 `json:"remaining_amount"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// GetBudgetQuotaStats 获取某预算的缴款统计信息
func (s *QuotaService) GetBudgetQuotaStats(budgetID uint) (*QuotaStats, error) {
	var budget models.Budget
	if err := s.db.Select("id, total_amount").First(&budget, budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Quota{}).Where("budget_id = ?", budgetID).Count(&count).Error; err != nil {
		return nil, err
	}

	totalPaid, err := s.GetTotalPaid(budgetID)
	if err != nil {
		return nil, err
	}

	stats := &QuotaStats{
		TotalQuotas:     count,
		TotalPaid:       totalPaid,
		RemainingAmount: Round2(budget.TotalAmount - totalPaid),
	}
	if budget.TotalAmount > 0 {
		stats.CompletionPercentage = Round2(totalPaid / budget.TotalAmount * 100)
	}
	return stats, nil
}
