package service

import (
	"errors"

	"budget/models"

	"gorm.io/gorm"
)

// InterestService 利率配置服务：维护分期期数 -> 利率的映射表
// 修改配置只影响之后创建的预算，已有预算的利率在创建时已快照
type InterestService struct {
	db *gorm.DB
}

// NewInterestService 创建利率配置服务
func NewInterestService(db *gorm.DB) *InterestService {
	return &InterestService{db: db}
}

// CreateInterest 新增利率配置，分期期数唯一
func (s *InterestService) CreateInterest(paymentTerm int, rate float64) (*models.Interest, error) {
	if !isValidPaymentTerm(paymentTerm) {
		return nil, ErrInvalidPaymentTerm
	}
	if !isValidInterestRate(rate) {
		return nil, ErrInvalidInterestRate
	}

	exists, err := s.PaymentTermExists(paymentTerm, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicatePaymentTerm
	}

	interest := models.Interest{PaymentTerm: paymentTerm, Rate: rate}
	if err := s.db.Create(&interest).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrDuplicatePaymentTerm
		}
		return nil, err
	}
	return &interest, nil
}

// GetAllInterests 获取全部利率配置，按期数升序
func (s *InterestService) GetAllInterests() ([]models.Interest, error) {
	var interests []models.Interest
	err := s.db.Order("payment_term").Find(&interests).Error
	return interests, err
}

// GetInterestByID 按 ID 获取利率配置
func (s *InterestService) GetInterestByID(id uint) (*models.Interest, error) {
	var interest models.Interest
	if err := s.db.First(&interest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInterestNotFound
		}
		return nil, err
	}
	return &interest, nil
}

// GetInterestByPaymentTerm 按分期期数获取利率配置
func (s *InterestService) GetInterestByPaymentTerm(paymentTerm int) (*models.Interest, error) {
	var interest models.Interest
	if err := s.db.Where("payment_term = ?", paymentTerm).First(&interest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInterestNotFound
		}
		return nil, err
	}
	return &interest, nil
}

// GetRateByPaymentTerm 按分期期数获取利率百分比
func (s *InterestService) GetRateByPaymentTerm(paymentTerm int) (float64, error) {
	interest, err := s.GetInterestByPaymentTerm(paymentTerm)
	if err != nil {
		return 0, err
	}
	return interest.Rate, nil
}

// UpdateInterestInput 更新利率配置入参，nil 表示不修改
type UpdateInterestInput struct {
	PaymentTerm *int
	Rate        *float64
}

// UpdateInterest 更新利率配置；修改期数时校验唯一性
func (s *InterestService) UpdateInterest(id uint, in UpdateInterestInput) (*models.Interest, error) {
	interest, err := s.GetInterestByID(id)
	if err != nil {
		return nil, err
	}

	if in.PaymentTerm != nil {
		if !isValidPaymentTerm(*in.PaymentTerm) {
			return nil, ErrInvalidPaymentTerm
		}
		exists, err := s.PaymentTermExists(*in.PaymentTerm, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicatePaymentTerm
		}
		interest.PaymentTerm = *in.PaymentTerm
	}

	if in.Rate != nil {
		if !isValidInterestRate(*in.Rate) {
			return nil, ErrInvalidInterestRate
		}
		interest.Rate = *in.Rate
	}

	if err := s.db.Save(interest).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrDuplicatePaymentTerm
		}
		return nil, err
	}
	return interest, nil
}

// DeleteInterest 删除利率配置
func (s *InterestService) DeleteInterest(id uint) error {
	interest, err := s.GetInterestByID(id)
	if err != nil {
		return err
	}
	return s.db.Delete(interest).Error
}

// GetAvailablePaymentTerms 获取所有已配置的分期期数，升序
func (s *InterestService) GetAvailablePaymentTerms() ([]int, error) {
	var terms []int
	err := s.db.Model(&models.Interest{}).
		Order("payment_term").
		Pluck("payment_term", &terms).Error
	return terms, err
}

// GetInterestsByTermRange 获取期数在 [minTerm, maxTerm] 范围内的利率配置
func (s *InterestService) GetInterestsByTermRange(minTerm, maxTerm int) ([]models.Interest, error) {
	if minTerm < 0 || maxTerm < 0 || minTerm > maxTerm {
		return nil, ErrInvalidPaymentTerm
	}
	var interests []models.Interest
	err := s.db.Where("payment_term BETWEEN ? AND ?", minTerm, maxTerm).
		Order("payment_term").
		Find(&interests).Error
	return interests, err
}

// PaymentTermExists 检查期数是否已有配置，excludeID 用于更新时排除自身
func (s *InterestService) PaymentTermExists(paymentTerm int, excludeID uint) (bool, error) {
	query := s.db.Model(&models.Interest{}).Where("payment_term = ?", paymentTerm)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
