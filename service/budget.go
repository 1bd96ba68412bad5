package service

import (
	"errors"
	"sync"
	"time"

	"budget/models"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// budgetLocks 预算级别的互斥锁，串行化同一预算上的缴款写入
// 两个并发缴款不允许基于同一份旧的已缴总额通过余额校验
var budgetLocks sync.Map // map[uint]*sync.Mutex

// lockBudget 锁住指定预算，返回解锁函数
func lockBudget(budgetID uint) func() {
	v, _ := budgetLocks.LoadOrStore(budgetID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// isDuplicateKeyError 识别唯一索引冲突（预算编号并发生成的兜底）
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// BudgetService 预算服务：创建、查询、缴款、逻辑删除
type BudgetService struct {
	db            *gorm.DB
	codeGenerator *CodeGenerator
	statusManager *StatusManager
}

// NewBudgetService 创建预算服务
func NewBudgetService(db *gorm.DB) *BudgetService {
	return &BudgetService{
		db:            db,
		codeGenerator: NewCodeGenerator(db),
		statusManager: NewStatusManager(db),
	}
}

// CodeGenerator 获取编号生成器
func (s *BudgetService) CodeGenerator() *CodeGenerator {
	return s.codeGenerator
}

// StatusManager 获取状态管理器
func (s *BudgetService) StatusManager() *StatusManager {
	return s.statusManager
}

// CreateBudgetInput 创建预算入参
type CreateBudgetInput struct {
	BaseAmount     float64
	ExpirationDate time.Time
	PaymentTerm    int
	UserID         uint
	Code           string // 可选的手动编号，留空自动生成
}

// CreateBudget 创建预算
// 流程：校验入参 -> 解析用户 -> 按期数解析利率 -> 生成/校验编号 -> 计算含息总额 -> 落库
// 利率在此处快照到预算上，之后修改利率配置不影响已创建预算；
// 全部解析完成后才写库，不存在部分写入
func (s *BudgetService) CreateBudget(in CreateBudgetInput) (*models.Budget, error) {
	if !isValidAmount(in.BaseAmount) {
		return nil, ErrInvalidAmount
	}
	if !isValidPaymentTerm(in.PaymentTerm) {
		return nil, ErrInvalidPaymentTerm
	}
	if !in.ExpirationDate.After(time.Now()) {
		return nil, ErrInvalidExpirationDate
	}

	// 用户必须存在且未删除
	var user models.User
	if err := s.db.First(&user, in.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 按分期期数解析利率
	var interest models.Interest
	if err := s.db.Where("payment_term = ?", in.PaymentTerm).First(&interest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInterestNotFound
		}
		return nil, err
	}

	// 生成或校验预算编号
	code, err := s.codeGenerator.GenerateBudgetCode(in.Code)
	if err != nil {
		return nil, err
	}

	// 计算含息总额
	totalAmount, err := CalculateTotalAmount(in.BaseAmount, interest.Rate)
	if err != nil {
		return nil, err
	}

	budget := models.Budget{
		Code:           code,
		UserID:         user.ID,
		BaseAmount:     Round2(in.BaseAmount),
		TotalAmount:    totalAmount,
		InterestRate:   interest.Rate,
		PaymentTerm:    in.PaymentTerm,
		Status:         models.BudgetStatusActive,
		ExpirationDate: in.ExpirationDate,
	}

	if err := s.db.Create(&budget).Error; err != nil {
		// 并发生成同一编号时由唯一索引兜底，调用方可重试
		if isDuplicateKeyError(err) {
			return nil, ErrDuplicateCode
		}
		return nil, err
	}

	return &budget, nil
}

// AddQuota 为预算新增一笔缴款
// 同一预算上的缴款串行执行，事务内重读已缴总额后校验余额；
// 缴款落库后触发完成检查（条件写入，不会影响已是终态的预算）
func (s *BudgetService) AddQuota(budgetID uint, amount float64) (*models.Quota, error) {
	if !isValidAmount(amount) {
		return nil, ErrInvalidQuotaAmount
	}

	unlock := lockBudget(budgetID)
	defer unlock()

	var quota models.Quota
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var budget models.Budget
		if err := tx.First(&budget, budgetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBudgetNotFound
			}
			return err
		}

		var totalPaid float64
		if err := tx.Model(&models.Quota{}).
			Where("budget_id = ?", budgetID).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&totalPaid).Error; err != nil {
			return err
		}

		remaining := Round2(budget.TotalAmount - totalPaid)
		if amount > remaining+amountEpsilon {
			return ErrInvalidQuotaAmount
		}

		quota = models.Quota{
			BudgetID: budgetID,
			Amount:   Round2(amount),
		}
		return tx.Create(&quota).Error
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.statusManager.UpdateToFinishedIfComplete(budgetID); err != nil {
		return nil, err
	}

	return &quota, nil
}

// RemainingAmount 计算预算剩余应缴金额
func (s *BudgetService) RemainingAmount(budgetID uint) (float64, error) {
	var budget models.Budget
	if err := s.db.Select("id, total_amount").First(&budget, budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrBudgetNotFound
		}
		return 0, err
	}

	var totalPaid float64
	if err := s.db.Model(&models.Quota{}).
		Where("budget_id = ?", budgetID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalPaid).Error; err != nil {
		return 0, err
	}

	return Round2(budget.TotalAmount - totalPaid), nil
}

// DeleteBudget 逻辑删除预算，不改变其状态；删除后对所有查询不可见
func (s *BudgetService) DeleteBudget(id uint) error {
	var budget models.Budget
	if err := s.db.First(&budget, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBudgetNotFound
		}
		return err
	}
	return s.db.Delete(&budget).Error
}

// GetAllBudgets 获取全部未删除预算（含缴款记录）
func (s *BudgetService) GetAllBudgets() ([]models.Budget, error) {
	var budgets []models.Budget
	err := s.db.Preload("Quotas").Order("code").Find(&budgets).Error
	return budgets, err
}

// GetBudgetByID 按 ID 获取预算（含缴款记录）
func (s *BudgetService) GetBudgetByID(id uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Quotas").First(&budget, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}
	return &budget, nil
}

// SearchByCode 按编号精确查找预算（不区分大小写）
func (s *BudgetService) SearchByCode(code string) (*models.Budget, error) {
	var budget models.Budget
	err := s.db.Preload("Quotas").
		Where("UPPER(code) = ?", normalizeCode(code)).
		First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}
	return &budget, nil
}

// GetBudgetsByUserID 获取某用户的全部预算
func (s *BudgetService) GetBudgetsByUserID(userID uint) ([]models.Budget, error) {
	var budgets []models.Budget
	err := s.db.Preload("Quotas").
		Where("user_id = ?", userID).
		Order("code").
		Find(&budgets).Error
	return budgets, err
}

// GetBudgetsByStatus 按状态获取预算
func (s *BudgetService) GetBudgetsByStatus(status string) ([]models.Budget, error) {
	if !models.IsValidBudgetStatus(status) {
		return nil, ErrInvalidStatus
	}
	var budgets []models.Budget
	err := s.db.Preload("Quotas").
		Where("status = ?", status).
		Order("code").
		Find(&budgets).Error
	return budgets, err
}
