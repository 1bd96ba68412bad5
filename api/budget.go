package api

import (
	"strconv"
	"time"

	"budget/database"
	"budget/middleware"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// BudgetHandler 预算处理器
type BudgetHandler struct{}

// NewBudgetHandler 创建预算处理器
func NewBudgetHandler() *BudgetHandler {
	return &BudgetHandler{}
}

// parseIDParam 解析路径中的数字 ID
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, "无效的 ID")
		return 0, false
	}
	return uint(id), true
}

// CreateBudgetRequest 创建预算请求
type CreateBudgetRequest struct {
	BaseAmount     float64 `json:"base_amount" binding:"required,gt=0" example:"1000"`
	ExpirationDate string  `json:"expiration_date" binding:"required" example:"2026-12-31"` // 截止日期，格式 2006-01-02
	PaymentTerm    int     `json:"payment_term" binding:"required,min=1" example:"12"`
	Code           string  `json:"code" binding:"omitempty,max=10" example:"001A"` // 留空则自动生成
}

// Create 创建预算
// @Summary 创建预算
// @Description 创建新预算，利率按分期期数从利率配置表取值并在创建时固定；编号留空时自动生成
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBudgetRequest true "预算信息"
// @Success 200 {object} Response{data=models.Budget} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "编号已存在"
// @Router /api/v1/budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	expiration, err := time.ParseInLocation("2006-01-02", req.ExpirationDate, time.Local)
	if err != nil {
		BadRequest(c, "截止日期格式错误，应为: 2006-01-02")
		return
	}
	// 截止日当天 23:59:59 前有效
	expiration = expiration.Add(24*time.Hour - time.Second)

	svc := service.NewBudgetService(database.DB)
	budget, err := svc.CreateBudget(service.CreateBudgetInput{
		BaseAmount:     req.BaseAmount,
		ExpirationDate: expiration,
		PaymentTerm:    req.PaymentTerm,
		UserID:         middleware.GetCurrentUserID(c),
		Code:           req.Code,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	SuccessWithMessage(c, "创建成功", budget)
}

// List 获取预算列表
// @Summary 获取预算列表
// @Description 获取全部预算，可按状态过滤，按编号升序排列
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "状态过滤 (ACTIVE/EXPIRED/FINISHED)"
// @Success 200 {object} Response{data=[]models.Budget} "获取成功"
// @Failure 400 {object} Response "状态非法"
// @Router /api/v1/budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	svc := service.NewBudgetService(database.DB)

	if status := c.Query("status"); status != "" {
		budgets, err := svc.GetBudgetsByStatus(status)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		Success(c, budgets)
		return
	}

	budgets, err := svc.GetAllBudgets()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, budgets)
}

// ListMine 获取我的预算
// @Summary 获取当前用户的预算
// @Description 获取当前登录用户名下的全部预算
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Budget} "获取成功"
// @Router /api/v1/budgets/mine [get]
func (h *BudgetHandler) ListMine(c *gin.Context) {
	svc := service.NewBudgetService(database.DB)
	budgets, err := svc.GetBudgetsByUserID(middleware.GetCurrentUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, budgets)
}

// Get 获取预算详情
// @Summary 获取预算详情
// @Description 按 ID 获取预算及其缴款记录
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算 ID"
// @Success 200 {object} Response{data=models.Budget} "获取成功"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/{id} [get]
func (h *BudgetHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := service.NewBudgetService(database.DB)
	budget, err := svc.GetBudgetByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, budget)
}

// SearchByCode 按编号查询预算
// @Summary 按编号查询预算
// @Description 按编号精确查询预算，编号不区分大小写
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code query string true "预算编号，如 001A"
// @Success 200 {object} Response{data=models.Budget} "获取成功"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/search [get]
func (h *BudgetHandler) SearchByCode(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		BadRequest(c, "请提供预算编号")
		return
	}

	svc := service.NewBudgetService(database.DB)
	budget, err := svc.SearchByCode(code)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, budget)
}

// Delete 删除预算
// @Summary 删除预算
// @Description 逻辑删除预算，删除后在任何查询中都不可见；状态保持删除时的值
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算 ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := service.NewBudgetService(database.DB)
	if err := svc.DeleteBudget(id); err != nil {
		handleServiceError(c, err)
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// AddQuotaRequest 缴款请求
type AddQuotaRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0" example:"200"`
}

// AddQuota 向预算缴款
// @Summary 向预算缴款
// @Description 新增一笔缴款；金额不能超过剩余未缴金额，缴清后预算自动变为 FINISHED
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算 ID"
// @Param request body AddQuotaRequest true "缴款金额"
// @Success 200 {object} Response{data=models.Quota} "缴款成功"
// @Failure 400 {object} Response "金额非法或超出余额"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/{id}/quotas [post]
func (h *BudgetHandler) AddQuota(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddQuotaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	svc := service.NewBudgetService(database.DB)
	quota, err := svc.AddQuota(id, req.Amount)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	SuccessWithMessage(c, "缴款成功", quota)
}

// GetRemaining 获取预算剩余未缴金额
// @Summary 获取剩余未缴金额
// @Description 计算预算总额与已缴总额之差
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算 ID"
// @Success 200 {object} Response "获取成功"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/{id}/remaining [get]
func (h *BudgetHandler) GetRemaining(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := service.NewBudgetService(database.DB)
	remaining, err := svc.RemainingAmount(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, gin.H{"budget_id": id, "remaining_amount": remaining})
}

// NextCode 预览下一个自动编号
// @Summary 预览下一个自动编号
// @Description 返回下一个将被自动分配的预算编号，不占用该编号
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "获取成功"
// @Router /api/v1/budgets/next-code [get]
func (h *BudgetHandler) NextCode(c *gin.Context) {
	gen := service.NewCodeGenerator(database.DB)
	code, err := gen.GenerateNextCode()
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "生成编号失败"))
		return
	}
	Success(c, gin.H{"code": code})
}

// CheckCode 检查编号是否可用
// @Summary 检查编号是否可用
// @Description 校验编号格式并检查是否已被占用
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code query string true "待检查的编号"
// @Success 200 {object} Response "获取成功"
// @Failure 400 {object} Response "编号格式非法"
// @Router /api/v1/budgets/check-code [get]
func (h *BudgetHandler) CheckCode(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		BadRequest(c, "请提供预算编号")
		return
	}

	gen := service.NewCodeGenerator(database.DB)
	if !gen.ValidateCodeFormat(code) {
		handleServiceError(c, service.ErrInvalidCodeFormat)
		return
	}

	available, err := gen.IsCodeAvailable(code)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "检查编号失败"))
		return
	}
	Success(c, gin.H{"code": code, "available": available})
}
