package api

import (
	"budget/database"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// QuotaHandler 缴款处理器
type QuotaHandler struct{}

// NewQuotaHandler 创建缴款处理器
func NewQuotaHandler() *QuotaHandler {
	return &QuotaHandler{}
}

// ListByBudget 获取某预算的缴款记录
// @Summary 获取某预算的缴款记录
// @Description 按创建时间升序返回指定预算的全部缴款记录
// @Tags 缴款
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算 ID"
// @Success 200 {object} Response{data=[]models.Quota} "获取成功"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/{id}/quotas [get]
func (h *QuotaHandler) ListByBudget(c *gin.Context) {
	budgetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := service.NewQuotaService(database.DB)
	quotas, err := svc.GetQuotasByBudgetID(budgetID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, quotas)
}

// GetStats 获取某预算的缴款统计
// @Summary 获取某预算的缴款统计
// @Description 返回缴款笔数、已缴总额、剩余金额与完成百分比
// @Tags 缴款
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算 ID"
// @Success 200 {object} Response{data=service.QuotaStats} "获取成功"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/{id}/quotas/stats [get]
func (h *QuotaHandler) GetStats(c *gin.Context) {
	budgetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := service.NewQuotaService(database.DB)
	stats, err := svc.GetBudgetQuotaStats(budgetID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, stats)
}

// Get 获取缴款记录详情
// @Summary 获取缴款记录详情
// @Tags 缴款
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "缴款记录 ID"
// @Success 200 {object} Response{data=models.Quota} "获取成功"
// @Failure 404 {object} Response "缴款记录不存在"
// @Router /api/v1/quotas/{id} [get]
func (h *QuotaHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := service.NewQuotaService(database.DB)
	quota, err := svc.GetQuotaByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, quota)
}

// UpdateQuotaRequest 修改缴款请求
type UpdateQuotaRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0" example:"150"`
}

// Update 修改缴款金额
// @Summary 修改缴款金额
// @Description 修改后的金额仍不能使已缴总额超过预算总额；改完后重新检查预算是否缴清
// @Tags 缴款
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "缴款记录 ID"
// @Param request body UpdateQuotaRequest true "新金额"
// @Success 200 {object} Response{data=models.Quota} "修改成功"
// @Failure 400 {object} Response "金额非法或超出余额"
// @Failure 404 {object} Response "缴款记录不存在"
// @Router /api/v1/quotas/{id} [put]
func (h *QuotaHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateQuotaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	svc := service.NewQuotaService(database.DB)
	quota, err := svc.UpdateQuota(id, req.Amount)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	SuccessWithMessage(c, "修改成功", quota)
}

// Delete 删除缴款记录
// @Summary 删除缴款记录
// @Description 逻辑删除缴款记录；预算已是终态时状态不会回退
// @Tags 缴款
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "缴款记录 ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "缴款记录不存在"
// @Router /api/v1/quotas/{id} [delete]
func (h *QuotaHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := service.NewQuotaService(database.DB)
	if err := svc.DeleteQuota(id); err != nil {
		handleServiceError(c, err)
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
