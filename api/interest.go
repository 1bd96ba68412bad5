package api

import (
	"strconv"

	"budget/database"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// InterestHandler 利率配置处理器
type InterestHandler struct{}

// NewInterestHandler 创建利率配置处理器
func NewInterestHandler() *InterestHandler {
	return &InterestHandler{}
}

// CreateInterestRequest 新增利率配置请求
type CreateInterestRequest struct {
	PaymentTerm int     `json:"payment_term" binding:"required,min=1" example:"12"`
	Rate        float64 `json:"rate" binding:"min=0,max=100" example:"15"`
}

// Create 新增利率配置
// @Summary 新增利率配置
// @Description 新增分期期数对应的利率，期数唯一；只影响之后创建的预算
// @Tags 利率配置
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateInterestRequest true "利率配置"
// @Success 200 {object} Response{data=models.Interest} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "期数已存在"
// @Router /api/v1/interests [post]
func (h *InterestHandler) Create(c *gin.Context) {
	var req CreateInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	svc := service.NewInterestService(database.DB)
	interest, err := svc.CreateInterest(req.PaymentTerm, req.Rate)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	SuccessWithMessage(c, "创建成功", interest)
}

// List 获取利率配置列表
// @Summary 获取利率配置列表
// @Description 按期数升序返回全部利率配置，可用 min_term/max_term 过滤区间
// @Tags 利率配置
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param min_term query int false "最小期数"
// @Param max_term query int false "最大期数"
// @Success 200 {object} Response{data=[]models.Interest} "获取成功"
// @Router /api/v1/interests [get]
func (h *InterestHandler) List(c *gin.Context) {
	svc := service.NewInterestService(database.DB)

	minStr, maxStr := c.Query("min_term"), c.Query("max_term")
	if minStr != "" || maxStr != "" {
		minTerm, err := strconv.Atoi(minStr)
		if err != nil {
			BadRequest(c, "min_term 必须为整数")
			return
		}
		maxTerm, err := strconv.Atoi(maxStr)
		if err != nil {
			BadRequest(c, "max_term 必须为整数")
			return
		}
		interests, err := svc.GetInterestsByTermRange(minTerm, maxTerm)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		Success(c, interests)
		return
	}

	interests, err := svc.GetAllInterests()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, interests)
}

// GetTerms 获取可用分期期数
// @Summary 获取可用分期期数
// @Description 返回所有已配置利率的分期期数，升序
// @Tags 利率配置
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]int} "获取成功"
// @Router /api/v1/interests/terms [get]
func (h *InterestHandler) GetTerms(c *gin.Context) {
	svc := service.NewInterestService(database.DB)
	terms, err := svc.GetAvailablePaymentTerms()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, terms)
}

// Get 获取利率配置详情
// @Summary 获取利率配置详情
// @Tags 利率配置
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "利率配置 ID"
// @Success 200 {object} Response{data=models.Interest} "获取成功"
// @Failure 404 {object} Response "配置不存在"
// @Router /api/v1/interests/{id} [get]
func (h *InterestHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := service.NewInterestService(database.DB)
	interest, err := svc.GetInterestByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, interest)
}

// UpdateInterestRequest 更新利率配置请求，缺省字段不修改
type UpdateInterestRequest struct {
	PaymentTerm *int     `json:"payment_term" binding:"omitempty,min=1" example:"24"`
	Rate        *float64 `json:"rate" binding:"omitempty,min=0,max=100" example:"25"`
}

// Update 更新利率配置
// @Summary 更新利率配置
// @Description 更新期数或利率；修改期数时校验唯一性。已创建的预算不受影响
// @Tags 利率配置
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "利率配置 ID"
// @Param request body UpdateInterestRequest true "更新内容"
// @Success 200 {object} Response{data=models.Interest} "更新成功"
// @Failure 404 {object} Response "配置不存在"
// @Failure 409 {object} Response "期数已存在"
// @Router /api/v1/interests/{id} [put]
func (h *InterestHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	svc := service.NewInterestService(database.DB)
	interest, err := svc.UpdateInterest(id, service.UpdateInterestInput{
		PaymentTerm: req.PaymentTerm,
		Rate:        req.Rate,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	SuccessWithMessage(c, "更新成功", interest)
}

// Delete 删除利率配置
// @Summary 删除利率配置
// @Description 删除后该期数不可再用于创建预算；已有预算不受影响
// @Tags 利率配置
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "利率配置 ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "配置不存在"
// @Router /api/v1/interests/{id} [delete]
func (h *InterestHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := service.NewInterestService(database.DB)
	if err := svc.DeleteInterest(id); err != nil {
		handleServiceError(c, err)
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
