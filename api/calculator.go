package api

import (
	"budget/service"

	"github.com/gin-gonic/gin"
)

// CalculatorHandler 计算预览处理器，不落库
type CalculatorHandler struct{}

// NewCalculatorHandler 创建计算预览处理器
func NewCalculatorHandler() *CalculatorHandler {
	return &CalculatorHandler{}
}

// CalculateRequest 计算预览请求
type CalculateRequest struct {
	BaseAmount   float64 `json:"base_amount" binding:"required,gt=0" example:"1000"`
	InterestRate float64 `json:"interest_rate" binding:"min=0,max=100" example:"15"`
	PaymentTerm  int     `json:"payment_term" binding:"required,min=1" example:"12"`
}

// CalculateResponse 计算预览结果
type CalculateResponse struct {
	BaseAmount     float64 `json:"base_amount"`
	InterestRate   float64 `json:"interest_rate"`
	PaymentTerm    int     `json:"payment_term"`
	TotalAmount    float64 `json:"total_amount"`
	InterestAmount float64 `json:"interest_amount"`
	MonthlyPayment float64 `json:"monthly_payment"`
}

// Calculate 预算金额试算
// @Summary 预算金额试算
// @Description 按本金、利率与期数计算含息总额、利息与月供，不创建任何数据
// @Tags 计算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CalculateRequest true "试算参数"
// @Success 200 {object} Response{data=CalculateResponse} "计算成功"
// @Failure 400 {object} Response "参数非法"
// @Router /api/v1/calculator [post]
func (h *CalculatorHandler) Calculate(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	total, err := service.CalculateTotalAmount(req.BaseAmount, req.InterestRate)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	interest, err := service.CalculateInterestAmount(req.BaseAmount, req.InterestRate)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	monthly, err := service.CalculateMonthlyPayment(total, req.PaymentTerm)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, CalculateResponse{
		BaseAmount:     req.BaseAmount,
		InterestRate:   req.InterestRate,
		PaymentTerm:    req.PaymentTerm,
		TotalAmount:    total,
		InterestAmount: interest,
		MonthlyPayment: monthly,
	})
}
