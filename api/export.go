package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"budget/database"
	"budget/middleware"
	"budget/models"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// ExportHandler 导出处理器
type ExportHandler struct{}

// NewExportHandler 创建导出处理器
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// ExportCSV 导出当前用户的预算为 CSV
// @Summary 导出预算为 CSV
// @Description 导出当前用户名下的全部预算为 CSV 文件
// @Tags 导出
// @Accept json
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file "CSV 文件"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var budgets []models.Budget
	if err := database.DB.Preload("Quotas").
		Where("user_id = ?", userID).
		Order("code").
		Find(&budgets).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}

	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	headers := []string{"编号", "本金", "利率(%)", "含息总额", "期数", "已缴总额", "状态", "截止日期", "创建时间"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	for _, budget := range budgets {
		var paid float64
		for _, quota := range budget.Quotas {
			paid += quota.Amount
		}
		row := []string{
			budget.Code,
			fmt.Sprintf("%.2f", budget.BaseAmount),
			fmt.Sprintf("%.2f", budget.InterestRate),
			fmt.Sprintf("%.2f", budget.TotalAmount),
			fmt.Sprintf("%d", budget.PaymentTerm),
			fmt.Sprintf("%.2f", service.Round2(paid)),
			budget.Status,
			budget.ExpirationDate.Format("2006-01-02"),
			budget.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "生成 CSV 失败")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	filename := fmt.Sprintf("budgets_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportJSON 导出当前用户的预算为 JSON
// @Summary 导出预算为 JSON
// @Description 导出当前用户名下的全部预算及汇总信息
// @Tags 导出
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "导出成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var budgets []models.Budget
	if err := database.DB.Preload("Quotas").
		Where("user_id = ?", userID).
		Order("code").
		Find(&budgets).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}

	var totalAmount, totalPaid float64
	for _, budget := range budgets {
		totalAmount += budget.TotalAmount
		for _, quota := range budget.Quotas {
			totalPaid += quota.Amount
		}
	}

	Success(c, gin.H{
		"total_count":  len(budgets),
		"total_amount": service.Round2(totalAmount),
		"total_paid":   service.Round2(totalPaid),
		"budgets":      budgets,
	})
}
