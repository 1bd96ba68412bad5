package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"budget/config"
	"budget/database"
	"budget/models"
	"budget/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// AdminHandler 管理接口处理器
type AdminHandler struct {
	cfg *config.Config
}

// NewAdminHandler 创建管理接口处理器
func NewAdminHandler(cfg *config.Config) *AdminHandler {
	return &AdminHandler{cfg: cfg}
}

// RunMaintenance 手动触发状态维护
// @Summary 手动触发状态维护
// @Description 先批量将到期预算置为 EXPIRED，再将缴清的进行中预算置为 FINISHED；配置了收件人时发送维护报告邮件
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.MaintenanceResult} "维护完成"
// @Failure 403 {object} Response "需要管理员权限"
// @Router /api/v1/admin/maintenance [post]
func (h *AdminHandler) RunMaintenance(c *gin.Context) {
	manager := service.NewStatusManager(database.DB)
	result, err := manager.PerformStatusMaintenance()
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "状态维护失败"))
		return
	}

	// 邮件失败不影响维护结果
	if h.cfg.Email.Enabled && h.cfg.Email.NotifyTo != "" {
		emailService := service.NewEmailService(&h.cfg.Email)
		if err := emailService.SendMaintenanceReport(h.cfg.Email.NotifyTo, result.Expired, result.Finished, time.Now()); err != nil {
			log.Printf("发送维护报告邮件失败: %v", err)
		}
		if len(result.ExpiredCodes) > 0 {
			if err := emailService.SendExpiredBudgetsNotice(h.cfg.Email.NotifyTo, result.ExpiredCodes); err != nil {
				log.Printf("发送过期提醒邮件失败: %v", err)
			}
		}
	}

	SuccessWithMessage(c, "状态维护完成", result)
}

// GetStatusSummary 获取预算状态统计
// @Summary 获取预算状态统计
// @Description 按状态统计预算数量，三种状态始终都在结果中
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "获取成功"
// @Failure 403 {object} Response "需要管理员权限"
// @Router /api/v1/admin/status-summary [get]
func (h *AdminHandler) GetStatusSummary(c *gin.Context) {
	manager := service.NewStatusManager(database.DB)
	summary, err := manager.GetStatusSummary()
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "统计失败"))
		return
	}
	Success(c, summary)
}

// GetAllUsers 获取全部用户
// @Summary 获取全部用户
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.User} "获取成功"
// @Failure 403 {object} Response "需要管理员权限"
// @Router /api/v1/admin/users [get]
func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := database.DB.Order("id").Find(&users).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询用户失败"))
		return
	}
	Success(c, users)
}

// ExportExcel 导出全部预算为 Excel
// @Summary 导出全部预算为 Excel
// @Description 导出系统内全部预算（含所属用户与缴款汇总）为 xlsx 文件
// @Tags 管理
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "Excel 文件"
// @Failure 403 {object} Response "需要管理员权限"
// @Router /api/v1/admin/export/excel [get]
func (h *AdminHandler) ExportExcel(c *gin.Context) {
	var budgets []models.Budget
	if err := database.DB.Preload("Quotas").Preload("User").
		Order("code").
		Find(&budgets).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "预算记录"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 15)
	f.SetColWidth(sheetName, "C", "E", 12)
	f.SetColWidth(sheetName, "F", "G", 12)
	f.SetColWidth(sheetName, "H", "H", 10)
	f.SetColWidth(sheetName, "I", "J", 20)

	headers := []string{"编号", "用户名", "本金", "利率(%)", "含息总额", "期数", "已缴总额", "状态", "截止日期", "创建时间"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	var totalAmount float64
	for i, budget := range budgets {
		row := i + 2
		var paid float64
		for _, quota := range budget.Quotas {
			paid += quota.Amount
		}
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), budget.Code)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), budget.User.Username)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), budget.BaseAmount)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), budget.InterestRate)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), budget.TotalAmount)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), budget.PaymentTerm)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), service.Round2(paid))
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), budget.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), budget.ExpirationDate.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), budget.CreatedAt.Format("2006-01-02 15:04:05"))

		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("J%d", row), dataStyle)
		totalAmount += budget.TotalAmount
	}

	// 汇总行
	summaryRow := len(budgets) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "合计")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("D%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", summaryRow), service.Round2(totalAmount))
	f.SetCellValue(sheetName, fmt.Sprintf("F%d", summaryRow), fmt.Sprintf("共 %d 条记录", len(budgets)))
	f.MergeCell(sheetName, fmt.Sprintf("F%d", summaryRow), fmt.Sprintf("J%d", summaryRow))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("J%d", summaryRow), summaryStyle)

	filename := fmt.Sprintf("预算记录_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", filename))

	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "生成 Excel 失败"})
		return
	}
}
