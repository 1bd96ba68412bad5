package service

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"budget/models"

	"gorm.io/gorm"
)

var (
	codeFormatRegex = regexp.MustCompile(`^[A-Z0-9]{3,10}$`)
	nonDigitRegex   = regexp.MustCompile(`[^0-9]`)
)

// CodeGenerator 预算编号生成器
// 编号格式: 三位补零数字 + 固定后缀 A，如 001A、002A；超过 999 后位数自然增长（1000A）
type CodeGenerator struct {
	db *gorm.DB
}

// NewCodeGenerator 创建预算编号生成器
func NewCodeGenerator(db *gorm.DB) *CodeGenerator {
	return &CodeGenerator{db: db}
}

// GenerateNextCode 生成下一个顺序编号
// 取未删除预算中编号最大的一条，截取数字部分加一；无预算或解析失败时从 1 开始。
// 先按长度再按字典序排序：编号超过 999 后位数变宽（1000A），
// 纯字典序会把 999A 排在 1000A 前面，导致重复生成已占用的编号
func (g *CodeGenerator) GenerateNextCode() (string, error) {
	var latest models.Budget
	err := g.db.Select("code").Order("LENGTH(code) DESC, code DESC").First(&latest).Error

	nextNumber := 1
	switch {
	case err == nil && latest.Code != "":
		numericPart := nonDigitRegex.ReplaceAllString(latest.Code, "")
		if n, parseErr := strconv.Atoi(numericPart); parseErr == nil {
			nextNumber = n + 1
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// 还没有任何预算，从 001A 开始
	case err != nil:
		return "", err
	}

	return fmt.Sprintf("%03dA", nextNumber), nil
}

// normalizeCode 去除首尾空白并统一为大写
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsCodeAvailable 检查编号是否可用（未被未删除的预算占用，不区分大小写）
func (g *CodeGenerator) IsCodeAvailable(code string) (bool, error) {
	var count int64
	err := g.db.Model(&models.Budget{}).
		Where("UPPER(code) = ?", normalizeCode(code)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// ValidateCodeFormat 校验编号格式（3-10 位字母数字，忽略大小写）
func (g *CodeGenerator) ValidateCodeFormat(code string) bool {
	return codeFormatRegex.MatchString(strings.ToUpper(code))
}

// GenerateBudgetCode 生成预算编号；传入手动编号时校验格式与唯一性，否则自动生成
// 并发创建可能生成相同编号，最终由 budgets.code 的唯一索引兜底，
// 插入冲突由调用方映射为 ErrDuplicateCode
func (g *CodeGenerator) GenerateBudgetCode(manualCode string) (string, error) {
	manualCode = strings.TrimSpace(manualCode)
	if manualCode != "" {
		upper := strings.ToUpper(manualCode)
		if !g.ValidateCodeFormat(upper) {
			return "", ErrInvalidCodeFormat
		}
		available, err := g.IsCodeAvailable(upper)
		if err != nil {
			return "", err
		}
		if !available {
			return "", ErrDuplicateCode
		}
		return upper, nil
	}

	return g.GenerateNextCode()
}
