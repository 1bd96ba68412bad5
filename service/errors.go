package service

import "errors"

// 业务错误，由 api 层映射为 HTTP 状态码
var (
	// 计算参数错误
	ErrInvalidAmount       = errors.New("金额必须为大于 0 的有效数字")
	ErrInvalidInterestRate = errors.New("利率必须在 0 到 100 之间")
	ErrInvalidPaymentTerm  = errors.New("分期期数必须为 1 到 360 之间的整数")

	// 资源不存在
	ErrUserNotFound     = errors.New("用户不存在")
	ErrBudgetNotFound   = errors.New("预算不存在")
	ErrQuotaNotFound    = errors.New("缴款记录不存在")
	ErrInterestNotFound = errors.New("该分期期数没有利率配置")

	// 冲突
	ErrDuplicateCode        = errors.New("预算编号已被使用")
	ErrDuplicatePaymentTerm = errors.New("该分期期数已存在利率配置")

	// 校验失败
	ErrInvalidCodeFormat     = errors.New("预算编号格式错误，应为 3-10 位大写字母或数字")
	ErrInvalidExpirationDate = errors.New("截止日期必须晚于当前时间")
	ErrInvalidQuotaAmount    = errors.New("缴款金额无效或超过剩余应缴金额")
	ErrInvalidStatus         = errors.New("无效的预算状态")
)
