package service

import "math"

// 利息计算：纯函数，无副作用，可并发调用
// 金额统一保留两位小数，采用四舍五入（远离零方向），即 round(x*100)/100

const maxPaymentTerm = 360 // 最长 30 年

// Round2 金额保留两位小数
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// isValidAmount 金额必须为大于 0 的有限数
func isValidAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// isValidInterestRate 利率必须为 [0,100] 的有限数
func isValidInterestRate(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0 && v <= 100
}

// isValidPaymentTerm 分期期数必须为 [1,360] 的整数
func isValidPaymentTerm(term int) bool {
	return term >= 1 && term <= maxPaymentTerm
}

// CalculateTotalAmount 计算含息总额: baseAmount * (1 + rate/100)
func CalculateTotalAmount(baseAmount, interestRate float64) (float64, error) {
	if !isValidAmount(baseAmount) {
		return 0, ErrInvalidAmount
	}
	if !isValidInterestRate(interestRate) {
		return 0, ErrInvalidInterestRate
	}
	return Round2(baseAmount * (1 + interestRate/100)), nil
}

// CalculateInterestAmount 计算利息金额（总额与本金之差）
// 先算出已舍入的总额再相减，与总额口径保持一致
func CalculateInterestAmount(baseAmount, interestRate float64) (float64, error) {
	total, err := CalculateTotalAmount(baseAmount, interestRate)
	if err != nil {
		return 0, err
	}
	return Round2(total - baseAmount), nil
}

// CalculateMonthlyPayment 计算每期应缴金额: totalAmount / paymentTerm
func CalculateMonthlyPayment(totalAmount float64, paymentTerm int) (float64, error) {
	if !isValidAmount(totalAmount) {
		return 0, ErrInvalidAmount
	}
	if !isValidPaymentTerm(paymentTerm) {
		return 0, ErrInvalidPaymentTerm
	}
	return Round2(totalAmount / float64(paymentTerm)), nil
}
