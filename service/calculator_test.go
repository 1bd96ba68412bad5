package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTotalAmount(t *testing.T) {
	// 1000 + 15% = 1150.00
	total, err := CalculateTotalAmount(1000, 15)
	require.NoError(t, err)
	assert.Equal(t, 1150.00, total)

	// 零利率原样返回
	total, err = CalculateTotalAmount(1000, 0)
	require.NoError(t, err)
	assert.Equal(t, 1000.00, total)

	// 两位小数四舍五入
	total, err = CalculateTotalAmount(999.99, 5.5)
	require.NoError(t, err)
	assert.Equal(t, 1054.99, total)
}

func TestCalculateTotalAmount_Invalid(t *testing.T) {
	cases := []struct {
		name string
		base float64
		rate float64
		want error
	}{
		{"金额为零", 0, 10, ErrInvalidAmount},
		{"金额为负", -100, 10, ErrInvalidAmount},
		{"金额为 NaN", math.NaN(), 10, ErrInvalidAmount},
		{"金额为 Inf", math.Inf(1), 10, ErrInvalidAmount},
		{"利率为负", 1000, -1, ErrInvalidInterestRate},
		{"利率超过 100", 1000, 100.01, ErrInvalidInterestRate},
		{"利率为 NaN", 1000, math.NaN(), ErrInvalidInterestRate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CalculateTotalAmount(tc.base, tc.rate)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCalculateInterestAmount(t *testing.T) {
	interest, err := CalculateInterestAmount(1000, 15)
	require.NoError(t, err)
	assert.Equal(t, 150.00, interest)

	interest, err = CalculateInterestAmount(1000, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.00, interest)

	// 利息 = 总额 - 本金（均为已舍入值）
	for _, base := range []float64{1, 99.99, 1234.56, 100000} {
		for _, rate := range []float64{0, 3.33, 15, 100} {
			total, err := CalculateTotalAmount(base, rate)
			require.NoError(t, err)
			interest, err := CalculateInterestAmount(base, rate)
			require.NoError(t, err)
			assert.InDelta(t, total-base, interest, 0.01)
		}
	}
}

func TestCalculateMonthlyPayment(t *testing.T) {
	// 1150 / 12 = 95.8333... -> 95.83
	monthly, err := CalculateMonthlyPayment(1150, 12)
	require.NoError(t, err)
	assert.Equal(t, 95.83, monthly)

	monthly, err = CalculateMonthlyPayment(1000, 1)
	require.NoError(t, err)
	assert.Equal(t, 1000.00, monthly)

	// 期数为 0 / 负数 / 超上限
	_, err = CalculateMonthlyPayment(1150, 0)
	assert.ErrorIs(t, err, ErrInvalidPaymentTerm)
	_, err = CalculateMonthlyPayment(1150, -3)
	assert.ErrorIs(t, err, ErrInvalidPaymentTerm)
	_, err = CalculateMonthlyPayment(1150, 361)
	assert.ErrorIs(t, err, ErrInvalidPaymentTerm)

	// 总额无效
	_, err = CalculateMonthlyPayment(0, 12)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 95.83, Round2(95.83333))
	// 0.125 可被二进制精确表示，0.5 向远离零方向进位
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, 0.38, Round2(0.375))
	assert.Equal(t, 0.00, Round2(0))
}
