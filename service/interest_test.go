package service

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInterest(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewInterestService(db)

	mock.ExpectQuery("SELECT count.* FROM `interests`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `interests`").
		WillReturnResult(sqlmock.NewResult(6, 1))
	mock.ExpectCommit()

	interest, err := svc.CreateInterest(36, 30)
	require.NoError(t, err)
	assert.Equal(t, 36, interest.PaymentTerm)
	assert.Equal(t, 30.0, interest.Rate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInterest_DuplicateTerm(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewInterestService(db)

	mock.ExpectQuery("SELECT count.* FROM `interests`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := svc.CreateInterest(12, 15)
	assert.ErrorIs(t, err, ErrDuplicatePaymentTerm)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInterest_Invalid(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewInterestService(db)

	_, err := svc.CreateInterest(0, 10)
	assert.ErrorIs(t, err, ErrInvalidPaymentTerm)
	_, err = svc.CreateInterest(361, 10)
	assert.ErrorIs(t, err, ErrInvalidPaymentTerm)
	_, err = svc.CreateInterest(12, -1)
	assert.ErrorIs(t, err, ErrInvalidInterestRate)
	_, err = svc.CreateInterest(12, 100.5)
	assert.ErrorIs(t, err, ErrInvalidInterestRate)
}

func TestGetRateByPaymentTerm(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewInterestService(db)

	mock.ExpectQuery("SELECT .* FROM `interests`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "payment_term", "rate"}).AddRow(4, 12, 15.0))

	rate, err := svc.GetRateByPaymentTerm(12)
	require.NoError(t, err)
	assert.Equal(t, 15.0, rate)

	// 未配置的期数
	mock.ExpectQuery("SELECT .* FROM `interests`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = svc.GetRateByPaymentTerm(7)
	assert.ErrorIs(t, err, ErrInterestNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInterest(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewInterestService(db)

	mock.ExpectQuery("SELECT .* FROM `interests`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "payment_term", "rate"}).AddRow(4, 12, 15.0))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `interests` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	newRate := 18.0
	interest, err := svc.UpdateInterest(4, UpdateInterestInput{Rate: &newRate})
	require.NoError(t, err)
	assert.Equal(t, 18.0, interest.Rate)
	assert.Equal(t, 12, interest.PaymentTerm)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInterest_TermConflict(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewInterestService(db)

	mock.ExpectQuery("SELECT .* FROM `interests`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "payment_term", "rate"}).AddRow(4, 12, 15.0))
	// 目标期数已被其他配置占用
	mock.ExpectQuery("SELECT count.* FROM `interests`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	newTerm := 24
	_, err := svc.UpdateInterest(4, UpdateInterestInput{PaymentTerm: &newTerm})
	assert.ErrorIs(t, err, ErrDuplicatePaymentTerm)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteInterest(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewInterestService(db)

	mock.ExpectQuery("SELECT .* FROM `interests`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "payment_term", "rate"}).AddRow(4, 12, 15.0))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `interests`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.DeleteInterest(4))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAvailablePaymentTerms(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewInterestService(db)

	mock.ExpectQuery("SELECT `payment_term` FROM `interests`").
		WillReturnRows(sqlmock.NewRows([]string{"payment_term"}).
			AddRow(1).AddRow(3).AddRow(6).AddRow(12).AddRow(24))

	terms, err := svc.GetAvailablePaymentTerms()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 6, 12, 24}, terms)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetInterestsByTermRange(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewInterestService(db)

	mock.ExpectQuery("SELECT .* FROM `interests`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "payment_term", "rate"}).
			AddRow(2, 3, 5.0).
			AddRow(3, 6, 10.0))

	interests, err := svc.GetInterestsByTermRange(2, 6)
	require.NoError(t, err)
	require.Len(t, interests, 2)
	assert.Equal(t, 3, interests[0].PaymentTerm)

	// 区间非法
	_, err = svc.GetInterestsByTermRange(6, 2)
	assert.ErrorIs(t, err, ErrInvalidPaymentTerm)
	require.NoError(t, mock.ExpectationsWereMet())
}
