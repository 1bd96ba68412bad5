package service

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/models"
)

func TestIsValidStatusTransition(t *testing.T) {
	cases := []struct {
		current string
		next    string
		want    bool
	}{
		{models.BudgetStatusActive, models.BudgetStatusExpired, true},
		{models.BudgetStatusActive, models.BudgetStatusFinished, true},
		{models.BudgetStatusActive, models.BudgetStatusActive, false},
		// 终态不可再变
		{models.BudgetStatusExpired, models.BudgetStatusActive, false},
		{models.BudgetStatusExpired, models.BudgetStatusFinished, false},
		{models.BudgetStatusFinished, models.BudgetStatusActive, false},
		{models.BudgetStatusFinished, models.BudgetStatusExpired, false},
		{"UNKNOWN", models.BudgetStatusActive, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsValidStatusTransition(tc.current, tc.next),
			"%s -> %s", tc.current, tc.next)
	}
}

func TestUpdateExpiredBudgets(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewStatusManager(db)

	// 先取编号（供过期提醒邮件），再做条件更新
	mock.ExpectQuery("SELECT `code` FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"code"}).AddRow("001A").AddRow("003A"))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `budgets` SET").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	count, codes, err := m.UpdateExpiredBudgets()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, []string{"001A", "003A"}, codes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateExpiredBudgets_NoneMatched(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewStatusManager(db)

	mock.ExpectQuery("SELECT `code` FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"code"}))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `budgets` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	count, codes, err := m.UpdateExpiredBudgets()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	assert.Empty(t, codes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShouldMarkAsFinished(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewStatusManager(db)

	mock.ExpectQuery("SELECT id, total_amount FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_amount"}).AddRow(1, 1000.0))
	mock.ExpectQuery("SELECT COALESCE.* FROM `quotas`").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(1000.0))

	done, err := m.ShouldMarkAsFinished(1)
	require.NoError(t, err)
	assert.True(t, done)

	// 未缴清
	mock.ExpectQuery("SELECT id, total_amount FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_amount"}).AddRow(1, 1000.0))
	mock.ExpectQuery("SELECT COALESCE.* FROM `quotas`").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(400.0))

	done, err = m.ShouldMarkAsFinished(1)
	require.NoError(t, err)
	assert.False(t, done)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShouldMarkAsFinished_FloatAccumulation(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewStatusManager(db)

	// 0.1 累加十次的二进制结果略小于 1.0，容差内视为缴清
	mock.ExpectQuery("SELECT id, total_amount FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_amount"}).AddRow(1, 1.0))
	sum := 0.0
	for i := 0; i < 10; i++ {
		sum += 0.1
	}
	mock.ExpectQuery("SELECT COALESCE.* FROM `quotas`").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(sum))

	done, err := m.ShouldMarkAsFinished(1)
	require.NoError(t, err)
	assert.True(t, done)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShouldMarkAsFinished_MissingBudget(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewStatusManager(db)

	mock.ExpectQuery("SELECT id, total_amount FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_amount"}))

	done, err := m.ShouldMarkAsFinished(99)
	require.NoError(t, err)
	assert.False(t, done)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateToFinishedIfComplete(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewStatusManager(db)

	mock.ExpectQuery("SELECT id, total_amount FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_amount"}).AddRow(1, 500.0))
	mock.ExpectQuery("SELECT COALESCE.* FROM `quotas`").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(500.0))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `budgets` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	updated, err := m.UpdateToFinishedIfComplete(1)
	require.NoError(t, err)
	assert.True(t, updated)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateToFinishedIfComplete_NotComplete(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewStatusManager(db)

	mock.ExpectQuery("SELECT id, total_amount FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_amount"}).AddRow(1, 500.0))
	mock.ExpectQuery("SELECT COALESCE.* FROM `quotas`").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(100.0))

	// 未缴清，不发 UPDATE
	updated, err := m.UpdateToFinishedIfComplete(1)
	require.NoError(t, err)
	assert.False(t, updated)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateToFinishedIfComplete_AlreadyTerminal(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewStatusManager(db)

	// 缴清但预算已是终态（条件更新无匹配行）
	mock.ExpectQuery("SELECT id, total_amount FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_amount"}).AddRow(1, 500.0))
	mock.ExpectQuery("SELECT COALESCE.* FROM `quotas`").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(500.0))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `budgets` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	updated, err := m.UpdateToFinishedIfComplete(1)
	require.NoError(t, err)
	assert.False(t, updated)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPerformStatusMaintenance(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewStatusManager(db)

	// 过期批处理优先执行
	mock.ExpectQuery("SELECT `code` FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"code"}).AddRow("001A").AddRow("002A"))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `budgets` SET").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	// 剩余进行中的预算
	mock.ExpectQuery("SELECT `id` FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5).AddRow(6))

	// id=5 已缴清
	mock.ExpectQuery("SELECT id, total_amount FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_amount"}).AddRow(5, 300.0))
	mock.ExpectQuery("SELECT COALESCE.* FROM `quotas`").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(300.0))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `budgets` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// id=6 未缴清
	mock.ExpectQuery("SELECT id, total_amount FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_amount"}).AddRow(6, 300.0))
	mock.ExpectQuery("SELECT COALESCE.* FROM `quotas`").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(100.0))

	result, err := m.PerformStatusMaintenance()
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Expired)
	assert.Equal(t, int64(1), result.Finished)
	assert.Equal(t, []string{"001A", "002A"}, result.ExpiredCodes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStatusSummary(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewStatusManager(db)

	mock.ExpectQuery("SELECT status, COUNT.* FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("ACTIVE", 3).
			AddRow("EXPIRED", 1))

	summary, err := m.GetStatusSummary()
	require.NoError(t, err)
	// 没有记录的状态也要出现在结果里
	assert.Equal(t, map[string]int64{
		"ACTIVE":   3,
		"EXPIRED":  1,
		"FINISHED": 0,
	}, summary)
	require.NoError(t, mock.ExpectationsWereMet())
}
