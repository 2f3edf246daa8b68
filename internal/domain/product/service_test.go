// internal/domain/product/service_test.go
package product

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/erp-backend/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Settlement.MaxAttempts = 3
	return NewService(db, cfg), mock
}

// expectPurchaseAttempt scripts one intake transaction against an existing
// product at version 3 holding one six-unit lot. A conflicted attempt sees
// the version guard match zero rows and rolls back.
func expectPurchaseAttempt(mock sqlmock.Sqlmock, conflicted bool) {
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE LOWER\(name\) = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "current_price", "quantity", "version"}).
			AddRow(1, "Oak Desk", "120.00", 6, 3))
	mock.ExpectQuery(`INSERT INTO "purchase_lots"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery(`SELECT \* FROM "purchase_lots" WHERE product_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "quantity", "unit_cost", "remaining"}).
			AddRow(10, 1, 6, "40.0000", 6).
			AddRow(11, 1, 4, "45.0000", 4))

	update := mock.ExpectExec(`UPDATE "products" SET .+ WHERE \(id = \$\d+ AND version = \$\d+\)`)
	if conflicted {
		update.WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()
		return
	}
	update.WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func TestRecordPurchaseRetriesOnVersionConflict(t *testing.T) {
	svc, mock := newMockService(t)

	// A settlement bumps the version under the first attempt; the second
	// attempt re-reads and lands cleanly
	expectPurchaseAttempt(mock, true)
	expectPurchaseAttempt(mock, false)

	// Reload after the successful commit
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE "products"\."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "current_price", "quantity", "version"}).
			AddRow(1, "Oak Desk", "120.00", 10, 4))
	mock.ExpectQuery(`SELECT \* FROM "purchase_lots"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "remaining"}).
			AddRow(10, 1, 6).
			AddRow(11, 1, 4))

	p, err := svc.RecordPurchase(&PurchaseRequest{
		Name:     "Oak Desk",
		Quantity: 4,
		UnitCost: decimal.RequireFromString("45.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, p.Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPurchaseGivesUpAfterRepeatedConflicts(t *testing.T) {
	svc, mock := newMockService(t)

	for i := 0; i < 3; i++ {
		expectPurchaseAttempt(mock, true)
	}

	_, err := svc.RecordPurchase(&PurchaseRequest{
		Name:     "Oak Desk",
		Quantity: 4,
		UnitCost: decimal.RequireFromString("45.00"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConcurrentModification)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPurchaseRejectsBadInput(t *testing.T) {
	svc, mock := newMockService(t)

	_, err := svc.RecordPurchase(&PurchaseRequest{
		Name:     "Oak Desk",
		Quantity: 0,
		UnitCost: decimal.RequireFromString("45.00"),
	})
	assert.Error(t, err)

	_, err = svc.RecordPurchase(&PurchaseRequest{
		Name:     "Oak Desk",
		Quantity: 4,
		UnitCost: decimal.RequireFromString("-1.00"),
	})
	assert.Error(t, err)

	// Validation fails before any SQL runs
	assert.NoError(t, mock.ExpectationsWereMet())
}
