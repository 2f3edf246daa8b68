// internal/domain/sale/service_test.go
package sale

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
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

func TestListByCustomer(t *testing.T) {
	svc, mock := newMockService(t)

	newer := time.Date(2026, 8, 20, 14, 0, 0, 0, time.UTC)
	older := time.Date(2026, 8, 12, 9, 30, 0, 0, time.UTC)

	// Matches the registered account and any earlier guest orders placed
	// under the same email, newest first
	mock.ExpectQuery(`SELECT \* FROM "sales" WHERE .*user_id = \$1 OR customer_email = \$2.*ORDER BY sale_date DESC, id DESC`).
		WithArgs(int64(7), "client@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "product_name", "user_id", "quantity", "total_price", "customer_email", "status", "sale_date"}).
			AddRow(5, 1, "Oak Desk", 7, 2, "240.00", "client@example.com", "completed", newer).
			AddRow(3, 2, "Walnut Chair", nil, 1, "80.00", "client@example.com", "completed", older))

	sales, err := svc.ListByCustomer(7, "client@example.com")
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, uint(5), sales[0].ID)
	assert.Equal(t, uint(3), sales[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCustomerWithoutEmail(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT \* FROM "sales" WHERE user_id = \$1`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	sales, err := svc.ListByCustomer(9, "")
	require.NoError(t, err)
	assert.Empty(t, sales)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusRejectsTerminalMove(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT \* FROM "sales" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow(4, "cancelled"))

	_, err := svc.UpdateStatus(4, StatusCompleted, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot move sale from cancelled to completed")

	// No UPDATE was issued for the rejected transition
	assert.NoError(t, mock.ExpectationsWereMet())
}
