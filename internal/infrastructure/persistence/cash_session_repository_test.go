package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/siscom/backend/internal/domain/pos"
	"github.com/siscom/backend/internal/domain/shared"
)

func setupCashSessionTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&pos.CashSession{}, &pos.CashMovement{}))
	return db
}

func openTestSession(t *testing.T, opening string) *pos.CashSession {
	t.Helper()

	session, err := pos.NewCashSession(uuid.New(), "caixa-01", decimal.RequireFromString(opening))
	require.NoError(t, err)
	return session
}

func TestCashSessionRepositorySaveAndFind(t *testing.T) {
	db := setupCashSessionTestDB(t)
	repo := NewGormCashSessionRepository(db)
	ctx := context.Background()

	session := openTestSession(t, "100.00")
	_, err := session.RegisterSale(
		decimal.RequireFromString("50.00"),
		decimal.RequireFromString("50.00"),
		pos.PaymentMethodCash,
		"VD-2026-000001",
	)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, session))

	found, err := repo.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.OperatorID, found.OperatorID)
	assert.Equal(t, "caixa-01", found.Terminal)
	assert.True(t, found.IsOpen())
	require.Len(t, found.Movements, 1)
	assert.Equal(t, "VD-2026-000001", found.Movements[0].DocumentRef)
	assert.True(t, decimal.RequireFromString("150").Equal(found.RunningBalance()))
}

func TestCashSessionRepositoryFindByIDNotFound(t *testing.T) {
	db := setupCashSessionTestDB(t)
	repo := NewGormCashSessionRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCashSessionRepositoryFindOpenByOperator(t *testing.T) {
	db := setupCashSessionTestDB(t)
	repo := NewGormCashSessionRepository(db)
	ctx := context.Background()

	session := openTestSession(t, "80.00")
	require.NoError(t, repo.Save(ctx, session))

	found, err := repo.FindOpenByOperator(ctx, session.OperatorID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, found.ID)

	_, err = repo.FindOpenByOperator(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCashSessionRepositorySaveAppendsOnlyNewMovements(t *testing.T) {
	db := setupCashSessionTestDB(t)
	repo := NewGormCashSessionRepository(db)
	ctx := context.Background()

	session := openTestSession(t, "100.00")
	require.NoError(t, session.Deposit(decimal.RequireFromString("20.00"), "troco"))
	require.NoError(t, repo.Save(ctx, session))

	// Second save with one extra movement must not duplicate the first
	require.NoError(t, session.Withdraw(decimal.RequireFromString("30.00"), "sangria"))
	require.NoError(t, repo.Save(ctx, session))

	movementRepo := NewGormCashMovementRepository(db)
	count, err := movementRepo.CountBySession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCashSessionRepositoryFindWithDiscrepancy(t *testing.T) {
	db := setupCashSessionTestDB(t)
	repo := NewGormCashSessionRepository(db)
	ctx := context.Background()

	balanced := openTestSession(t, "100.00")
	require.NoError(t, balanced.Close(decimal.RequireFromString("100.00")))
	require.NoError(t, repo.Save(ctx, balanced))

	short := openTestSession(t, "100.00")
	require.NoError(t, short.Close(decimal.RequireFromString("90.00")))
	require.NoError(t, repo.Save(ctx, short))

	sessions, total, err := repo.FindWithDiscrepancy(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, sessions, 1)
	assert.Equal(t, short.ID, sessions[0].ID)
	assert.True(t, decimal.RequireFromString("-10").Equal(sessions[0].Discrepancy))
}

func TestCashMovementRepositoryFindBySession(t *testing.T) {
	db := setupCashSessionTestDB(t)
	sessionRepo := NewGormCashSessionRepository(db)
	movementRepo := NewGormCashMovementRepository(db)
	ctx := context.Background()

	session := openTestSession(t, "50.00")
	require.NoError(t, session.Deposit(decimal.RequireFromString("10.00"), "suprimento"))
	_, err := session.RegisterSale(
		decimal.RequireFromString("25.00"),
		decimal.RequireFromString("25.00"),
		pos.PaymentMethodPix,
		"VD-2026-000042",
	)
	require.NoError(t, err)
	require.NoError(t, sessionRepo.Save(ctx, session))

	movements, err := movementRepo.FindBySession(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 2)

	byRef, err := movementRepo.FindByDocumentRef(ctx, "VD-2026-000042")
	require.NoError(t, err)
	require.Len(t, byRef, 1)
	assert.Equal(t, pos.CashMovementTypeSale, byRef[0].Type)
}

func TestCashSessionRepositoryConcurrentWithdrawConflicts(t *testing.T) {
	db := setupCashSessionTestDB(t)
	repo := NewGormCashSessionRepository(db)
	ctx := context.Background()

	session := openTestSession(t, "100.00")
	require.NoError(t, repo.Save(ctx, session))

	first, err := repo.FindByID(ctx, session.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, session.ID)
	require.NoError(t, err)

	// Both operators see 100.00 in the drawer and each takes 80.00 out.
	// Only the first may win, otherwise the drawer goes negative.
	require.NoError(t, first.Withdraw(decimal.RequireFromString("80.00"), "sangria"))
	require.NoError(t, repo.Save(ctx, first))

	require.NoError(t, second.Withdraw(decimal.RequireFromString("80.00"), "sangria"))
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	found, err := repo.FindByID(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, found.Movements, 1)
	assert.True(t, decimal.RequireFromString("20").Equal(found.RunningBalance()))
}

func TestCashSessionRepositoryReloadAfterConflictSucceeds(t *testing.T) {
	db := setupCashSessionTestDB(t)
	repo := NewGormCashSessionRepository(db)
	ctx := context.Background()

	session := openTestSession(t, "100.00")
	require.NoError(t, repo.Save(ctx, session))

	stale, err := repo.FindByID(ctx, session.ID)
	require.NoError(t, err)

	winner, err := repo.FindByID(ctx, session.ID)
	require.NoError(t, err)
	require.NoError(t, winner.Deposit(decimal.RequireFromString("50.00"), "suprimento"))
	require.NoError(t, repo.Save(ctx, winner))

	require.NoError(t, stale.Withdraw(decimal.RequireFromString("30.00"), "sangria"))
	require.ErrorIs(t, repo.Save(ctx, stale), shared.ErrConcurrencyConflict)

	// The standard retry: reload and reapply against the fresh state
	fresh, err := repo.FindByID(ctx, session.ID)
	require.NoError(t, err)
	require.NoError(t, fresh.Withdraw(decimal.RequireFromString("30.00"), "sangria"))
	require.NoError(t, repo.Save(ctx, fresh))

	found, err := repo.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("120").Equal(found.RunningBalance()))
}

func TestCashSessionRepositoryFindAllSearchesTerminalCaseInsensitive(t *testing.T) {
	db := setupCashSessionTestDB(t)
	repo := NewGormCashSessionRepository(db)
	ctx := context.Background()

	front := openTestSession(t, "100.00")
	require.NoError(t, repo.Save(ctx, front))

	counter, err := pos.NewCashSession(uuid.New(), "BALCAO-02", decimal.RequireFromString("50.00"))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, counter))

	sessions, total, err := repo.FindAll(ctx, shared.Filter{Search: "CAIXA"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, sessions, 1)
	assert.Equal(t, front.ID, sessions[0].ID)
}
