package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siscom/backend/internal/domain/shared"
)

func TestGormSequenceGenerator_Next(t *testing.T) {
	t.Run("locks the counter row and issues the next number", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		gen := NewGormSequenceGenerator(gormDB)

		year := time.Now().Year()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO document_sequences .* ON CONFLICT \(document_type, year\) DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		rows := sqlmock.NewRows([]string{"document_type", "year", "last_number", "updated_at"}).
			AddRow("VENDA", year, 41, time.Now())
		mock.ExpectQuery(`SELECT \* FROM "document_sequences" WHERE document_type = \$1 AND year = \$2 .* FOR UPDATE`).
			WillReturnRows(rows)
		mock.ExpectExec(`UPDATE "document_sequences" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		number, err := gen.Next(context.Background(), shared.DocumentTypeSale)

		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("VD-%d-00042", year), number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects unknown document series without touching the database", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		gen := NewGormSequenceGenerator(gormDB)

		number, err := gen.Next(context.Background(), shared.DocumentType("NOTA"))

		require.Error(t, err)
		assert.Empty(t, number)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DOCUMENT_TYPE", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the counter update fails", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		gen := NewGormSequenceGenerator(gormDB)

		year := time.Now().Year()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO document_sequences .* ON CONFLICT \(document_type, year\) DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		rows := sqlmock.NewRows([]string{"document_type", "year", "last_number", "updated_at"}).
			AddRow("OS", year, 7, time.Now())
		mock.ExpectQuery(`SELECT \* FROM "document_sequences" WHERE document_type = \$1 AND year = \$2 .* FOR UPDATE`).
			WillReturnRows(rows)
		mock.ExpectExec(`UPDATE "document_sequences" SET`).
			WillReturnError(fmt.Errorf("connection reset"))
		mock.ExpectRollback()

		number, err := gen.Next(context.Background(), shared.DocumentTypeServiceOrder)

		require.Error(t, err)
		assert.Empty(t, number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
