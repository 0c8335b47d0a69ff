package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/siscom/backend/internal/domain/shared"
)

// GormSequenceGenerator issues document numbers from the document_sequences
// table. The counter row is locked with SELECT ... FOR UPDATE, so concurrent
// callers serialize on the series and numbers are never reused.
type GormSequenceGenerator struct {
	db *gorm.DB
}

// NewGormSequenceGenerator creates a new GormSequenceGenerator
func NewGormSequenceGenerator(db *gorm.DB) *GormSequenceGenerator {
	return &GormSequenceGenerator{db: db}
}

// Next returns the next formatted document number for the series
func (g *GormSequenceGenerator) Next(ctx context.Context, docType shared.DocumentType) (string, error) {
	if !docType.IsValid() {
		return "", shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Série de documento desconhecida")
	}

	year := time.Now().Year()
	var number int64

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Make sure the counter row exists, then lock it. The insert is a
		// no-op when another caller created the row first.
		if err := tx.Exec(
			`INSERT INTO document_sequences (document_type, year, last_number, updated_at) `+
				`VALUES (?, ?, 0, ?) ON CONFLICT (document_type, year) DO NOTHING`,
			docType, year, time.Now(),
		).Error; err != nil {
			return err
		}

		var seq shared.DocumentSequence
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("document_type = ? AND year = ?", docType, year).
			First(&seq).Error; err != nil {
			return err
		}

		seq.LastNumber++
		seq.UpdatedAt = time.Now()
		number = seq.LastNumber

		return tx.Model(&shared.DocumentSequence{}).
			Where("document_type = ? AND year = ?", docType, year).
			Updates(map[string]interface{}{
				"last_number": seq.LastNumber,
				"updated_at":  seq.UpdatedAt,
			}).Error
	})
	if err != nil {
		return "", err
	}

	return shared.FormatDocumentNumber(docType, year, number), nil
}

var _ shared.SequenceGenerator = (*GormSequenceGenerator)(nil)
