package services

import (
	"context"

	"pojistovna/internal/database"
	"pojistovna/internal/logger"

	"gorm.io/gorm"
)

type transactionKey struct{}

// TransactionService scopes a gorm transaction to a context so that
// repositories participating in a multi-step write share one transaction.
// It is bound to the insurance schema; the schemas are independent and no
// cross-schema transaction is ever formed.
type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

// Execute runs fn inside a transaction carried by the derived context.
// Returning an error rolls everything back.
func (s *TransactionService) Execute(ctx context.Context, fn func(txCtx context.Context) error) error {
	log := s.log.Function("Execute")

	return s.db.InsuranceWithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, transactionKey{}, tx)
		if err := fn(txCtx); err != nil {
			log.Er("transaction rolled back", err)
			return err
		}
		return nil
	})
}

// GetTransaction returns the transaction carried by ctx, when present.
func GetTransaction(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(transactionKey{}).(*gorm.DB)
	return tx, ok
}
