package repositories

import (
	"context"

	"gorm.io/gorm"
)

// gormTransactionManager implements TransactionManager on a GORM connection
type gormTransactionManager struct {
	db *gorm.DB
}

// NewTransactionManager creates a transaction manager backed by db
func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &gormTransactionManager{db: db}
}

// Do runs fn inside a single database transaction.
func (m *gormTransactionManager) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}

// conn picks the transaction when one is supplied, the base connection otherwise.
func conn(db *gorm.DB, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
