// Package context carries the ambient gorm transaction that the
// booking and payout write paths thread through their repositories.
package context

import (
	"context"

	"gorm.io/gorm"
)

type contextKey string

const transactionKey contextKey = "tx"

// GetTransaction returns the transaction stashed on the context, if the
// caller is running inside TransactionService.Execute.
func GetTransaction(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(transactionKey).(*gorm.DB)
	return tx, ok
}

// WithTransaction stashes tx so repositories down the call chain join
// the same transaction.
func WithTransaction(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, transactionKey, tx)
}
