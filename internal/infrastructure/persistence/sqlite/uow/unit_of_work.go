package uow

import (
	"context"

	"gorm.io/gorm"

	"firewatch/internal/ports"
)

// UnitOfWork implements ports.UnitOfWork with gorm.
type UnitOfWork struct {
	db *gorm.DB
}

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// WithTx joins the transaction already carried by ctx as a savepoint, or opens a new one.
func (u *UnitOfWork) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	root := u.db.WithContext(ctx)
	if outer, ok := ports.TxFromContext(ctx).(*gorm.DB); ok && outer != nil {
		root = outer.WithContext(ctx)
	}
	return root.Transaction(func(tx *gorm.DB) error {
		return fn(ports.WithTxContext(ctx, tx))
	})
}
