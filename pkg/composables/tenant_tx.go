package composables

import (
	"context"

	"github.com/pulimoodan/tms/pkg/constants"
)

// InTenantTx runs fn inside a transaction scoped to the tenant carried by the
// context. An existing transaction in the context is reused as-is.
func InTenantTx(ctx context.Context, fn func(context.Context) error) error {
	if existing := ctx.Value(constants.TxKey); existing != nil {
		return fn(ctx)
	}
	return InTx(ctx, fn)
}

func InTenantTxResult[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := InTenantTx(ctx, func(txCtx context.Context) error {
		var innerErr error
		out, innerErr = fn(txCtx)
		return innerErr
	})
	return out, err
}
