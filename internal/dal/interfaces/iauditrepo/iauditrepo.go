package iauditrepo

import (
	"context"

	"github.com/farm2school/order/internal/service/models/order"
)

// IAuditRepository publishes order lifecycle events for the audit trail.
type IAuditRepository interface {
	LogOrderCreated(ctx context.Context, o order.Order) error
}
