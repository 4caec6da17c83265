package services

import "github.com/bankops/ledgercore/internal/core/domain"

// NotificationSink is the outbound queue the core enqueues notification
// requests into. Enqueue must never block and delivery is best-effort; a
// dropped or failed notification never affects the operation that produced it.
type NotificationSink interface {
	Enqueue(req domain.NotificationRequest)
}
