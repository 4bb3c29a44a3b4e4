package ports

import (
	"context"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
)

// RunHistory is an append-only log of finished runs. Persistence is a
// logging-layer concern; the engine works the same without one.
type RunHistory interface {
	Append(ctx context.Context, summary domain.RunSummary) error
	Recent(ctx context.Context, limit int) ([]domain.RunSummary, error)
	Close() error
}
