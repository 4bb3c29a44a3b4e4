package ports

import (
	"context"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
)

type CredentialRepository interface {
	List(ctx context.Context) ([]domain.Credential, error)
}
