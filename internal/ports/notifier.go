package ports

import (
	"context"

	"github.com/bnema/camrelay/internal/domain"
)

type Notifier interface {
	PostNotice(ctx context.Context, notice domain.Notice) error
}
