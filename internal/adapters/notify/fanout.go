package notify

import (
	"context"
	"errors"

	"github.com/bnema/camrelay/internal/domain"
	"github.com/bnema/camrelay/internal/ports"
)

// Fanout posts every notice to all of its notifiers. A failing notifier does
// not stop the others, and a webhook that was never configured is skipped.
type Fanout []ports.Notifier

var _ ports.Notifier = Fanout(nil)

func (f Fanout) PostNotice(ctx context.Context, notice domain.Notice) error {
	var errs []error
	for _, notifier := range f {
		if notifier == nil {
			continue
		}
		err := notifier.PostNotice(ctx, notice)
		if err != nil && !errors.Is(err, ErrWebhookNotConfigured) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
