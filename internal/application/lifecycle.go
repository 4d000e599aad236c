package application

import (
	"context"

	"github.com/bnema/camrelay/internal/domain"
	"github.com/bnema/camrelay/internal/ports"
	"github.com/rs/zerolog"
)

const (
	startedNoticeText = "Connected"
	stoppedNoticeText = "Disconnected"
)

// Lifecycle announces that the relay came up or went down. Posting is best
// effort and never blocks startup or shutdown on a failing channel.
type Lifecycle struct {
	notifier ports.Notifier
	logger   zerolog.Logger
}

func NewLifecycle(notifier ports.Notifier, logger zerolog.Logger) *Lifecycle {
	return &Lifecycle{
		notifier: notifier,
		logger:   logger.With().Str("component", "lifecycle").Logger(),
	}
}

func (l *Lifecycle) Started(ctx context.Context) {
	l.post(ctx, domain.Notice{Text: startedNoticeText, Colour: domain.ColourBrightGreen})
}

func (l *Lifecycle) Stopped(ctx context.Context) {
	l.post(ctx, domain.Notice{Text: stoppedNoticeText, Colour: domain.ColourRed})
}

func (l *Lifecycle) post(ctx context.Context, notice domain.Notice) {
	if l == nil || l.notifier == nil {
		return
	}
	if err := l.notifier.PostNotice(ctx, notice); err != nil {
		l.logger.Warn().Err(err).Str("notice", notice.Text).Msg("could not post lifecycle notice")
		return
	}
	l.logger.Debug().Str("notice", notice.Text).Msg("lifecycle notice posted")
}
