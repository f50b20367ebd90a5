package mailer

import (
	"context"

	"go.uber.org/zap"

	"github.com/ykvlv/eventbot/internal/domain"
)

// DryRun logs reminders instead of sending them.
type DryRun struct {
	log *zap.Logger
}

func NewDryRun(log *zap.Logger) *DryRun {
	return &DryRun{log: log}
}

func (d *DryRun) SendReminder(_ context.Context, r domain.Reminder) error {
	d.log.Info("dry run: reminder not sent",
		zap.String("to", r.To),
		zap.String("subject", Subject(r)),
		zap.String("body", Body(r)),
	)
	return nil
}
