package notifier

import (
	"context"

	"github.com/empdesk/empdesk/infrastructure/service/logger"
)

// LogNotifier stands in for a mail gateway by writing codes to the log. It
// is meant for development deployments only.
type LogNotifier struct {
	logger logger.Logger
}

// NewLogNotifier returns a notifier that only logs.
func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{logger: log}
}

func (n *LogNotifier) SendPasswordResetOTP(ctx context.Context, mail, code string) error {
	n.logger.Info(ctx, "Password reset code issued", map[string]interface{}{
		"mail": mail,
		"otp":  code,
	})
	return nil
}
