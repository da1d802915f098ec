package outbound

import "context"

// Notifier delivers out-of-band messages such as password reset codes.
type Notifier interface {
	SendPasswordResetOTP(ctx context.Context, mail, code string) error
}
