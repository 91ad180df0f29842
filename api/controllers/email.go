package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/distributech/distributech-backend/api/responses"
	"github.com/distributech/distributech-backend/api/validators"
	"github.com/distributech/distributech-backend/internal/notify"
	"github.com/distributech/distributech-backend/pkg/config"
	"github.com/distributech/distributech-backend/pkg/logger"
)

// Notifier is the dispatcher surface the email endpoints depend on.
type Notifier interface {
	SendSync(ctx context.Context, n notify.Notification) bool
}

type testEmailRequest struct {
	Recipient string `json:"recipient" validate:"omitempty,email"`
}

// TestEmail sends a test message to verify the SMTP wiring.
func TestEmail(notifier Notifier, mailCfg config.MailConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload testEmailRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		recipient := payload.Recipient
		if recipient == "" {
			recipient = mailCfg.OpsMailbox
		}

		n, err := notify.NewTest(recipient, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sent := notifier.SendSync(r.Context(), n)
		responses.WriteSuccess(w, map[string]bool{"notification_sent": sent})
	}
}
