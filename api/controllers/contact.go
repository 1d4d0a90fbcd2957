package controllers

import (
	"net/http"

	"github.com/kofiadjei/sleekline-backend/api/responses"
	"github.com/kofiadjei/sleekline-backend/api/validators"
	"github.com/kofiadjei/sleekline-backend/internal/notifications"
	"github.com/kofiadjei/sleekline-backend/internal/verification"
	"github.com/kofiadjei/sleekline-backend/pkg/enums"
	pkgerrors "github.com/kofiadjei/sleekline-backend/pkg/errors"
	"github.com/kofiadjei/sleekline-backend/pkg/logger"
)

// Contact accepts a storefront contact message. The human check gates the
// endpoint; delivery itself is fire-and-forget, so a slow or broken downstream
// never fails the request.
func Contact(verifier verification.Verifier, notify notifications.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload contactRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ok, err := verifier.Verify(r.Context(), payload.VerificationToken, "contact")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verification unavailable"))
			return
		}
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeVerification, "security verification failed, please try again"))
			return
		}

		notify.Dispatch(r.Context(), notifications.Message{
			Type: enums.NotificationContact,
			Payload: map[string]any{
				"name":    validators.SanitizeString(payload.Name, 200),
				"email":   payload.Email,
				"message": validators.SanitizeString(payload.Message, 5000),
			},
		})

		responses.WriteSuccess(w, map[string]string{"status": "received"})
	}
}

type contactRequest struct {
	Name              string `json:"name" validate:"required"`
	Email             string `json:"email" validate:"required,email"`
	Message           string `json:"message" validate:"required"`
	VerificationToken string `json:"verification_token"`
}
