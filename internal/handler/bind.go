package handler

import (
	"errors"
	"net/http"

	appErrors "github.com/noah-isme/campus-notice-api/pkg/errors"
)

// bindError maps gin binding failures. Oversized bodies become 413. Missing
// fields are left to the services, which carry the user-facing messages.
func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return appErrors.Wrap(err, appErrors.ErrPayloadTooLarge.Code, appErrors.ErrPayloadTooLarge.Status, appErrors.ErrPayloadTooLarge.Message)
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
}
