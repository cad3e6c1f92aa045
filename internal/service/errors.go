package service

import (
	"errors"

	"vault-dashboard/pkg/apperror"
)

// displayError renders err for the dashboard. Coded errors show their
// public message, anything else a generic one.
func displayError(err error) string {
	if err == nil {
		return ""
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Failed to refresh vault data"
}
