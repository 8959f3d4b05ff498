package handlers

import (
	"errors"
	"net/http"

	"messaging-service/internal/chat"
	"messaging-service/internal/repositories"
)

// statusForError maps core error kinds to transport status codes. Everything
// unrecognized is treated as an internal (possibly transient) failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, repositories.ErrUserNotFound),
		errors.Is(err, repositories.ErrGroupNotFound),
		errors.Is(err, repositories.ErrMessageNotFound),
		errors.Is(err, repositories.ErrNotificationNotFound),
		errors.Is(err, repositories.ErrDeliveryStatusNotFound):
		return http.StatusNotFound
	case errors.Is(err, chat.ErrNotGroupMember):
		return http.StatusForbidden
	case errors.Is(err, chat.ErrInvalidTarget):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
