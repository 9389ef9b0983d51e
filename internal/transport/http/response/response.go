package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pizzanova/order/internal/service/models/menuitem"
	"github.com/pizzanova/order/internal/service/models/order"
	"github.com/pizzanova/order/internal/service/pricing"
	"github.com/pizzanova/order/internal/service/services/ordersvc"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK writes a success envelope with the given payload.
func OK(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// Fail writes a failure envelope with the given message.
func Fail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(envelope{Success: false, Message: message}); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// Forbidden writes a 403 failure envelope.
func Forbidden(w http.ResponseWriter) {
	Fail(w, http.StatusForbidden, "forbidden")
}

// Error maps a service error to a status code and writes the failure
// envelope. Unrecognized errors become 500 with a generic message so storage
// details never leak to clients.
func Error(w http.ResponseWriter, err error) {
	var priceErr *pricing.PriceUnavailableError
	if errors.As(err, &priceErr) {
		Fail(w, http.StatusUnprocessableEntity, priceErr.Error())

		return
	}

	switch {
	case errors.Is(err, ordersvc.ErrNotFound):
		Fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrNotEditable),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, menuitem.ErrInvalidSize),
		errors.Is(err, menuitem.ErrInvalidCategory),
		errors.Is(err, ordersvc.ErrEmptyOrder),
		errors.Is(err, ordersvc.ErrInvalidQuantity),
		errors.Is(err, ordersvc.ErrCannotRemoveLastLine):
		Fail(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("Unhandled service error", "error", err)
		Fail(w, http.StatusInternalServerError, "internal error")
	}
}
