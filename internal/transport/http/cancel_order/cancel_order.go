package cancelorder

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pizzanova/order/internal/service/models/order"
	"github.com/pizzanova/order/internal/transport/http/response"
	"github.com/pizzanova/order/pkg/http/middleware/identity"
)

type service interface {
	GetOrder(ctx context.Context, id int64) (*order.Order, error)
	CancelOrder(ctx context.Context, orderID int64) error
}

// CancelOrder handles order cancellation. The owner or staff may cancel, and
// only while the order is still pending.
func CancelOrder(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		response.Fail(w, http.StatusBadRequest, "invalid order id")

		return
	}

	o, err := service.GetOrder(r.Context(), id)
	if err != nil {
		response.Error(w, err)

		return
	}

	caller := identity.FromContext(r.Context())
	if !caller.Role.Staff() {
		if caller.UserID == nil || !o.OwnedBy(*caller.UserID) {
			response.Forbidden(w)

			return
		}
	}

	if err := service.CancelOrder(r.Context(), id); err != nil {
		response.Error(w, err)
		slog.Error("Error canceling order", "error", err, "order_id", id)

		return
	}

	response.OK(w, http.StatusOK, nil)
}
