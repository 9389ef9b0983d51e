package removeline

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pizzanova/order/internal/service/models/order"
	"github.com/pizzanova/order/internal/service/models/orderline"
	"github.com/pizzanova/order/internal/service/services/ordersvc"
	"github.com/pizzanova/order/internal/transport/http/response"
	"github.com/pizzanova/order/pkg/http/middleware/identity"
)

type service interface {
	GetOrder(ctx context.Context, id int64) (*order.Order, error)
	GetLine(ctx context.Context, id int64) (*orderline.OrderLine, error)
	RemoveLine(ctx context.Context, lineID int64) error
}

// RemoveLine handles deleting a line from a pending order. The last line of
// an order cannot be removed.
func RemoveLine(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		response.Fail(w, http.StatusBadRequest, "invalid order line id")

		return
	}

	caller := identity.FromContext(r.Context())
	if !caller.Role.Staff() {
		line, err := service.GetLine(r.Context(), id)
		if err != nil {
			response.Error(w, err)

			return
		}

		o, err := service.GetOrder(r.Context(), line.OrderID)
		if err != nil {
			response.Error(w, err)

			return
		}

		if caller.UserID == nil || !o.OwnedBy(*caller.UserID) {
			response.Error(w, ordersvc.ErrNotFound)

			return
		}
	}

	if err := service.RemoveLine(r.Context(), id); err != nil {
		response.Error(w, err)
		slog.Error("Error removing order line", "error", err, "line_id", id)

		return
	}

	response.OK(w, http.StatusOK, nil)
}
