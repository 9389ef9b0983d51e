package getorder

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pizzanova/order/internal/service/models/order"
	"github.com/pizzanova/order/internal/transport/http/converters"
	"github.com/pizzanova/order/internal/transport/http/response"
	"github.com/pizzanova/order/pkg/http/middleware/identity"
)

type service interface {
	GetOrder(ctx context.Context, id int64) (*order.Order, error)
}

// GetOrder handles fetching one order aggregate. Customers only see their
// own orders.
func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
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

	response.OK(w, http.StatusOK, converters.OrderToResponse(*o))
}
