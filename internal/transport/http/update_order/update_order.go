package updateorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pizzanova/order/internal/service/models/order"
	"github.com/pizzanova/order/internal/service/services/ordersvc"
	"github.com/pizzanova/order/internal/transport/http/converters"
	"github.com/pizzanova/order/internal/transport/http/response"
	"github.com/pizzanova/order/pkg/http/middleware/identity"
)

type service interface {
	UpdateOrder(ctx context.Context, orderID int64, patch ordersvc.OrderPatch) (*order.Order, error)
}

// updateOrderRequest represents a staff order update. Every field is
// optional; absent fields are left unchanged.
type updateOrderRequest struct {
	Status          *string    `json:"status"          validate:"omitempty,oneof=pending processing shipped delivered canceled"`
	DeliveryAddress *string    `json:"deliveryAddress"`
	ContactPhone    *string    `json:"contactPhone"`
	PaymentMethod   *string    `json:"paymentMethod"   validate:"omitempty,oneof=cash card online"`
	Notes           *string    `json:"notes"           validate:"omitempty,max=1000"`
	DeliveryTime    *time.Time `json:"deliveryTime"`
	IsPaid          *bool      `json:"isPaid"`
}

func (r *updateOrderRequest) toModel() (ordersvc.OrderPatch, error) {
	patch := ordersvc.OrderPatch{
		DeliveryAddress: r.DeliveryAddress,
		ContactPhone:    r.ContactPhone,
		PaymentMethod:   r.PaymentMethod,
		Notes:           r.Notes,
		DeliveryTime:    r.DeliveryTime,
		IsPaid:          r.IsPaid,
	}

	if r.Status != nil {
		status, err := order.ParseStatus(*r.Status)
		if err != nil {
			return ordersvc.OrderPatch{}, err
		}
		patch.Status = &status
	}

	return patch, nil
}

// UpdateOrder handles staff-side order updates, including status
// transitions.
func UpdateOrder(w http.ResponseWriter, r *http.Request, service service) {
	caller := identity.FromContext(r.Context())
	if !caller.Role.Staff() {
		response.Forbidden(w)

		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		response.Fail(w, http.StatusBadRequest, "invalid order id")

		return
	}

	req := updateOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		slog.Error("Error decoding request body for update order", "error", err)

		return
	}

	if err := validator.New().Struct(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())

		return
	}

	patch, err := req.toModel()
	if err != nil {
		response.Error(w, err)

		return
	}

	updated, err := service.UpdateOrder(r.Context(), id, patch)
	if err != nil {
		response.Error(w, err)
		slog.Error("Error updating order", "error", err, "order_id", id)

		return
	}

	response.OK(w, http.StatusOK, converters.OrderToResponse(*updated))
}
