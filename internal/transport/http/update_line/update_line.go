package updateline

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pizzanova/order/internal/service/models/menuitem"
	"github.com/pizzanova/order/internal/service/models/order"
	"github.com/pizzanova/order/internal/service/models/orderline"
	"github.com/pizzanova/order/internal/service/services/ordersvc"
	"github.com/pizzanova/order/internal/transport/http/converters"
	"github.com/pizzanova/order/internal/transport/http/response"
	"github.com/pizzanova/order/pkg/http/middleware/identity"
)

type service interface {
	GetOrder(ctx context.Context, id int64) (*order.Order, error)
	GetLine(ctx context.Context, id int64) (*orderline.OrderLine, error)
	UpdateLine(ctx context.Context, lineID int64, patch ordersvc.LinePatch) (*orderline.OrderLine, error)
}

// updateLineRequest represents a line update. Every field is optional; the
// referenced menu item cannot change.
type updateLineRequest struct {
	Size                *string `json:"size"                validate:"omitempty,oneof=small medium large"`
	Quantity            *int    `json:"quantity"            validate:"omitempty,gt=0"`
	SpecialInstructions *string `json:"specialInstructions" validate:"omitempty,max=500"`
}

func (r *updateLineRequest) toModel() (ordersvc.LinePatch, error) {
	patch := ordersvc.LinePatch{
		Quantity:            r.Quantity,
		SpecialInstructions: r.SpecialInstructions,
	}

	if r.Size != nil {
		size, err := menuitem.ParseSize(*r.Size)
		if err != nil {
			return ordersvc.LinePatch{}, err
		}
		patch.Size = &size
	}

	return patch, nil
}

// UpdateLine handles changing a line on a pending order.
func UpdateLine(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		response.Fail(w, http.StatusBadRequest, "invalid order line id")

		return
	}

	req := updateLineRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		slog.Error("Error decoding request body for update line", "error", err)

		return
	}

	if err := validator.New().Struct(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())

		return
	}

	if err := authorizeLine(r, service, id); err != nil {
		response.Error(w, err)

		return
	}

	patch, err := req.toModel()
	if err != nil {
		response.Error(w, err)

		return
	}

	line, err := service.UpdateLine(r.Context(), id, patch)
	if err != nil {
		response.Error(w, err)
		slog.Error("Error updating order line", "error", err, "line_id", id)

		return
	}

	response.OK(w, http.StatusOK, converters.OrderLineToResponse(*line))
}

// authorizeLine loads the line's order and checks the caller may modify it.
// Customers get a not-found rather than a forbidden for lines on orders they
// do not own, so line ids cannot be probed.
func authorizeLine(r *http.Request, service service, lineID int64) error {
	caller := identity.FromContext(r.Context())
	if caller.Role.Staff() {
		return nil
	}

	line, err := service.GetLine(r.Context(), lineID)
	if err != nil {
		return err
	}

	o, err := service.GetOrder(r.Context(), line.OrderID)
	if err != nil {
		return err
	}

	if caller.UserID == nil || !o.OwnedBy(*caller.UserID) {
		return ordersvc.ErrNotFound
	}

	return nil
}
