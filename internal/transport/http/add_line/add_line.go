package addline

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

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
	AddLine(ctx context.Context, orderID int64, req ordersvc.NewLine) (*orderline.OrderLine, error)
}

// addLineRequest represents a request to add a line to an existing order.
type addLineRequest struct {
	OrderID             int64  `json:"orderId"             validate:"gt=0"`
	MenuItemID          int64  `json:"menuItemId"          validate:"gt=0"`
	Size                string `json:"size"                validate:"required,oneof=small medium large"`
	Quantity            int    `json:"quantity"            validate:"gt=0"`
	SpecialInstructions string `json:"specialInstructions" validate:"max=500"`
}

func (r *addLineRequest) toModel() (*ordersvc.NewLine, error) {
	size, err := menuitem.ParseSize(r.Size)
	if err != nil {
		return nil, err
	}

	return &ordersvc.NewLine{
		MenuItemID:          r.MenuItemID,
		Size:                size,
		Quantity:            r.Quantity,
		SpecialInstructions: r.SpecialInstructions,
	}, nil
}

// AddLine handles adding a line to a pending order. Matching lines merge by
// quantity instead of duplicating.
func AddLine(w http.ResponseWriter, r *http.Request, service service) {
	req := addLineRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		slog.Error("Error decoding request body for add line", "error", err)

		return
	}

	if err := validator.New().Struct(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())

		return
	}

	o, err := service.GetOrder(r.Context(), req.OrderID)
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

	newLine, err := req.toModel()
	if err != nil {
		response.Error(w, err)

		return
	}

	line, err := service.AddLine(r.Context(), req.OrderID, *newLine)
	if err != nil {
		response.Error(w, err)
		slog.Error("Error adding order line", "error", err, "order_id", req.OrderID)

		return
	}

	response.OK(w, http.StatusCreated, converters.OrderLineToResponse(*line))
}
