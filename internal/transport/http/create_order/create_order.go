package createorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pizzanova/order/internal/service/models/menuitem"
	"github.com/pizzanova/order/internal/service/models/order"
	"github.com/pizzanova/order/internal/service/services/ordersvc"
	"github.com/pizzanova/order/internal/transport/http/converters"
	"github.com/pizzanova/order/internal/transport/http/response"
	"github.com/pizzanova/order/pkg/http/middleware/identity"
)

// service is an interface for the service layer.
type service interface {
	CreateOrder(
		ctx context.Context,
		clientID *int64,
		info ordersvc.DeliveryInfo,
		lines []ordersvc.NewLine,
	) (*order.Order, error)
}

// lineInCreateOrderRequest represents a requested line. Prices are resolved
// server-side and never accepted from the client.
type lineInCreateOrderRequest struct {
	MenuItemID          int64  `json:"menuItemId"          validate:"gt=0"`
	Size                string `json:"size"                validate:"required,oneof=small medium large"`
	Quantity            int    `json:"quantity"            validate:"gt=0"`
	SpecialInstructions string `json:"specialInstructions" validate:"max=500"`
}

func (r *lineInCreateOrderRequest) toModel() (*ordersvc.NewLine, error) {
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

// createOrderRequest represents a create order request.
type createOrderRequest struct {
	DeliveryAddress string                     `json:"deliveryAddress" validate:"required"`
	ContactPhone    string                     `json:"contactPhone"    validate:"required"`
	PaymentMethod   string                     `json:"paymentMethod"   validate:"required,oneof=cash card online"`
	Notes           string                     `json:"notes"           validate:"max=1000"`
	DeliveryTime    *time.Time                 `json:"deliveryTime"`
	Lines           []lineInCreateOrderRequest `json:"lines"           validate:"required,min=1,dive"`
}

// createOrderForClientRequest adds the target client for staff-created
// orders.
type createOrderForClientRequest struct {
	ClientID int64 `json:"clientId" validate:"gt=0"`
	createOrderRequest
}

// Validate validates the create order request.
func (r *createOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

func (r *createOrderRequest) toModels() (ordersvc.DeliveryInfo, []ordersvc.NewLine, error) {
	lines := make([]ordersvc.NewLine, len(r.Lines))
	for i := range r.Lines {
		line, err := r.Lines[i].toModel()
		if err != nil {
			return ordersvc.DeliveryInfo{}, nil, err
		}
		lines[i] = *line
	}

	info := ordersvc.DeliveryInfo{
		DeliveryAddress: r.DeliveryAddress,
		ContactPhone:    r.ContactPhone,
		PaymentMethod:   r.PaymentMethod,
		Notes:           r.Notes,
		DeliveryTime:    r.DeliveryTime,
	}

	return info, lines, nil
}

// CreateOrder handles order creation for the calling client.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	req := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())

		return
	}

	info, lines, err := req.toModels()
	if err != nil {
		response.Error(w, err)

		return
	}

	caller := identity.FromContext(r.Context())

	created, err := service.CreateOrder(r.Context(), caller.UserID, info, lines)
	if err != nil {
		response.Error(w, err)
		slog.Error("Error creating order", "error", err)

		return
	}

	response.OK(w, http.StatusCreated, converters.OrderToResponse(*created))
}

// CreateOrderForClient handles staff-side order creation on behalf of a
// named client.
func CreateOrderForClient(w http.ResponseWriter, r *http.Request, service service) {
	caller := identity.FromContext(r.Context())
	if !caller.Role.Staff() {
		response.Forbidden(w)

		return
	}

	req := createOrderForClientRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		slog.Error("Error decoding request body for create order for client", "error", err)

		return
	}

	if err := validator.New().Struct(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())

		return
	}

	info, lines, err := req.toModels()
	if err != nil {
		response.Error(w, err)

		return
	}

	created, err := service.CreateOrder(r.Context(), &req.ClientID, info, lines)
	if err != nil {
		response.Error(w, err)
		slog.Error("Error creating order for client", "error", err, "client_id", req.ClientID)

		return
	}

	response.OK(w, http.StatusCreated, converters.OrderToResponse(*created))
}
