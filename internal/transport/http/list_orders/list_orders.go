package listorders

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/pizzanova/order/internal/service/models/order"
	"github.com/pizzanova/order/internal/transport/http/converters"
	"github.com/pizzanova/order/internal/transport/http/response"
	"github.com/pizzanova/order/pkg/http/middleware/identity"
)

type service interface {
	GetOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
}

type queryOrdersRequest struct {
	Ids       []int64  `schema:"ids,omitempty"`
	ClientIds []int64  `schema:"clientIds,omitempty"`
	Statuses  []string `schema:"statuses,omitempty"`
	Limit     int      `schema:"limit,omitempty"`
	Offset    int      `schema:"offset,omitempty"`
}

func (q *queryOrdersRequest) toModel() (order.QueryOrdersModel, error) {
	statuses := make([]order.Status, 0, len(q.Statuses))
	for _, raw := range q.Statuses {
		status, err := order.ParseStatus(raw)
		if err != nil {
			return order.QueryOrdersModel{}, err
		}
		statuses = append(statuses, status)
	}

	return order.QueryOrdersModel{
		Ids:       q.Ids,
		ClientIds: q.ClientIds,
		Statuses:  statuses,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}, nil
}

// ListOrders handles order listing. Non-staff callers only ever see their
// own orders, whatever filter they send.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &queryOrdersRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		slog.Error("Error decoding request", "error", err)

		return
	}

	filter, err := query.toModel()
	if err != nil {
		response.Error(w, err)

		return
	}

	caller := identity.FromContext(r.Context())
	if !caller.Role.Staff() {
		if caller.UserID == nil {
			response.Forbidden(w)

			return
		}
		filter.ClientIds = []int64{*caller.UserID}
	}

	orders, err := service.GetOrders(r.Context(), filter)
	if err != nil {
		response.Error(w, err)
		slog.Error("Error getting orders", "error", err)

		return
	}

	response.OK(w, http.StatusOK, converters.OrdersToResponse(orders))
}
