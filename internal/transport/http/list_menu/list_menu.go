package listmenu

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/pizzanova/order/internal/service/models/menuitem"
	"github.com/pizzanova/order/internal/transport/http/converters"
	"github.com/pizzanova/order/internal/transport/http/response"
)

type service interface {
	GetMenu(ctx context.Context, filter menuitem.QueryMenuItemsModel) ([]menuitem.MenuItem, error)
}

type queryMenuRequest struct {
	Ids        []int64  `schema:"ids,omitempty"`
	Categories []string `schema:"categories,omitempty"`
	All        bool     `schema:"all,omitempty"`
	Limit      int      `schema:"limit,omitempty"`
	Offset     int      `schema:"offset,omitempty"`
}

func (q *queryMenuRequest) toModel() (menuitem.QueryMenuItemsModel, error) {
	categories := make([]menuitem.Category, 0, len(q.Categories))
	for _, raw := range q.Categories {
		category, err := menuitem.ParseCategory(raw)
		if err != nil {
			return menuitem.QueryMenuItemsModel{}, err
		}
		categories = append(categories, category)
	}

	return menuitem.QueryMenuItemsModel{
		Ids:           q.Ids,
		Categories:    categories,
		OnlyAvailable: !q.All,
		Limit:         q.Limit,
		Offset:        q.Offset,
	}, nil
}

// ListMenu handles menu listing. Only available items are returned unless
// all=true is passed.
func ListMenu(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &queryMenuRequest{}
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

	items, err := service.GetMenu(r.Context(), filter)
	if err != nil {
		response.Error(w, err)
		slog.Error("Error getting menu items", "error", err)

		return
	}

	response.OK(w, http.StatusOK, converters.MenuItemsToResponse(items))
}
