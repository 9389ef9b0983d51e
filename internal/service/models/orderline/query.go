package orderline

// QueryOrderLinesModel represents filter parameters for querying order lines.
type QueryOrderLinesModel struct {
	Ids      []int64 `json:"ids,omitempty"`
	OrderIds []int64 `json:"orderIds,omitempty"`
	Limit    int     `json:"limit,omitempty"`
	Offset   int     `json:"offset,omitempty"`
}
