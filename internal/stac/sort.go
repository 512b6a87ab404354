package stac

// SortDirection represents the sort direction.
type SortDirection string

const (
	// SortAsc represents ascending sort order.
	SortAsc SortDirection = "asc"
	// SortDesc represents descending sort order.
	SortDesc SortDirection = "desc"
)

// SortBy is one entry of the sort extension's sortby array.
type SortBy struct {
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction"`
}

// SortByDatetime sorts results by acquisition time.
func SortByDatetime(direction SortDirection) SortBy {
	return SortBy{Field: "properties.datetime", Direction: direction}
}
