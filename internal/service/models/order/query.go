package order

// QueryOrdersModel represents filter parameters for querying orders.
type QueryOrdersModel struct {
	Ids       []int64 `json:"ids,omitempty"`
	SchoolIds []int64 `json:"schoolIds,omitempty"`
	FarmerIds []int64 `json:"farmerIds,omitempty"`
	Limit     int     `json:"limit,omitempty"`
	Offset    int     `json:"offset,omitempty"`
}
