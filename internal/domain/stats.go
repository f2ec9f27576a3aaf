package domain

// StatusCounts holds per-status totals for one owner or a whole realm.
type StatusCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Published int `json:"published"`
	Rejected  int `json:"rejected"`
}

// ViewStats aggregates view counters over the same scope.
type ViewStats struct {
	Sum int64   `json:"sum"`
	Avg float64 `json:"avg"`
	Max int64   `json:"max"`
}

// MonthBucket is one year-month submission count for trend display.
type MonthBucket struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

// Stats is the full aggregate served by the statistics endpoints.
type Stats struct {
	Counts       StatusCounts  `json:"counts"`
	ApprovalRate int           `json:"approvalRate"` // integer percentage in [0,100]
	Views        ViewStats     `json:"views"`
	Monthly      []MonthBucket `json:"monthly"`
}
