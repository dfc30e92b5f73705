package models

import "time"

// TrendMetric is one entry of the global keyword ranking as served by the API.
type TrendMetric struct {
	Keyword string `json:"keyword"`
	Volume  int64  `json:"volume"`
}

// TrendsMeta carries paging and KPI data alongside a trends page.
type TrendsMeta struct {
	TotalVolume    int64     `json:"total_volume"`
	ActiveKeywords int64     `json:"active_keywords"`
	TotalTracked   int64     `json:"total_tracked"`
	NextOffset     int       `json:"next_offset"`
	HasMore        bool      `json:"has_more"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// TrendsPage is a page of the keyword ranking plus metadata.
type TrendsPage struct {
	Metrics []TrendMetric `json:"metrics"`
	Meta    TrendsMeta    `json:"meta"`
}
