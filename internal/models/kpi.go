package models

// KPIResult is one computed summary metric: the metric name, the
// winning movie's title and the winning value. Movie and Value are
// null when no rows were eligible for the metric.
type KPIResult struct {
	KPI      string   `json:"kpi" db:"kpi"`
	Movie    *string  `json:"movie" db:"movie"`
	Value    *float64 `json:"value" db:"value"`
	Position int      `json:"position" db:"position"`
}
