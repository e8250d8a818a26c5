package schema

// Anomaly is a value whose z-score within its category exceeds the threshold.
type Anomaly struct {
	Period   string      `json:"period"`
	Category CategoryID  `json:"category"`
	Value    int64       `json:"value"`
	Expected int64       `json:"expected"`
	ZScore   float64     `json:"z_score"`
	Kind     AnomalyKind `json:"kind"`
}

// Extreme records the peak period of a category and its highest-share period.
type Extreme struct {
	Category        CategoryID `json:"category"`
	MaxPeriod       string     `json:"max_period"`
	MaxValue        int64      `json:"max_value"`
	MinPeriod       string     `json:"min_period"`
	MinValue        int64      `json:"min_value"`
	TopSharePeriod  string     `json:"top_share_period"`
	TopSharePercent float64    `json:"top_share_percent"`
}

// Growth is the change of a category from the first to the last period of the window.
type Growth struct {
	Category CategoryID `json:"category"`
	First    int64      `json:"first"`
	Last     int64      `json:"last"`
	Percent  float64    `json:"percent"`
	Defined  bool       `json:"defined"`
}

// Insight is one generated observation about a view.
type Insight struct {
	Severity InsightSeverity `json:"severity"`
	Title    string          `json:"title"`
	Text     string          `json:"text"`
}

// InsightReport is everything the insight engine derives from one view.
type InsightReport struct {
	Dataset   DatasetID `json:"dataset"`
	DateRange DateRange `json:"date_range"`
	Insights  []Insight `json:"insights"`
	Anomalies []Anomaly `json:"anomalies"`
	Extremes  []Extreme `json:"extremes"`
	Growth    []Growth  `json:"growth"`
	Summary   string    `json:"summary"`
}
