package schema

// Custom string types for type safety.
type (
	// DisplayMode is the presentation hint telling renderers whether to show counts or shares.
	DisplayMode string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the export history.
	DatabaseBackend string

	// ChartFormat represents the image format of an exported chart.
	ChartFormat string

	// ChartKind represents which chart is rendered from a view.
	ChartKind string

	// DatasetID names one of the datasets known to the catalog.
	DatasetID string

	// InsightSeverity classifies an automatically generated insight.
	InsightSeverity string

	// AnomalyKind tells whether an anomaly is above or below the mean.
	AnomalyKind string
)

// All display modes supported.
const (
	CountsMode      DisplayMode = "counts" // default
	PercentagesMode DisplayMode = "percentages"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All chart formats supported.
const (
	PNGFormat ChartFormat = "png" // default
	SVGFormat ChartFormat = "svg"
)

// All chart kinds supported.
const (
	TrendChart   ChartKind = "trend" // default
	SummaryChart ChartKind = "summary"
)

// Built-in datasets.
const (
	InvestigationDataset DatasetID = "investigation"
	ScreeningDataset     DatasetID = "screening" // default
)

// All insight severities.
const (
	PositiveInsight InsightSeverity = "positive"
	InfoInsight     InsightSeverity = "info"
	WarningInsight  InsightSeverity = "warning"
)

// All anomaly kinds.
const (
	SpikeAnomaly AnomalyKind = "spike"
	DropAnomaly  AnomalyKind = "drop"
)

// DefaultAnomalyThreshold is the z-score above which a value is flagged.
const DefaultAnomalyThreshold = 2.0

// ValidDisplayModes lists all valid display modes.
var ValidDisplayModes = map[DisplayMode]struct{}{
	CountsMode:      {},
	PercentagesMode: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidHistoryBackends lists all valid history backends.
var ValidHistoryBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidChartFormats lists all valid chart formats.
var ValidChartFormats = map[ChartFormat]struct{}{
	PNGFormat: {},
	SVGFormat: {},
}

// ValidChartKinds lists all valid chart kinds.
var ValidChartKinds = map[ChartKind]struct{}{
	TrendChart:   {},
	SummaryChart: {},
}
