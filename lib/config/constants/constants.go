package constants

const (
	// NullValuePlaceholder is written into staged files for missing values and matched by the COPY file format.
	NullValuePlaceholder = `\N`

	// DerivedTableSuffix is appended to the file name when no table name is given.
	DerivedTableSuffix = "_TABLE"

	// QueryTagPrefix prefixes the Snowflake QUERY_TAG of every session, followed by the load ID.
	QueryTagPrefix = "csvload:"

	DefaultApplication = "csvload"
)

// ExporterKind is used for the Telemetry package
type ExporterKind string

const (
	Datadog ExporterKind = "datadog"
)
