package config

import "github.com/artie-labs/csvload/lib/config/constants"

type Sentry struct {
	DSN string `yaml:"dsn"`
}

type Reporting struct {
	Sentry *Sentry `yaml:"sentry"`
}

type Metrics struct {
	Provider constants.ExporterKind `yaml:"provider"`
	Settings map[string]any         `yaml:"settings,omitempty"`
}

type Telemetry struct {
	Metrics Metrics `yaml:"metrics"`
}

// ExternalStage - When enabled, staged files are uploaded to S3 and copied from an existing external stage
// instead of the table's internal stage.
type ExternalStage struct {
	Enabled bool   `yaml:"enabled"`
	Name    string `yaml:"name"`
	Bucket  string `yaml:"bucket"`
	Prefix  string `yaml:"prefix"`
	Region  string `yaml:"region"`
	// AwsAccessKeyID and AwsSecretAccessKey are optional, the default credential chain is used otherwise.
	AwsAccessKeyID     string `yaml:"awsAccessKeyID"`
	AwsSecretAccessKey string `yaml:"awsSecretAccessKey"`
}

type Snowflake struct {
	AccountID        string         `yaml:"account"`
	Username         string         `yaml:"username"`
	Password         string         `yaml:"password"`
	PathToPrivateKey string         `yaml:"pathToPrivateKey"`
	Warehouse        string         `yaml:"warehouse"`
	Role             string         `yaml:"role"`
	Region           string         `yaml:"region"`
	Host             string         `yaml:"host"`
	Application      string         `yaml:"application"`
	ExternalStage    *ExternalStage `yaml:"externalStage,omitempty"`
}

type Config struct {
	Snowflake Snowflake `yaml:"snowflake"`
	Reporting Reporting `yaml:"reporting"`
	Telemetry Telemetry `yaml:"telemetry"`
}
