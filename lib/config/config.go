package config

import (
	"cmp"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/artie-labs/csvload/lib/config/constants"
	"github.com/artie-labs/csvload/lib/stringutil"
)

func readFileToConfig(pathToConfig string) (*Config, error) {
	bytes, err := os.ReadFile(pathToConfig)
	if err != nil {
		return nil, err
	}

	var config Config
	if err = yaml.Unmarshal(bytes, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func (s *Snowflake) applyDefaults() {
	s.Application = cmp.Or(s.Application, constants.DefaultApplication)
}

func (s Snowflake) Validate() error {
	if stringutil.Empty(s.AccountID, s.Username, s.Warehouse) {
		return fmt.Errorf("snowflake account, username and warehouse are required")
	}

	if s.Password == "" && s.PathToPrivateKey == "" {
		return fmt.Errorf("one of snowflake password or pathToPrivateKey is required")
	}

	if stage := s.ExternalStage; stage != nil && stage.Enabled {
		if stringutil.Empty(stage.Name, stage.Bucket) {
			return fmt.Errorf("external stage name and bucket are required when the external stage is enabled")
		}

		if (stage.AwsAccessKeyID == "") != (stage.AwsSecretAccessKey == "") {
			return fmt.Errorf("external stage awsAccessKeyID and awsSecretAccessKey must be set together")
		}
	}

	return nil
}

func (c Config) Validate() error {
	if err := c.Snowflake.Validate(); err != nil {
		return fmt.Errorf("config is invalid: %w", err)
	}

	switch c.Telemetry.Metrics.Provider {
	case "", constants.Datadog:
	default:
		return fmt.Errorf("config is invalid, metrics provider: %q is not supported", c.Telemetry.Metrics.Provider)
	}

	return nil
}
