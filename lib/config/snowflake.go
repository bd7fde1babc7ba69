package config

import (
	"fmt"

	"github.com/snowflakedb/gosnowflake"

	"github.com/artie-labs/csvload/lib/cryptography"
)

func toPtr[T any](v T) *T {
	return &v
}

func (s Snowflake) String() string {
	// Don't log credentials.
	return fmt.Sprintf("account=%s, username=%s, warehouse=%s, role=%s, pass_set=%v, key_set=%v",
		s.AccountID, s.Username, s.Warehouse, s.Role, s.Password != "", s.PathToPrivateKey != "")
}

func (s Snowflake) ToConfig(queryTag string) (*gosnowflake.Config, error) {
	cfg := &gosnowflake.Config{
		Account:     s.AccountID,
		User:        s.Username,
		Warehouse:   s.Warehouse,
		Role:        s.Role,
		Region:      s.Region,
		Application: s.Application,
		Params: map[string]*string{
			// This parameter will cancel in-progress queries if connectivity is lost.
			// https://docs.snowflake.com/en/sql-reference/parameters#abort-detached-query
			"ABORT_DETACHED_QUERY": toPtr("true"),
			// This parameter must be set to prevent the auth token from expiring after 4 hours.
			// https://docs.snowflake.com/en/user-guide/session-policies#considerations
			"CLIENT_SESSION_KEEP_ALIVE": toPtr("true"),
		},
	}

	if queryTag != "" {
		cfg.Params["QUERY_TAG"] = toPtr(queryTag)
	}

	if s.PathToPrivateKey != "" {
		key, err := cryptography.LoadRSAKey(s.PathToPrivateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to load private key: %w", err)
		}

		cfg.PrivateKey = key
		cfg.Authenticator = gosnowflake.AuthTypeJwt
	} else {
		cfg.Password = s.Password
	}

	if s.Host != "" {
		// If the host is specified, the region is implied by it.
		cfg.Host = s.Host
		cfg.Region = ""
	}

	return cfg, nil
}
