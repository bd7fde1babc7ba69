package snowflake

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/snowflakedb/gosnowflake"

	"github.com/artie-labs/csvload/clients/snowflake/dialect"
	"github.com/artie-labs/csvload/lib/awslib"
	"github.com/artie-labs/csvload/lib/config"
	"github.com/artie-labs/csvload/lib/db"
)

type s3Uploader interface {
	UploadLocalFileToS3(ctx context.Context, bucket, prefix, fp string) (string, error)
}

type Store struct {
	db.Store
	config     config.Snowflake
	stagingDir string
	s3Client   s3Uploader
}

func (Store) dialect() dialect.SnowflakeDialect {
	return dialect.SnowflakeDialect{}
}

func (s Store) useExternalStage() bool {
	return s.config.ExternalStage != nil && s.config.ExternalStage.Enabled
}

func (s *Store) getS3Client(ctx context.Context) (s3Uploader, error) {
	if s.s3Client != nil {
		return s.s3Client, nil
	}

	awsCfg, err := awslib.LoadConfig(ctx, awslib.ConfigArgs{
		Region:             s.config.ExternalStage.Region,
		AwsAccessKeyID:     s.config.ExternalStage.AwsAccessKeyID,
		AwsSecretAccessKey: s.config.ExternalStage.AwsSecretAccessKey,
	})
	if err != nil {
		return nil, err
	}

	s.s3Client = awslib.NewS3Client(awsCfg)
	return s.s3Client, nil
}

// LoadSnowflake opens a session, [_store] is only passed in by tests.
func LoadSnowflake(ctx context.Context, cfg config.Snowflake, queryTag string, _store *db.Store) (*Store, error) {
	if _store != nil {
		return &Store{
			Store:      *_store,
			config:     cfg,
			stagingDir: os.TempDir(),
		}, nil
	}

	snowflakeCfg, err := cfg.ToConfig(queryTag)
	if err != nil {
		return nil, fmt.Errorf("failed to get snowflake config: %w", err)
	}

	dsn, err := gosnowflake.DSN(snowflakeCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get snowflake dsn: %w", err)
	}

	store, err := db.Open(ctx, "snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to snowflake: %w", err)
	}

	slog.Info("Connected to Snowflake", slog.String("config", cfg.String()))
	return &Store{
		Store:      store,
		config:     cfg,
		stagingDir: os.TempDir(),
	}, nil
}
