package config

import (
	"fmt"

	"github.com/jessevdk/go-flags"

	"github.com/artie-labs/csvload/lib/stringutil"
)

// Args are the positional arguments, all of them are required although [Table] may be an empty string.
type Args struct {
	User      string `positional-arg-name:"user" description:"Snowflake username"`
	Password  string `positional-arg-name:"password" description:"Snowflake password"`
	Account   string `positional-arg-name:"account" description:"Snowflake account identifier, e.g. company.snowflakecomputing.com would just be \"company\""`
	Warehouse string `positional-arg-name:"warehouse" description:"Snowflake warehouse"`
	Database  string `positional-arg-name:"database" description:"Database name"`
	Schema    string `positional-arg-name:"schema" description:"Schema name"`
	Table     string `positional-arg-name:"table" description:"Table name, pass an empty string to derive it from the file name"`
	File      string `positional-arg-name:"file" description:"Path to the CSV file"`
}

type Settings struct {
	Config         Config
	Database       string
	Schema         string
	Table          string
	File           string
	ParseDates     bool
	VerboseLogging bool
}

func (s Settings) Validate() error {
	if stringutil.Empty(s.Database, s.Schema) {
		return fmt.Errorf("database and schema are required")
	}

	if s.File == "" {
		return fmt.Errorf("file is required")
	}

	return s.Config.Validate()
}

// LoadSettings parses [args] (without the program name). Positional credentials override the config file.
func LoadSettings(args []string) (*Settings, error) {
	var opts struct {
		ConfigFilePath string `short:"c" long:"config" description:"path to an optional config file"`
		Verbose        bool   `short:"v" long:"verbose" description:"debug logging"`
		ParseDates     bool   `long:"parse-dates" description:"infer datetime columns"`
		Args           Args   `positional-args:"yes" required:"yes"`
	}

	if _, err := flags.ParseArgs(&opts, args); err != nil {
		return nil, fmt.Errorf("failed to parse args: %w", err)
	}

	var cfg Config
	if opts.ConfigFilePath != "" {
		fileCfg, err := readFileToConfig(opts.ConfigFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		cfg = *fileCfg
	}

	cfg.Snowflake.Username = opts.Args.User
	cfg.Snowflake.Password = opts.Args.Password
	cfg.Snowflake.AccountID = opts.Args.Account
	cfg.Snowflake.Warehouse = opts.Args.Warehouse
	cfg.Snowflake.applyDefaults()

	settings := &Settings{
		Config:         cfg,
		Database:       opts.Args.Database,
		Schema:         opts.Args.Schema,
		Table:          opts.Args.Table,
		File:           opts.Args.File,
		ParseDates:     opts.ParseDates,
		VerboseLogging: opts.Verbose,
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate settings: %w", err)
	}

	return settings, nil
}
