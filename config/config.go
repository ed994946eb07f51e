/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	daoerrors "github.com/suparena/entitydao/errors"
)

// EnvPrefix prefixes every environment override, e.g. ENTITYDAO_AWS_REGION.
const EnvPrefix = "ENTITYDAO"

// Config holds the settings shared by the CLI and services embedding the DAOs.
type Config struct {
	AWS    AWS    `mapstructure:"aws"`
	Tables Tables `mapstructure:"tables"`
	Log    Log    `mapstructure:"log"`
}

// AWS configures the DynamoDB client.
type AWS struct {
	Region          string `mapstructure:"region" validate:"required"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key" validate:"required_with=AccessKeyID"`
	SessionToken    string `mapstructure:"session_token"`
	// Endpoint overrides the service endpoint, e.g. http://localhost:8000
	// for DynamoDB Local.
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
}

// Tables configures table and index management.
type Tables struct {
	Prefix        string        `mapstructure:"prefix"`
	WaitTimeout   time.Duration `mapstructure:"wait_timeout" validate:"gt=0"`
	PollInterval  time.Duration `mapstructure:"poll_interval" validate:"gt=0"`
	BillingMode   string        `mapstructure:"billing_mode" validate:"oneof=PROVISIONED PAY_PER_REQUEST"`
	ReadCapacity  int64         `mapstructure:"read_capacity" validate:"min=1"`
	WriteCapacity int64         `mapstructure:"write_capacity" validate:"min=1"`
	StrictIndexes bool          `mapstructure:"strict_indexes"`
}

// Log configures the logger package.
type Log struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// TableName applies the configured prefix to name.
func (c *Config) TableName(name string) string {
	if c.Tables.Prefix == "" {
		return name
	}
	return c.Tables.Prefix + "_" + name
}

// Load reads the configuration. Sources, lowest precedence first:
// defaults, the file at path (any format viper reads, skipped when path is
// empty), a .env file in the working directory, and ENTITYDAO_*
// environment variables.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.access_key_id", "")
	v.SetDefault("aws.secret_access_key", "")
	v.SetDefault("aws.session_token", "")
	v.SetDefault("aws.endpoint", "")

	v.SetDefault("tables.prefix", "")
	v.SetDefault("tables.wait_timeout", 10*time.Minute)
	v.SetDefault("tables.poll_interval", 5*time.Second)
	v.SetDefault("tables.billing_mode", "PROVISIONED")
	v.SetDefault("tables.read_capacity", 1)
	v.SetDefault("tables.write_capacity", 1)
	v.SetDefault("tables.strict_indexes", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct rules. Every failing field is reported as a
// ValidationError.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, daoerrors.NewValidationError(fe.Namespace(),
			fmt.Sprintf("failed on the '%s' rule", fe.Tag())))
	}
	return errors.Join(errs...)
}
