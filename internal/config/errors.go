package config

import "errors"

var (
	// ErrInvalidConfig wraps a setting that loaded but failed Validate,
	// e.g. an unknown store_backend or a season outside 1992..2100.
	ErrInvalidConfig = errors.New("frcscout config: invalid setting")

	// ErrLoadConfig wraps a failure reading a layer: a .env file, the
	// FRCSCOUT_CONFIG YAML file or the FRCSCOUT_* environment.
	ErrLoadConfig = errors.New("frcscout config: cannot read layer")
)
