package settings

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

type Config struct {
	Logger        Logger        `mapstructure:"logger"`
	BufferPool    BufferPool    `mapstructure:"buffer_pool"`
	ArrayPool     ArrayPool     `mapstructure:"array_pool"`
	SegmentStream SegmentStream `mapstructure:"segment_stream"`
	PagedStream   PagedStream   `mapstructure:"paged_stream"`
}

// Logger is the configuration for the logger
type Logger struct {
	LogLevel    string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	FileLogName string `mapstructure:"file_log_name"`
	MaxBackups  int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAge      int    `mapstructure:"max_age" validate:"gte=0"`  // Days
	MaxSize     int    `mapstructure:"max_size" validate:"gte=0"` // Megabytes
	Compress    bool   `mapstructure:"compress"`
}

// BufferPool is the configuration for the bounded buffer pool
type BufferPool struct {
	MaxPooled       int `mapstructure:"max_pooled" validate:"gte=0"`
	DefaultCapacity int `mapstructure:"default_capacity" validate:"gte=0"`
	MaxRetained     int `mapstructure:"max_retained" validate:"gte=0"` // Bytes, 0 keeps any size
	MaxLimit        int `mapstructure:"max_limit" validate:"gte=0"`    // Bytes, 0 is unlimited
}

// ArrayPool is the configuration for the shared array rental pool
type ArrayPool struct {
	ClearOnReturn bool `mapstructure:"clear_on_return"`
}

// SegmentStream is the configuration for contiguous pooled streams
type SegmentStream struct {
	InitialCapacity     int `mapstructure:"initial_capacity" validate:"gte=0"`
	OverExpansionFactor int `mapstructure:"over_expansion_factor" validate:"gte=1"`
}

// PagedStream is the configuration for paged streams
type PagedStream struct {
	PageSize      int64 `mapstructure:"page_size" validate:"gt=0,lte=1073741824"` // Bytes
	DirectoryStep int   `mapstructure:"directory_step" validate:"gt=0"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Logger: Logger{
			LogLevel:   "info",
			MaxBackups: 3,
			MaxAge:     28,
			MaxSize:    100,
		},
		BufferPool: BufferPool{
			MaxPooled:       200,
			DefaultCapacity: 64,
		},
		ArrayPool: ArrayPool{
			ClearOnReturn: true,
		},
		SegmentStream: SegmentStream{
			InitialCapacity:     256,
			OverExpansionFactor: 2,
		},
		PagedStream: PagedStream{
			PageSize:      1 << 30,
			DirectoryStep: 16,
		},
	}
}

var validate = validator.New()

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}
