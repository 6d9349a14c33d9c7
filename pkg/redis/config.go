package redis

import "time"

// Config holds the [redis] section of the application configuration.
type Config struct {
	URL           string        `mapstructure:"url"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	PoolSize      int           `mapstructure:"pool_size"`
	MinIdleConns  int           `mapstructure:"min_idle_conns"`
	MaxIdleTime   time.Duration `mapstructure:"max_idle_time"`
	MaxActiveTime time.Duration `mapstructure:"max_active_time"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	DialTimeout   time.Duration `mapstructure:"dial_timeout"`
}

// DefaultConfig returns the settings used for keys missing from [redis].
func DefaultConfig() Config {
	return Config{
		KeyPrefix:     "llama:",
		PoolSize:      10,
		MinIdleConns:  5,
		MaxIdleTime:   10 * time.Minute,
		MaxActiveTime: 30 * time.Minute,
		RetryAttempts: 3,
		RetryInterval: 5 * time.Second,
		ReadTimeout:   3 * time.Second,
		WriteTimeout:  3 * time.Second,
		DialTimeout:   5 * time.Second,
	}
}
