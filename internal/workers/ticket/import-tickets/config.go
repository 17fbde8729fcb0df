package importtickets

import "time"

type Config struct {
	Timeout             time.Duration
	MaxFileBytes        int
	DefaultAutoClassify bool
	FailOnFileError     bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      60 * time.Second,
		MaxFileBytes: 10 << 20,
	}
}
