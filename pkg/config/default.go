package config

const (
	DefaultRetries     = 3
	DefaultTimeout     = 6
	DefaultRateLimit   = 150
	DefaultConcurrency = 25
)
