package config

// ValidationError reports an out-of-range configuration value.
type ValidationError struct {
	Key     string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "invalid config " + e.Key + ": " + e.Message
}
