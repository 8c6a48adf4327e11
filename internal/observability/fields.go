package observability

import (
	"time"

	"go.uber.org/zap"
)

// String constructs a string log field.
func String(key, value string) zap.Field {
	return zap.String(key, value)
}

// Strings constructs a string slice log field.
func Strings(key string, values []string) zap.Field {
	return zap.Strings(key, values)
}

// Int constructs an int log field.
func Int(key string, value int) zap.Field {
	return zap.Int(key, value)
}

// Float64 constructs a float64 log field.
func Float64(key string, value float64) zap.Field {
	return zap.Float64(key, value)
}

// Bool constructs a bool log field.
func Bool(key string, value bool) zap.Field {
	return zap.Bool(key, value)
}

// Duration constructs a duration log field.
func Duration(key string, value time.Duration) zap.Field {
	return zap.Duration(key, value)
}

// Any constructs a log field from an arbitrary value.
func Any(key string, value interface{}) zap.Field {
	return zap.Any(key, value)
}

// Error constructs an error log field under the "error" key.
func Error(err error) zap.Field {
	return zap.Error(err)
}
