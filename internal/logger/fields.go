package logger

import (
	"github.com/xraph/go-utils/log"
)

// Field constructors that return wrapped fields.
var (
	// String creates a string field.
	String = log.String
	// Int creates an int field.
	Int = log.Int
	// Bool creates a bool field.
	Bool = log.Bool
	// Duration creates a duration field.
	Duration = log.Duration
	// Error creates an error field.
	Error = log.Error
	// Strings creates a string slice field.
	Strings = log.Strings
)

// Contract names the service contract a log line is about.
func Contract(name string) Field {
	return log.String("contract", name)
}

// Key names a collection member.
func Key(key string) Field {
	return log.String("key", key)
}

// Lifetime records a registration lifetime.
func Lifetime(lifetime string) Field {
	return log.String("lifetime", lifetime)
}

// AdapterID tags every line emitted by one adapter instance.
func AdapterID(id string) Field {
	return log.String("adapter_id", id)
}
