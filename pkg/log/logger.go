package log

// Logger defines a standard interface for logging.
// Components depend on this interface rather than on logrus directly.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})

	// WithField returns a Logger that appends key=value to every entry.
	WithField(key string, value interface{}) Logger
}
