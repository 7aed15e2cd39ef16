package logging

// NullLogger discards everything.
type NullLogger struct{}

// NewNullLogger returns a Logger that discards all output.
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (NullLogger) Verbose(string, ...interface{}) {}
func (NullLogger) Info(string, ...interface{})    {}
func (NullLogger) Error(string, ...interface{})   {}
