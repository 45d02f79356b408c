package metrics

import "github.com/sirupsen/logrus"

var logger = logrus.StandardLogger()

// SetLogger replaces the logger used by the engine. A nil logger restores the default.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	logger = l
}

// Logger returns the logger used by the engine
func Logger() *logrus.Logger {
	return logger
}
