package logging

import (
	"go.uber.org/zap"
)

// New builds the process logger: human-readable in development, JSON
// elsewhere.
func New(env string) *zap.Logger {
	if env == "development" {
		l, err := zap.NewDevelopment()
		if err != nil {
			return zap.NewNop()
		}
		return l
	}
	l, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
