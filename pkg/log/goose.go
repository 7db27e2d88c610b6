package log

import (
	"context"

	"github.com/rs/zerolog"
)

// MigrationLogger adapts zerolog to goose's Logger interface. Routine
// migration chatter lands at debug level; only failures are fatal.
type MigrationLogger struct {
	logger *zerolog.Logger
}

func (m *MigrationLogger) Fatalf(format string, v ...any) {
	m.logger.Fatal().Msgf(format, v...)
}

func (m *MigrationLogger) Printf(format string, v ...any) {
	m.logger.Debug().Msgf(format, v...)
}

func NewMigrationLoggerFromCtx(ctx context.Context) *MigrationLogger {
	return &MigrationLogger{
		logger: FromCtx(ctx),
	}
}
