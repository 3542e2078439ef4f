// Package log holds the shared structured logger.
package log

import (
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
)

var Logger logSDK.Logger

func init() {
	var err error
	if Logger, err = logSDK.NewConsoleWithName("contentrepo", logSDK.LevelInfo); err != nil {
		logSDK.Shared.Panic("new logger", zap.Error(err))
	}
}

// SetLevel changes the level of the shared logger and every logger named from it
func SetLevel(level string) error {
	return Logger.ChangeLevel(logSDK.Level(level))
}
