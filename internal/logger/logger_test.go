package logger

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type LoggerTestSuite struct {
	suite.Suite
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}

func (suite *LoggerTestSuite) TestNewLoggerLevels() {
	for _, level := range []string{"", "debug", "info", "warn", "error"} {
		l, err := NewLogger(level)
		suite.NoError(err, level)
		suite.NotNil(l.Logger)
	}
}

func (suite *LoggerTestSuite) TestNewLoggerBadLevel() {
	_, err := NewLogger("loud")
	suite.Error(err)
}

func (suite *LoggerTestSuite) TestSyncNil() {
	var l *Logger
	suite.NoError(l.Sync())
	suite.NoError((&Logger{}).Sync())
}

func (suite *LoggerTestSuite) TestNopLogs() {
	l := NewNop()
	l.Info("recorded")
	l.Debug("ignored")
	suite.NoError(l.Sync())
}
