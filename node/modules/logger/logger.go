package logger

import (
	"fmt"
)

type Logger interface {
	Log(format string, args ...interface{})
}

type stdoutLogger struct {
	nodeName string
}

func NewLogger(nodeName string) Logger {
	return &stdoutLogger{
		nodeName: nodeName,
	}
}

func (l *stdoutLogger) Log(format string, args ...interface{}) {
	fmt.Printf("[%s] %s\n", l.nodeName, fmt.Sprintf(format, args...))
}
