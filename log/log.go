package log

import (
	"fmt"
	syslog "log"
	"sync/atomic"
)

var debugging atomic.Bool

func SetDebug(enabled bool) {
	debugging.Store(enabled)
}

func Debugf(format string, args ...any) {
	if debugging.Load() {
		syslog.Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
	}
}

func Infof(format string, args ...any) {
	syslog.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}

func Warnf(format string, args ...any) {
	syslog.Printf("%-5s %s", "WARN", fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...any) {
	syslog.Printf("%-5s %s", "ERROR", fmt.Sprintf(format, args...))
}
