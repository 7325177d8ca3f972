package helpers

import (
	"fmt"
	"log"
)

type Logger interface {
	Println(v ...any)
	Printf(format string, v ...any)
	Print(v ...any)
}

type _defaultLogger struct {
}

func (l *_defaultLogger) Println(v ...any) {
	log.Println(v...)
}
func (l *_defaultLogger) Printf(format string, v ...any) {
	log.Printf(format, v...)
}
func (l *_defaultLogger) Print(v ...any) {
	log.Print(v...)
}

var DefaultLogger = _defaultLogger{}

type _silentLogger struct {
}

func (l *_silentLogger) Println(v ...any)               {}
func (l *_silentLogger) Printf(format string, v ...any) {}
func (l *_silentLogger) Print(v ...any)                 {}

var SilentLogger = _silentLogger{}

// FuncLogger forwards every formatted message to a callback, eg a websocket.
type FuncLogger func(s string)

func (l FuncLogger) Println(v ...any) {
	l(fmt.Sprintln(v...))
}
func (l FuncLogger) Printf(format string, v ...any) {
	l(fmt.Sprintf(format, v...))
}
func (l FuncLogger) Print(v ...any) {
	l(fmt.Sprint(v...))
}

type prefixLogger struct {
	prefix string
	logger Logger
}

func PrefixLogger(prefix string, logger Logger) Logger {
	return &prefixLogger{prefix, logger}
}

func (l *prefixLogger) Println(v ...any) {
	l.logger.Println(append([]any{l.prefix}, v...)...)
}
func (l *prefixLogger) Printf(format string, v ...any) {
	l.logger.Printf(l.prefix+" "+format, v...)
}
func (l *prefixLogger) Print(v ...any) {
	l.logger.Print(append([]any{l.prefix + " "}, v...)...)
}
