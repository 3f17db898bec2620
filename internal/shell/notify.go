package shell

import (
	"go.uber.org/zap"
)

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notification is a dismissible message for the operator.
type Notification struct {
	Level   Level
	Message string
}

type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier reports notifications through the logger. One-shot commands
// use it; the interactive shell prints them.
type LogNotifier struct {
	Logger *zap.Logger
}

func (l LogNotifier) Notify(n Notification) {
	log := l.Logger
	if log == nil {
		return
	}

	switch n.Level {
	case LevelError:
		log.Error(n.Message)
	default:
		log.Info(n.Message, zap.Stringer("level", n.Level))
	}
}
