// Package audit writes the player and game action trail as JSON lines.
package audit

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/minewager/internal/config"
)

const (
	UserRegistration = "user_registration"
	UserLogin        = "user_login"
	UserLogout       = "user_logout"
	GameStarted      = "game_started"
	CellClicked      = "cell_clicked"
	PrizeClaimed     = "prize_claimed"
)

type Logger struct {
	log *logrus.Logger
}

func New(cfg *config.Audit) (*Logger, error) {
	formatter := &SanitizingFormatter{Formatter: &logrus.JSONFormatter{}}

	log := logrus.New()
	log.SetLevel(cfg.Level)
	log.SetFormatter(formatter)
	if cfg.Stderr {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	if cfg.Filename != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Filename), 0o755); err != nil {
			return nil, err
		}
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   cfg.Filename,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     30,
			Level:      cfg.Level,
			Formatter:  formatter,
		})
		if err != nil {
			return nil, err
		}
		log.AddHook(hook)
	}

	return &Logger{log: log}, nil
}

// NewWriter logs every event at debug level and above to w.
func NewWriter(w io.Writer) *Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(logrus.DebugLevel)
	log.SetFormatter(&SanitizingFormatter{Formatter: &logrus.JSONFormatter{}})
	return &Logger{log: log}
}

func Discard() *Logger {
	return NewWriter(io.Discard)
}

func (l *Logger) UserAction(action string, playerId int64, details logrus.Fields) {
	entry := l.log.WithFields(logrus.Fields{
		"action":    action,
		"player_id": playerId,
	})
	if len(details) > 0 {
		entry = entry.WithField("details", details)
	}
	entry.Info("user action")
}

func (l *Logger) GameAction(action string, playerId, gameId int64, details logrus.Fields) {
	entry := l.log.WithFields(logrus.Fields{
		"action":    action,
		"player_id": playerId,
		"game_id":   gameId,
	})
	if len(details) > 0 {
		entry = entry.WithField("details", details)
	}
	entry.Info("game action")
}

// Error records a failed action. code is a short machine-readable tag such
// as "CLICK_ERROR".
func (l *Logger) Error(code string, err error, context logrus.Fields) {
	entry := l.log.WithField("error_type", code).WithError(err)
	if len(context) > 0 {
		entry = entry.WithField("context", context)
	}
	entry.Error("action failed")
}
