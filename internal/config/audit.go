package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

type Audit struct {
	Filename string
	Level    logrus.Level
	Stderr   bool
}

func NewAudit() (*Audit, error) {
	filename, ok := os.LookupEnv("AUDIT_LOG_FILE")
	if !ok {
		filename = "logs/audit.log"
	}

	level := logrus.InfoLevel
	if Development() {
		level = logrus.DebugLevel
	}
	if s, ok := os.LookupEnv("AUDIT_LOG_LEVEL"); ok && s != "" {
		parsed, err := logrus.ParseLevel(s)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	return &Audit{Filename: filename, Level: level, Stderr: Development()}, nil
}
