package audit

import (
	"strings"

	"github.com/sirupsen/logrus"
)

const redacted = "***REDACTED***"

var sensitiveKeys = []string{
	"password", "pwd", "secret", "token", "authorization", "api_key", "credit_card",
}

func sensitive(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

// SanitizingFormatter masks the values of sensitive fields, including those
// nested in logrus.Fields or map[string]any values, before delegating.
type SanitizingFormatter struct {
	logrus.Formatter
}

func (f *SanitizingFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	clean := entry.Dup()
	clean.Message = entry.Message
	clean.Level = entry.Level
	clean.Data = sanitize(entry.Data)
	return f.Formatter.Format(clean)
}

func sanitize(data logrus.Fields) logrus.Fields {
	out := make(logrus.Fields, len(data))
	for k, v := range data {
		switch {
		case sensitive(k):
			out[k] = redacted
		default:
			out[k] = sanitizeValue(v)
		}
	}
	return out
}

func sanitizeValue(v any) any {
	switch m := v.(type) {
	case logrus.Fields:
		return sanitize(m)
	case map[string]any:
		return map[string]any(sanitize(m))
	default:
		return v
	}
}
