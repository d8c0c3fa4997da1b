package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"

	"github.com/vancomm/minewager/internal/config"
	"github.com/vancomm/minewager/internal/locker"
	"github.com/vancomm/minewager/internal/middleware"
	"github.com/vancomm/minewager/internal/mines"
	"github.com/vancomm/minewager/internal/repository"
	"github.com/vancomm/minewager/internal/wager"
)

const Version = "1.0.0"

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
	decoder.RegisterConverter(decimal.Decimal{}, func(s string) reflect.Value {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(d)
	})
}

func sendJSONOrLog(w http.ResponseWriter, logger *slog.Logger, v any) {
	sendStatusJSON(w, logger, http.StatusOK, v)
}

func sendStatusJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("unable to marshal response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		logger.Debug("unable to write response", "error", err)
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

var (
	ErrGameNotFound = errors.New("Game not found")
	ErrBadGameId    = errors.New("invalid game id")
)

// errorStatus maps a domain error to an HTTP status and the text shown to
// the client. Unknown errors map to 500.
func errorStatus(err error) (int, string) {
	switch {
	case mines.IsGameError(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, repository.ErrInsufficientFunds):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, ErrGameNotFound.Error()
	case errors.Is(err, wager.ErrNotOwner):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, repository.ErrStaleGame), errors.Is(err, locker.ErrLockTimeout):
		return http.StatusConflict, "Game is busy, try again"
	case errors.Is(err, context.Canceled):
		return 499, "request canceled"
	}
	return http.StatusInternalServerError, "internal error"
}

func sendError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, message := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}
	sendStatusJSON(w, logger, status, map[string]string{"error": message})
}

func badRequest(w http.ResponseWriter, logger *slog.Logger, err error) {
	sendStatusJSON(w, logger, http.StatusBadRequest, wrapError(err))
}

// decodeRequest fills dst from a JSON body, or from the query string and
// url-encoded form otherwise.
func decodeRequest(r *http.Request, dst any) error {
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return fmt.Errorf("malformed JSON body: %w", err)
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return err
	}
	return decoder.Decode(dst, r.Form)
}

func gameIdFromPath(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrBadGameId
	}
	return id, nil
}

func mustClaims(r *http.Request) *config.PlayerClaims {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		panic("handler mounted without middleware.RequireAuth")
	}
	return claims
}

type Misc struct {
	logger *slog.Logger
	ping   func(context.Context) error
}

func NewMisc(logger *slog.Logger, ping func(context.Context) error) *Misc {
	return &Misc{logger: logger, ping: ping}
}

func (m Misc) Root(w http.ResponseWriter, r *http.Request) {
	sendJSONOrLog(w, m.logger, map[string]string{
		"message": "Mine Gambling Game API",
		"version": Version,
	})
}

func (m Misc) Health(w http.ResponseWriter, r *http.Request) {
	if m.ping != nil {
		if err := m.ping(r.Context()); err != nil {
			m.logger.Warn("health check failed", "error", err)
			sendStatusJSON(w, m.logger, http.StatusServiceUnavailable, map[string]string{
				"status":  "unhealthy",
				"message": "Database unreachable",
			})
			return
		}
	}
	sendJSONOrLog(w, m.logger, map[string]string{
		"status":  "healthy",
		"message": "Application is running",
	})
}

func (m Misc) Status(w http.ResponseWriter, r *http.Request) {
	sendJSONOrLog(w, m.logger, map[string]string{
		"status":  "online",
		"version": Version,
	})
}

var ErrPlayerNotFound = errors.New("User not found")

// sendPlayerError treats a missing player as a stale token.
func sendPlayerError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		sendStatusJSON(w, logger, http.StatusUnauthorized, wrapError(ErrPlayerNotFound))
		return
	}
	sendError(w, logger, err)
}
