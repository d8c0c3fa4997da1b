package handlers

import (
	"log/slog"
	"net/http"
)

type CasinoHandler struct {
	logger  *slog.Logger
	players Players
}

func NewCasinoHandler(logger *slog.Logger, players Players) *CasinoHandler {
	return &CasinoHandler{logger: logger, players: players}
}

func (h CasinoHandler) Stats(w http.ResponseWriter, r *http.Request) {
	totals, err := h.players.CasinoTotals(r.Context())
	if err != nil {
		sendError(w, h.logger, err)
		return
	}
	sendJSONOrLog(w, h.logger, NewCasinoStats(totals))
}
