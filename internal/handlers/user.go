package handlers

import (
	"log/slog"
	"net/http"
)

const (
	defaultLeaderboardLimit = 100
	maxLeaderboardLimit     = 500
)

type UserHandler struct {
	logger  *slog.Logger
	players Players
}

func NewUserHandler(logger *slog.Logger, players Players) *UserHandler {
	return &UserHandler{logger: logger, players: players}
}

func (h UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)
	player, err := h.players.FetchPlayerByID(r.Context(), claims.PlayerId)
	if err != nil {
		sendPlayerError(w, h.logger, err)
		return
	}
	sendJSONOrLog(w, h.logger, NewPlayerInfo(player))
}

func (h UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)
	player, err := h.players.FetchPlayerByID(r.Context(), claims.PlayerId)
	if err != nil {
		sendPlayerError(w, h.logger, err)
		return
	}
	counts, err := h.players.CountGamesByStatus(r.Context(), player.PlayerId)
	if err != nil {
		sendError(w, h.logger, err)
		return
	}
	sendJSONOrLog(w, h.logger, NewPlayerStats(player, counts))
}

type LeaderboardDTO struct {
	Limit int `schema:"limit"`
}

func (h UserHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	var dto LeaderboardDTO
	if err := decoder.Decode(&dto, r.URL.Query()); err != nil {
		badRequest(w, h.logger, err)
		return
	}
	if dto.Limit <= 0 {
		dto.Limit = defaultLeaderboardLimit
	}
	dto.Limit = min(dto.Limit, maxLeaderboardLimit)

	rows, err := h.players.Leaderboard(r.Context(), dto.Limit)
	if err != nil {
		sendError(w, h.logger, err)
		return
	}
	sendJSONOrLog(w, h.logger, NewLeaderboard(rows))
}
