package handlers

import (
	"log/slog"
	"net/http"

	"github.com/vancomm/minewager/internal/config"
	"github.com/vancomm/minewager/internal/repository"
	"github.com/vancomm/minewager/internal/wager"
)

type GameHandler struct {
	logger *slog.Logger
	games  *wager.Service
	ws     *config.WebSocket
}

func NewGameHandler(logger *slog.Logger, games *wager.Service, ws *config.WebSocket) *GameHandler {
	return &GameHandler{logger: logger, games: games, ws: ws}
}

func (h GameHandler) sendGame(w http.ResponseWriter, status int, g *repository.Game) {
	view, err := NewGameView(g)
	if err != nil {
		sendError(w, h.logger, err)
		return
	}
	sendStatusJSON(w, h.logger, status, view)
}

func (h GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)

	var dto NewGameDTO
	if err := decodeRequest(r, &dto); err != nil {
		badRequest(w, h.logger, err)
		return
	}

	game, err := h.games.Start(r.Context(), claims.PlayerId, wager.NewGame{
		Bet:       dto.BetAmount,
		GridSize:  dto.GridSize,
		MineCount: dto.MineCount,
	})
	if err != nil {
		sendError(w, h.logger, err)
		return
	}
	h.sendGame(w, http.StatusCreated, game)
}

func (h GameHandler) Click(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)
	gameId, err := gameIdFromPath(r)
	if err != nil {
		badRequest(w, h.logger, err)
		return
	}

	var dto ClickDTO
	if err := decodeRequest(r, &dto); err != nil {
		badRequest(w, h.logger, err)
		return
	}
	row, col, err := dto.Validate()
	if err != nil {
		badRequest(w, h.logger, err)
		return
	}

	result, err := h.games.Reveal(r.Context(), claims.PlayerId, gameId, row, col)
	if err != nil {
		sendError(w, h.logger, err)
		return
	}
	sendJSONOrLog(w, h.logger, NewGameResult(result.Game, result.Outcome))
}

func (h GameHandler) Claim(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)
	gameId, err := gameIdFromPath(r)
	if err != nil {
		badRequest(w, h.logger, err)
		return
	}

	result, err := h.games.Claim(r.Context(), claims.PlayerId, gameId)
	if err != nil {
		sendError(w, h.logger, err)
		return
	}
	sendJSONOrLog(w, h.logger, NewGameResult(result.Game, result.Outcome))
}

func (h GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)
	gameId, err := gameIdFromPath(r)
	if err != nil {
		badRequest(w, h.logger, err)
		return
	}

	game, err := h.games.Get(r.Context(), claims.PlayerId, gameId)
	if err != nil {
		sendError(w, h.logger, err)
		return
	}
	h.sendGame(w, http.StatusOK, game)
}

func (h GameHandler) History(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)

	var page PageDTO
	if err := decoder.Decode(&page, r.URL.Query()); err != nil {
		badRequest(w, h.logger, err)
		return
	}

	games, err := h.games.History(r.Context(), claims.PlayerId, page.Skip, page.Limit)
	if err != nil {
		sendError(w, h.logger, err)
		return
	}
	if games == nil {
		games = []repository.GameSummary{}
	}
	sendJSONOrLog(w, h.logger, games)
}
