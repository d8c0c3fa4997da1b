package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minewager/internal/repository"
)

type wsCommand string

const (
	wsNoop  wsCommand = "g"
	wsOpen  wsCommand = "o"
	wsClaim wsCommand = "c"
)

type wsReply struct {
	Game   *GameView   `json:"game,omitempty"`
	Result *GameResult `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

type gameSocket struct {
	GameHandler
	playerId int64
	gameId   int64
}

// execute runs one command line. Errors the player caused are reported in
// the reply; any other error ends the session.
func (s gameSocket) execute(ctx context.Context, line string) (wsReply, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return wsReply{Error: "empty command"}, nil
	}
	cmd, args := wsCommand(tokens[0]), tokens[1:]

	var (
		game   *repository.Game
		result *GameResult
		err    error
	)
	switch cmd {
	case wsNoop:
		game, err = s.games.Get(ctx, s.playerId, s.gameId)
	case wsOpen:
		row, col, perr := parseRowCol(args)
		if perr != nil {
			return wsReply{Error: perr.Error()}, nil
		}
		res, rerr := s.games.Reveal(ctx, s.playerId, s.gameId, row, col)
		if rerr == nil {
			r := NewGameResult(res.Game, res.Outcome)
			game, result = res.Game, &r
		}
		err = rerr
	case wsClaim:
		res, cerr := s.games.Claim(ctx, s.playerId, s.gameId)
		if cerr == nil {
			r := NewGameResult(res.Game, res.Outcome)
			game, result = res.Game, &r
		}
		err = cerr
	default:
		return wsReply{Error: fmt.Sprintf("unknown command %q", tokens[0])}, nil
	}

	if err != nil {
		status, message := errorStatus(err)
		if status == http.StatusInternalServerError {
			return wsReply{}, err
		}
		return wsReply{Error: message}, nil
	}

	view, err := NewGameView(game)
	if err != nil {
		return wsReply{}, err
	}
	return wsReply{Game: view, Result: result}, nil
}

func (s gameSocket) run(ctx context.Context, conn *websocket.Conn) error {
	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return nil
		}

		for _, line := range strings.Split(strings.TrimSpace(string(buf)), "\n") {
			reply, err := s.execute(ctx, strings.TrimSpace(line))
			if err != nil {
				return err
			}
			if err := conn.WriteJSON(reply); err != nil {
				return fmt.Errorf("unable to write json: %w", err)
			}
		}
	}
}

func (h GameHandler) Connect(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)
	gameId, err := gameIdFromPath(r)
	if err != nil {
		badRequest(w, h.logger, err)
		return
	}

	if _, err := h.games.Get(r.Context(), claims.PlayerId, gameId); err != nil {
		sendError(w, h.logger, err)
		return
	}

	conn, err := h.ws.Upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		h.logger.Error("unable to upgrade", "error", err)
		return
	}
	defer conn.Close()

	h.logger.Debug("established WS connection", "game_id", gameId)

	socket := gameSocket{GameHandler: h, playerId: claims.PlayerId, gameId: gameId}
	err = socket.run(r.Context(), conn)
	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		h.logger.Warn("error in ws loop", "error", err)
	}
}

func parseRowCol(args []string) (row, col int, err error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected row and col")
	}
	if row, err = strconv.Atoi(args[0]); err != nil {
		return 0, 0, fmt.Errorf("row must be an int")
	}
	if col, err = strconv.Atoi(args[1]); err != nil {
		return 0, 0, fmt.Errorf("col must be an int")
	}
	if row < 0 || col < 0 {
		return 0, 0, ErrNegativeCell
	}
	return row, col, nil
}
