package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vancomm/minewager/internal/repository"
)

type ReferralHandler struct {
	logger    *slog.Logger
	players   Players
	publicURL string
}

// NewReferralHandler builds links on publicURL, or on the request's own
// host when publicURL is empty.
func NewReferralHandler(logger *slog.Logger, players Players, publicURL string) *ReferralHandler {
	return &ReferralHandler{logger: logger, players: players, publicURL: strings.TrimRight(publicURL, "/")}
}

type ReferralLink struct {
	Code         string          `json:"code"`
	URL          string          `json:"url"`
	RewardAmount decimal.Decimal `json:"reward_amount"`
	Clicks       int             `json:"clicks"`
	CreatedAt    time.Time       `json:"created_at"`
	Claimed      bool            `json:"claimed"`
}

func (h ReferralHandler) baseURL(r *http.Request) string {
	if h.publicURL != "" {
		return h.publicURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// Create returns the player's referral link. The code is the username.
func (h ReferralHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)
	player, err := h.players.FetchPlayerByID(r.Context(), claims.PlayerId)
	if err != nil {
		sendPlayerError(w, h.logger, err)
		return
	}
	sendJSONOrLog(w, h.logger, ReferralLink{
		Code:         player.Username,
		URL:          h.baseURL(r) + "/?ref=" + url.QueryEscape(player.Username),
		RewardAmount: decimal.Zero,
		Clicks:       player.ReferralCount,
		CreatedAt:    player.CreatedAt,
		Claimed:      false,
	})
}

type TrackDTO struct {
	Code string `schema:"code,required"`
}

func (h ReferralHandler) Track(w http.ResponseWriter, r *http.Request) {
	var dto TrackDTO
	if err := decoder.Decode(&dto, r.URL.Query()); err != nil {
		badRequest(w, h.logger, err)
		return
	}

	_, err := h.players.FetchPlayer(r.Context(), dto.Code)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		sendJSONOrLog(w, h.logger, map[string]string{"status": "ignored"})
	case err != nil:
		sendError(w, h.logger, err)
	default:
		sendJSONOrLog(w, h.logger, map[string]string{"status": "tracked"})
	}
}
