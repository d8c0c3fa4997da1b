package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/minewager/internal/audit"
	"github.com/vancomm/minewager/internal/config"
	"github.com/vancomm/minewager/internal/middleware"
	"github.com/vancomm/minewager/internal/mines"
	"github.com/vancomm/minewager/internal/repository"
)

// Players is the player-facing part of *repository.Queries.
type Players interface {
	CreatePlayer(ctx context.Context, params repository.CreatePlayerParams) (*repository.Player, error)
	FetchPlayer(ctx context.Context, username string) (*repository.Player, error)
	FetchPlayerByID(ctx context.Context, playerId int64) (*repository.Player, error)
	IncrementReferralCount(ctx context.Context, playerId int64) error
	CountGamesByStatus(ctx context.Context, playerId int64) (map[mines.Status]int, error)
	Leaderboard(ctx context.Context, limit int) ([]repository.LeaderboardRow, error)
	CasinoTotals(ctx context.Context) (repository.CasinoTotals, error)
}

type Auth struct {
	logger          *slog.Logger
	audit           *audit.Logger
	players         Players
	cookies         *config.Cookies
	jwt             *config.JWT
	startingBalance decimal.Decimal
	hashCost        int
}

func NewAuth(
	logger *slog.Logger,
	auditor *audit.Logger,
	players Players,
	cookies *config.Cookies,
	jwt *config.JWT,
	game *config.Game,
) *Auth {
	return &Auth{
		logger:          logger,
		audit:           auditor,
		players:         players,
		cookies:         cookies,
		jwt:             jwt,
		startingBalance: game.StartingBalance,
		hashCost:        bcrypt.DefaultCost,
	}
}

type PlayerInfo struct {
	PlayerId     int64           `json:"id"`
	Username     string          `json:"username"`
	Email        *string         `json:"email"`
	Balance      decimal.Decimal `json:"balance"`
	TotalWagered decimal.Decimal `json:"total_wagered"`
	TotalWon     decimal.Decimal `json:"total_won"`
	TotalGames   int             `json:"total_games"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
}

func NewPlayerInfo(p *repository.Player) *PlayerInfo {
	return &PlayerInfo{
		PlayerId:     p.PlayerId,
		Username:     p.Username,
		Email:        p.Email,
		Balance:      p.Balance,
		TotalWagered: p.TotalWagered,
		TotalWon:     p.TotalWon,
		TotalGames:   p.TotalGames,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
	}
}

type Token struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	Player      *PlayerInfo `json:"user"`
}

type SessionInfo struct {
	PlayerId int64  `json:"player_id"`
	Username string `json:"username"`
}

type Status struct {
	LoggedIn bool         `json:"logged_in"`
	Player   *SessionInfo `json:"player,omitempty"`
}

type RegisterDTO struct {
	Username     string  `schema:"username,required" json:"username"`
	Password     string  `schema:"password,required" json:"password"`
	Email        *string `schema:"email" json:"email"`
	ReferralCode string  `schema:"referral_code" json:"referral_code"`
}

type LoginDTO struct {
	Username string `schema:"username,required" json:"username"`
	Password string `schema:"password,required" json:"password"`
}

var (
	ErrBadAuthBody         = fmt.Errorf("request body must contain username and password")
	ErrBadUsername         = fmt.Errorf("username must be 3 to 50 characters")
	ErrBadPasswordTooShort = fmt.Errorf("password must be at least 8 characters")
	ErrBadPasswordTooLong  = fmt.Errorf("password too long")
	ErrBadEmail            = fmt.Errorf("invalid email address")
	ErrBadReferralCode     = fmt.Errorf("referral code too long")
	ErrInvalidCredentials  = fmt.Errorf("Invalid username or password")
	ErrInactive            = fmt.Errorf("User account is inactive")
)

func (d *RegisterDTO) Validate() error {
	d.Username = strings.TrimSpace(d.Username)
	if n := utf8.RuneCountInString(d.Username); n < 3 || n > 50 {
		return ErrBadUsername
	}
	if utf8.RuneCountInString(d.Password) < 8 {
		return ErrBadPasswordTooShort
	}
	// bcrypt only looks at the first 72 bytes
	if len(d.Password) > 72 {
		return ErrBadPasswordTooLong
	}
	if d.Email != nil {
		email := strings.TrimSpace(*d.Email)
		if email == "" {
			d.Email = nil
		} else if at := strings.IndexByte(email, '@'); at < 1 || at == len(email)-1 || len(email) > 100 {
			return ErrBadEmail
		} else {
			d.Email = &email
		}
	}
	if len(d.ReferralCode) > 32 {
		return ErrBadReferralCode
	}
	return nil
}

// issue signs a token for player, refreshes the auth cookies and replies
// with the token.
func (h Auth) issue(w http.ResponseWriter, status int, player *repository.Player) {
	token, err := h.jwt.Sign(config.NewPlayerClaims(player.PlayerId, player.Username))
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to create a jwt token", "error", err)
		return
	}
	if err := h.cookies.Refresh(w, token); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to set auth cookies", "error", err)
		return
	}
	sendStatusJSON(w, h.logger, status, Token{
		AccessToken: token,
		TokenType:   "bearer",
		Player:      NewPlayerInfo(player),
	})
}

func (h Auth) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := decodeRequest(r, &dto); err != nil {
		badRequest(w, h.logger, ErrBadAuthBody)
		return
	}
	if err := dto.Validate(); err != nil {
		badRequest(w, h.logger, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), h.hashCost)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to hash password", "error", err)
		return
	}

	params := repository.CreatePlayerParams{
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: hash,
		Balance:      h.startingBalance,
	}
	var referrer *repository.Player
	if dto.ReferralCode != "" {
		referrer, err = h.players.FetchPlayer(r.Context(), dto.ReferralCode)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.logger.Debug("unknown referral code", "code", dto.ReferralCode)
		case err != nil:
			sendError(w, h.logger, err)
			return
		default:
			params.ReferredBy = &referrer.PlayerId
		}
	}

	player, err := h.players.CreatePlayer(r.Context(), params)
	if errors.Is(err, repository.ErrUsernameTaken) {
		h.audit.Error("DUPLICATE_USER", err, logrus.Fields{"username": dto.Username})
		badRequest(w, h.logger, err)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to insert player", "error", err)
		h.audit.Error("REGISTRATION_ERROR", err, nil)
		return
	}

	if params.ReferredBy != nil {
		if err := h.players.IncrementReferralCount(r.Context(), *params.ReferredBy); err != nil {
			h.logger.Warn("unable to count referral", "referrer", *params.ReferredBy, "error", err)
		}
	}

	h.audit.UserAction(audit.UserRegistration, player.PlayerId, logrus.Fields{
		"referred": params.ReferredBy != nil,
	})
	h.issue(w, http.StatusCreated, player)
}

func (h Auth) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := decodeRequest(r, &dto); err != nil || dto.Username == "" || dto.Password == "" {
		badRequest(w, h.logger, ErrBadAuthBody)
		return
	}

	player, err := h.players.FetchPlayer(r.Context(), dto.Username)
	if err == nil {
		err = bcrypt.CompareHashAndPassword(player.PasswordHash, []byte(dto.Password))
	}
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		h.audit.Error("INVALID_CREDENTIALS", ErrInvalidCredentials, logrus.Fields{"username": dto.Username})
		sendStatusJSON(w, h.logger, http.StatusUnauthorized, wrapError(ErrInvalidCredentials))
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to authenticate player", "error", err)
		h.audit.Error("LOGIN_ERROR", err, nil)
		return
	}
	if !player.IsActive {
		sendStatusJSON(w, h.logger, http.StatusForbidden, wrapError(ErrInactive))
		return
	}

	h.audit.UserAction(audit.UserLogin, player.PlayerId, nil)
	h.issue(w, http.StatusOK, player)
}

func (h Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if claims, ok := middleware.PlayerClaims(r.Context()); ok {
		h.audit.UserAction(audit.UserLogout, claims.PlayerId, nil)
	}
	h.cookies.Clear(w)
	sendJSONOrLog(w, h.logger, map[string]string{"message": "Logged out successfully"})
}

func (h Auth) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		sendJSONOrLog(w, h.logger, Status{LoggedIn: false})
		return
	}

	h.logger.Debug("refresh cookies")
	token, err := h.jwt.Sign(claims)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to tokenize checked claim", "error", err)
		return
	}
	if err := h.cookies.Refresh(w, token); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to set auth cookies", "error", err)
		return
	}
	sendJSONOrLog(w, h.logger, Status{
		LoggedIn: true,
		Player:   &SessionInfo{PlayerId: claims.PlayerId, Username: claims.Username},
	})
}
