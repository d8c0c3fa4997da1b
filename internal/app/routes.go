package app

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vancomm/minewager/internal/config"
	"github.com/vancomm/minewager/internal/handlers"
	"github.com/vancomm/minewager/internal/middleware"
)

func (a *App) loadRoutes(players handlers.Players, ping func(context.Context) error) {
	misc := handlers.NewMisc(a.logger, ping)
	auth := handlers.NewAuth(a.logger, a.audit, players, a.cookies, a.jwt, a.game)
	game := handlers.NewGameHandler(a.logger, a.games, a.ws)
	user := handlers.NewUserHandler(a.logger, players)
	casino := handlers.NewCasinoHandler(a.logger, players)
	referral := handlers.NewReferralHandler(a.logger, players, config.PublicURL())

	var root *mux.Router = a.router
	if base := config.BasePath(); base != "" {
		root = a.router.PathPrefix(base).Subrouter()
	}

	root.Methods(http.MethodGet).Path("/").HandlerFunc(misc.Root)
	root.Methods(http.MethodGet).Path("/health").HandlerFunc(misc.Health)

	api := root.PathPrefix("/api").Subrouter()
	api.Methods(http.MethodGet).Path("/status").HandlerFunc(misc.Status)
	api.Methods(http.MethodGet).Path("/casino/stats").HandlerFunc(casino.Stats)
	api.Methods(http.MethodGet).Path("/referrals/track").HandlerFunc(referral.Track)

	authRouter := api.PathPrefix("/auth").Subrouter()
	authRouter.Methods(http.MethodPost).Path("/register").HandlerFunc(auth.Register)
	authRouter.Methods(http.MethodPost).Path("/login").HandlerFunc(auth.Login)
	authRouter.Methods(http.MethodPost).Path("/logout").HandlerFunc(auth.Logout)
	authRouter.Methods(http.MethodGet).Path("/status").HandlerFunc(auth.Status)

	gameRouter := api.PathPrefix("/games").Subrouter()
	gameRouter.Use(middleware.RequireAuth)
	gameRouter.Methods(http.MethodPost).Path("/new").HandlerFunc(game.NewGame)
	gameRouter.Methods(http.MethodGet).Path("/user/history").HandlerFunc(game.History)
	gameRouter.Methods(http.MethodPost).Path("/{id:[0-9]+}/click").HandlerFunc(game.Click)
	gameRouter.Methods(http.MethodPost).Path("/{id:[0-9]+}/claim").HandlerFunc(game.Claim)
	gameRouter.Methods(http.MethodGet).Path("/{id:[0-9]+}/connect").HandlerFunc(game.Connect)
	gameRouter.Methods(http.MethodGet).Path("/{id:[0-9]+}").HandlerFunc(game.Fetch)

	userRouter := api.PathPrefix("/user").Subrouter()
	userRouter.Use(middleware.RequireAuth)
	userRouter.Methods(http.MethodGet).Path("/profile").HandlerFunc(user.Profile)
	userRouter.Methods(http.MethodGet).Path("/history").HandlerFunc(game.History)
	userRouter.Methods(http.MethodGet).Path("/leaderboard").HandlerFunc(user.Leaderboard)
	userRouter.Methods(http.MethodGet).Path("/stats").HandlerFunc(user.Stats)

	referralRouter := api.PathPrefix("/referrals").Subrouter()
	referralRouter.Use(middleware.RequireAuth)
	referralRouter.Methods(http.MethodPost).Path("/create").HandlerFunc(referral.Create)
}
