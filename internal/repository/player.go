package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

type Player struct {
	PlayerId      int64
	Username      string
	Email         *string
	PasswordHash  []byte
	Balance       decimal.Decimal
	TotalWagered  decimal.Decimal
	TotalWon      decimal.Decimal
	TotalGames    int
	ReferredBy    *int64
	ReferralCount int
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const playerColumns = `player_id, username, email, password_hash, balance,
	total_wagered, total_won, total_games, referred_by, referral_count,
	is_active, created_at, updated_at`

type CreatePlayerParams struct {
	Username     string
	Email        *string
	PasswordHash []byte
	Balance      decimal.Decimal
	ReferredBy   *int64
}

func (q *Queries) CreatePlayer(ctx context.Context, params CreatePlayerParams) (*Player, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO player (username, email, password_hash, balance, referred_by)
		VALUES (@username, @email, @password_hash, @balance, @referred_by)
		RETURNING `+playerColumns,
		pgx.NamedArgs{
			"username":      params.Username,
			"email":         params.Email,
			"password_hash": params.PasswordHash,
			"balance":       params.Balance,
			"referred_by":   params.ReferredBy,
		},
	)
	player, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Player])
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return nil, ErrUsernameTaken
	}
	return player, err
}

func (q *Queries) FetchPlayer(ctx context.Context, username string) (*Player, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT "+playerColumns+" FROM player WHERE username = $1", username,
	)
	player, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Player])
	return player, notFound(err)
}

func (q *Queries) FetchPlayerByID(ctx context.Context, playerId int64) (*Player, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT "+playerColumns+" FROM player WHERE player_id = $1", playerId,
	)
	player, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Player])
	return player, notFound(err)
}

func (q *Queries) IncrementReferralCount(ctx context.Context, playerId int64) error {
	tag, err := q.db.Exec(
		ctx,
		"UPDATE player SET referral_count = referral_count + 1 WHERE player_id = $1",
		playerId,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DebitStake takes bet from the balance and counts it as a wagered game.
// The balance is never allowed to go negative.
func (q *Queries) DebitStake(ctx context.Context, playerId int64, bet decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := q.db.QueryRow(
		ctx,
		`UPDATE player SET
			balance = balance - @bet,
			total_wagered = total_wagered + @bet,
			total_games = total_games + 1
		WHERE player_id = @player_id AND balance >= @bet
		RETURNING balance`,
		pgx.NamedArgs{"player_id": playerId, "bet": bet},
	).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, err := q.FetchPlayerByID(ctx, playerId); err != nil {
			return decimal.Zero, err
		}
		return decimal.Zero, ErrInsufficientFunds
	}
	return balance, err
}

func (q *Queries) CreditPrize(ctx context.Context, playerId int64, prize decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := q.db.QueryRow(
		ctx,
		`UPDATE player SET
			balance = balance + @prize,
			total_won = total_won + @prize
		WHERE player_id = @player_id
		RETURNING balance`,
		pgx.NamedArgs{"player_id": playerId, "prize": prize},
	).Scan(&balance)
	return balance, notFound(err)
}
