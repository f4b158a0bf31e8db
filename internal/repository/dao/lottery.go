package dao

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const drawDateConstraint = "uni_draws_date"

var (
	ErrAccountNotFound       = errors.New("account not found")
	ErrDrawTypeNotFound      = errors.New("draw type not found")
	ErrPrizeNotFound         = errors.New("prize not found")
	ErrDrawNotFound          = errors.New("draw not found")
	ErrBallotNotFound        = errors.New("ballot not found")
	ErrNoMatchingSchedule    = errors.New("no active draw type matches the draw date")
	ErrDuplicateDraw         = errors.New("a draw already exists for this date")
	ErrDrawAlreadyClosed     = errors.New("draw is already closed")
	ErrBallotAlreadyAssigned = errors.New("ballot is already assigned to a draw")
	ErrReferentialIntegrity  = errors.New("record is still referenced")
	ErrInvalidAllocation     = errors.New("invalid prize allocation")
)

// LotteryDAO owns the draw_types, prizes, draws, ballots and accounts tables.
type LotteryDAO struct {
	db *gorm.DB
}

func NewLotteryDAO(db *gorm.DB) *LotteryDAO {
	return &LotteryDAO{
		db: db,
	}
}

// Transaction runs fn against a DAO bound to a single database transaction.
// Returning an error from fn rolls everything back.
func (d *LotteryDAO) Transaction(ctx context.Context, fn func(tx *LotteryDAO) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LotteryDAO{db: tx})
	})
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}

	return err
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if pgErr.ConstraintName == drawDateConstraint {
			return ErrDuplicateDraw
		}
	case pgerrcode.ForeignKeyViolation:
		return ErrReferentialIntegrity
	}

	return err
}
