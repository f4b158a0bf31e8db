package dao

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Ballot struct {
	ID        uint     `gorm:"primaryKey"`
	AccountID uint     `gorm:"not null;index"`
	Account   Account  `gorm:"constraint:OnDelete:RESTRICT"`
	DrawID    *uint    `gorm:"index"`
	Draw      *Draw    `gorm:"constraint:OnDelete:RESTRICT"`
	PrizeID   *uint    `gorm:"index"`
	Prize     *Prize   `gorm:"constraint:OnDelete:RESTRICT"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InsertBallots creates count unassigned ballots owned by accountID.
func (d *LotteryDAO) InsertBallots(ctx context.Context, accountID uint, count int) ([]Ballot, error) {
	ballots := make([]Ballot, count)
	for i := range ballots {
		ballots[i].AccountID = accountID
	}

	err := d.Transaction(ctx, func(tx *LotteryDAO) error {
		var account Account
		if err := tx.db.Select("id").First(&account, accountID).Error; err != nil {
			return notFound(err, ErrAccountNotFound)
		}

		return mapPgError(tx.db.Omit("Account", "Draw", "Prize").Create(&ballots).Error)
	})
	if err != nil {
		return nil, err
	}

	return ballots, nil
}

// AssignBallot attaches an unassigned ballot owned by accountID to an open draw.
func (d *LotteryDAO) AssignBallot(ctx context.Context, ballotID, accountID, drawID uint) (Ballot, error) {
	err := d.Transaction(ctx, func(tx *LotteryDAO) error {
		if _, err := tx.LockOpenDraw(ctx, drawID); err != nil {
			return err
		}

		var ballot Ballot
		err := tx.db.Clauses(lockForUpdate).
			Where("id = ? AND account_id = ?", ballotID, accountID).
			First(&ballot).Error
		if err != nil {
			return notFound(err, ErrBallotNotFound)
		}
		if ballot.DrawID != nil {
			return ErrBallotAlreadyAssigned
		}

		result := tx.db.Model(&Ballot{}).
			Where("id = ? AND draw_id IS NULL", ballotID).
			Update("draw_id", drawID)
		if result.Error != nil {
			return mapPgError(result.Error)
		}
		if result.RowsAffected != 1 {
			return ErrBallotAlreadyAssigned
		}

		return nil
	})
	if err != nil {
		return Ballot{}, err
	}

	return d.FindBallotByID(ctx, ballotID, accountID)
}

func preloadBallot(db *gorm.DB) *gorm.DB {
	return db.Preload("Draw").Preload("Draw.DrawType").Preload("Prize")
}

func (d *LotteryDAO) FindBallotByID(ctx context.Context, id, accountID uint) (Ballot, error) {
	var ballot Ballot

	result := preloadBallot(d.db.WithContext(ctx)).
		Where("id = ? AND account_id = ?", id, accountID).
		First(&ballot)
	if result.Error != nil {
		return Ballot{}, notFound(result.Error, ErrBallotNotFound)
	}

	return ballot, nil
}

// FindBallotsByAccount returns the unassigned ballots (newest first) followed by the
// assigned ones (latest draw date first, then newest first).
func (d *LotteryDAO) FindBallotsByAccount(ctx context.Context, accountID uint) ([]Ballot, error) {
	var unassigned, assigned []Ballot
	db := d.db.WithContext(ctx)

	err := db.Where("account_id = ? AND draw_id IS NULL", accountID).
		Order("id DESC").
		Find(&unassigned).Error
	if err != nil {
		return nil, err
	}

	err = preloadBallot(db).
		Joins("JOIN draws ON draws.id = ballots.draw_id").
		Where("ballots.account_id = ?", accountID).
		Order("draws.date DESC, ballots.id DESC").
		Find(&assigned).Error
	if err != nil {
		return nil, err
	}

	return append(unassigned, assigned...), nil
}

// FindWinningBallotsByAccount lists the account's prize-carrying ballots, latest draw first.
func (d *LotteryDAO) FindWinningBallotsByAccount(ctx context.Context, accountID uint) ([]Ballot, error) {
	var ballots []Ballot

	err := preloadBallot(d.db.WithContext(ctx)).
		Joins("JOIN draws ON draws.id = ballots.draw_id").
		Where("ballots.account_id = ? AND ballots.prize_id IS NOT NULL", accountID).
		Order("draws.date DESC, ballots.id ASC").
		Find(&ballots).Error
	if err != nil {
		return nil, err
	}

	return ballots, nil
}

// FindDrawBallots lists every ballot assigned to the draw in ID order, without relations.
func (d *LotteryDAO) FindDrawBallots(ctx context.Context, drawID uint) ([]Ballot, error) {
	var ballots []Ballot

	err := d.db.WithContext(ctx).
		Where("draw_id = ?", drawID).
		Order("id ASC").
		Find(&ballots).Error
	if err != nil {
		return nil, err
	}

	return ballots, nil
}

// FindWinners lists the draw's prize-carrying ballots with account and prize loaded.
func (d *LotteryDAO) FindWinners(ctx context.Context, drawID uint) ([]Ballot, error) {
	var ballots []Ballot

	err := d.db.WithContext(ctx).
		Preload("Account").
		Preload("Prize").
		Where("draw_id = ? AND prize_id IS NOT NULL", drawID).
		Order("account_id ASC, id ASC").
		Find(&ballots).Error
	if err != nil {
		return nil, err
	}

	return ballots, nil
}

// AwardPrize sets the prize on a ballot of drawID that holds none yet.
func (d *LotteryDAO) AwardPrize(ctx context.Context, drawID, ballotID, prizeID uint) error {
	result := d.db.WithContext(ctx).Model(&Ballot{}).
		Where("id = ? AND draw_id = ? AND prize_id IS NULL", ballotID, drawID).
		Update("prize_id", prizeID)
	if result.Error != nil {
		return mapPgError(result.Error)
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("%w: ballot %d cannot take prize %d in draw %d", ErrInvalidAllocation, ballotID, prizeID, drawID)
	}

	return nil
}
