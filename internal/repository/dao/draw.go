package dao

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	lockForUpdate = clause.Locking{Strength: "UPDATE"}
	lockForShare  = clause.Locking{Strength: "SHARE"}
)

type Draw struct {
	ID         uint       `gorm:"primaryKey"`
	DrawTypeID uint       `gorm:"not null;index"`
	DrawType   DrawType   `gorm:"constraint:OnDelete:RESTRICT"`
	Date       time.Time  `gorm:"type:date;not null;uniqueIndex:uni_draws_date"`
	Closed     *time.Time `gorm:"index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func preloadDrawType(db *gorm.DB) *gorm.DB {
	return db.Preload("DrawType").Preload("DrawType.Prizes", orderPrizes)
}

// InsertDraw stores draw after checking that the date is free and the draw type exists.
func (d *LotteryDAO) InsertDraw(ctx context.Context, draw Draw) (Draw, error) {
	db := d.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&Draw{}).Where("date = ?", draw.Date).Count(&existing).Error; err != nil {
		return Draw{}, err
	}
	if existing > 0 {
		return Draw{}, ErrDuplicateDraw
	}

	var drawType DrawType
	if err := db.Select("id").First(&drawType, draw.DrawTypeID).Error; err != nil {
		return Draw{}, notFound(err, ErrDrawTypeNotFound)
	}

	if err := db.Omit("DrawType").Create(&draw).Error; err != nil {
		return Draw{}, mapPgError(err)
	}

	return d.FindDrawByID(ctx, draw.ID)
}

func (d *LotteryDAO) FindDrawByID(ctx context.Context, id uint) (Draw, error) {
	var draw Draw

	result := preloadDrawType(d.db.WithContext(ctx)).First(&draw, id)
	if result.Error != nil {
		return Draw{}, notFound(result.Error, ErrDrawNotFound)
	}

	return draw, nil
}

func (d *LotteryDAO) FindDrawByDate(ctx context.Context, date time.Time) (Draw, error) {
	var draw Draw

	result := preloadDrawType(d.db.WithContext(ctx)).Where("date = ?", date).First(&draw)
	if result.Error != nil {
		return Draw{}, notFound(result.Error, ErrDrawNotFound)
	}

	return draw, nil
}

// FindOpenDraws lists draws that are not closed and dated on or after from, earliest first.
func (d *LotteryDAO) FindOpenDraws(ctx context.Context, from time.Time) ([]Draw, error) {
	var draws []Draw

	err := preloadDrawType(d.db.WithContext(ctx)).
		Where("closed IS NULL AND date >= ?", from).
		Order("date ASC").
		Find(&draws).Error
	if err != nil {
		return nil, err
	}

	return draws, nil
}

// FindClosedDraws lists closed draws, most recent date first. A non-positive limit means no limit.
func (d *LotteryDAO) FindClosedDraws(ctx context.Context, limit int) ([]Draw, error) {
	var draws []Draw

	q := preloadDrawType(d.db.WithContext(ctx)).Where("closed IS NOT NULL").Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&draws).Error; err != nil {
		return nil, err
	}

	return draws, nil
}

// DeleteDraw refuses while any ballot is assigned to the draw.
func (d *LotteryDAO) DeleteDraw(ctx context.Context, id uint) error {
	return d.Transaction(ctx, func(tx *LotteryDAO) error {
		var draw Draw
		if err := tx.db.Clauses(lockForUpdate).First(&draw, id).Error; err != nil {
			return notFound(err, ErrDrawNotFound)
		}

		var ballots int64
		if err := tx.db.Model(&Ballot{}).Where("draw_id = ?", id).Count(&ballots).Error; err != nil {
			return err
		}
		if ballots > 0 {
			return fmt.Errorf("%w: draw %d holds %d ballots", ErrReferentialIntegrity, id, ballots)
		}

		return mapPgError(tx.db.Delete(&Draw{}, id).Error)
	})
}

// CloseDraw sets closed on the draw when it is still open. The returned flag is false
// when another closer got there first. The row stays locked until the surrounding
// transaction ends.
func (d *LotteryDAO) CloseDraw(ctx context.Context, id uint, at time.Time) (bool, error) {
	db := d.db.WithContext(ctx)

	result := db.Model(&Draw{}).
		Where("id = ? AND closed IS NULL", id).
		Updates(map[string]any{"closed": at, "updated_at": at})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	var draw Draw
	if err := db.Select("id").First(&draw, id).Error; err != nil {
		return false, notFound(err, ErrDrawNotFound)
	}

	return false, nil
}

// LockOpenDraw takes a shared lock on the draw row and fails when the draw is closed.
// Holding the lock keeps a concurrent CloseDraw waiting until the transaction ends.
func (d *LotteryDAO) LockOpenDraw(ctx context.Context, id uint) (Draw, error) {
	var draw Draw

	result := d.db.WithContext(ctx).Clauses(lockForShare).First(&draw, id)
	if result.Error != nil {
		return Draw{}, notFound(result.Error, ErrDrawNotFound)
	}
	if draw.Closed != nil {
		return Draw{}, ErrDrawAlreadyClosed
	}

	return draw, nil
}

type DrawStats struct {
	TotalDraws    int64
	OpenDraws     int64
	ClosedDraws   int64
	PrizesAwarded int64
	AmountAwarded int64
}

func (d *LotteryDAO) Stats(ctx context.Context) (DrawStats, error) {
	db := d.db.WithContext(ctx)
	var stats DrawStats

	if err := db.Model(&Draw{}).Count(&stats.TotalDraws).Error; err != nil {
		return DrawStats{}, err
	}
	if err := db.Model(&Draw{}).Where("closed IS NOT NULL").Count(&stats.ClosedDraws).Error; err != nil {
		return DrawStats{}, err
	}
	stats.OpenDraws = stats.TotalDraws - stats.ClosedDraws

	var awarded struct {
		Prizes int64
		Amount int64
	}
	err := db.Model(&Ballot{}).
		Select("COUNT(ballots.id) AS prizes, COALESCE(SUM(prizes.amount), 0) AS amount").
		Joins("JOIN prizes ON prizes.id = ballots.prize_id").
		Scan(&awarded).Error
	if err != nil {
		return DrawStats{}, err
	}
	stats.PrizesAwarded = awarded.Prizes
	stats.AmountAwarded = awarded.Amount

	return stats, nil
}
