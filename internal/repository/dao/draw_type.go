package dao

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DrawType struct {
	ID       uint           `gorm:"primaryKey"`
	Name     string         `gorm:"not null"`
	IsActive bool           `gorm:"not null"`
	Schedule datatypes.JSON `gorm:"type:jsonb;not null"`
	Priority int            `gorm:"not null;index"`
	Prizes   []Prize        `gorm:"foreignKey:DrawTypeID;constraint:OnDelete:RESTRICT"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Prize struct {
	ID         uint   `gorm:"primaryKey"`
	DrawTypeID uint   `gorm:"not null;index"`
	Name       string `gorm:"not null"`
	Amount     int64  `gorm:"not null;check:amount >= 0 AND amount <= 100000000000"`
	Count      int    `gorm:"not null;check:count > 0 AND count <= 10000"`
	CreatedAt  time.Time
}

func orderPrizes(db *gorm.DB) *gorm.DB {
	return db.Order("amount DESC, count ASC, id ASC")
}

func (d *LotteryDAO) InsertDrawType(ctx context.Context, drawType DrawType) (DrawType, error) {
	result := d.db.WithContext(ctx).Omit("Prizes").Create(&drawType)
	if result.Error != nil {
		return DrawType{}, mapPgError(result.Error)
	}

	return drawType, nil
}

// UpdateDrawType overwrites the editable columns. Prizes are managed separately.
func (d *LotteryDAO) UpdateDrawType(ctx context.Context, drawType DrawType) (DrawType, error) {
	result := d.db.WithContext(ctx).Model(&DrawType{ID: drawType.ID}).
		Select("name", "is_active", "schedule", "priority").
		Updates(&drawType)
	if result.Error != nil {
		return DrawType{}, mapPgError(result.Error)
	}
	if result.RowsAffected == 0 {
		return DrawType{}, ErrDrawTypeNotFound
	}

	return d.FindDrawTypeByID(ctx, drawType.ID)
}

func (d *LotteryDAO) FindDrawTypeByID(ctx context.Context, id uint) (DrawType, error) {
	var drawType DrawType

	result := d.db.WithContext(ctx).Preload("Prizes", orderPrizes).First(&drawType, id)
	if result.Error != nil {
		return DrawType{}, notFound(result.Error, ErrDrawTypeNotFound)
	}

	return drawType, nil
}

// FindDrawTypes lists draw types by descending priority then ascending ID.
func (d *LotteryDAO) FindDrawTypes(ctx context.Context, activeOnly bool) ([]DrawType, error) {
	var drawTypes []DrawType

	q := d.db.WithContext(ctx).Preload("Prizes", orderPrizes).Order("priority DESC, id ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&drawTypes).Error; err != nil {
		return nil, err
	}

	return drawTypes, nil
}

// DeleteDrawType removes a draw type together with its prizes. It refuses while any draw uses the type.
func (d *LotteryDAO) DeleteDrawType(ctx context.Context, id uint) error {
	return d.Transaction(ctx, func(tx *LotteryDAO) error {
		var drawType DrawType
		if err := tx.db.Clauses(lockForUpdate).First(&drawType, id).Error; err != nil {
			return notFound(err, ErrDrawTypeNotFound)
		}

		var draws int64
		if err := tx.db.Model(&Draw{}).Where("draw_type_id = ?", id).Count(&draws).Error; err != nil {
			return err
		}
		if draws > 0 {
			return fmt.Errorf("%w: draw type %d is used by %d draws", ErrReferentialIntegrity, id, draws)
		}

		if err := tx.db.Where("draw_type_id = ?", id).Delete(&Prize{}).Error; err != nil {
			return mapPgError(err)
		}
		if err := tx.db.Delete(&DrawType{}, id).Error; err != nil {
			return mapPgError(err)
		}

		return nil
	})
}

func (d *LotteryDAO) InsertPrize(ctx context.Context, prize Prize) (Prize, error) {
	err := d.Transaction(ctx, func(tx *LotteryDAO) error {
		var drawType DrawType
		if err := tx.db.Select("id").First(&drawType, prize.DrawTypeID).Error; err != nil {
			return notFound(err, ErrDrawTypeNotFound)
		}

		return mapPgError(tx.db.Create(&prize).Error)
	})
	if err != nil {
		return Prize{}, err
	}

	return prize, nil
}

func (d *LotteryDAO) FindPrizesByDrawType(ctx context.Context, drawTypeID uint) ([]Prize, error) {
	var prizes []Prize

	err := orderPrizes(d.db.WithContext(ctx)).Where("draw_type_id = ?", drawTypeID).Find(&prizes).Error
	if err != nil {
		return nil, err
	}

	return prizes, nil
}

// DeletePrize refuses while any ballot carries the prize.
func (d *LotteryDAO) DeletePrize(ctx context.Context, id uint) error {
	return d.Transaction(ctx, func(tx *LotteryDAO) error {
		var prize Prize
		if err := tx.db.Clauses(lockForUpdate).First(&prize, id).Error; err != nil {
			return notFound(err, ErrPrizeNotFound)
		}

		var ballots int64
		if err := tx.db.Model(&Ballot{}).Where("prize_id = ?", id).Count(&ballots).Error; err != nil {
			return err
		}
		if ballots > 0 {
			return fmt.Errorf("%w: prize %d was won by %d ballots", ErrReferentialIntegrity, id, ballots)
		}

		return mapPgError(tx.db.Delete(&Prize{}, id).Error)
	})
}
