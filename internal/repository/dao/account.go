package dao

import (
	"context"
	"time"

	"gorm.io/gorm/clause"
)

type Account struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;not null"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpsertAccount inserts the account, or refreshes email and name when the ID already exists.
func (d *LotteryDAO) UpsertAccount(ctx context.Context, account Account) (Account, error) {
	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "updated_at"}),
	}).Create(&account)
	if result.Error != nil {
		return Account{}, mapPgError(result.Error)
	}

	return account, nil
}

func (d *LotteryDAO) FindAccountByID(ctx context.Context, id uint) (Account, error) {
	var account Account

	result := d.db.WithContext(ctx).First(&account, id)
	if result.Error != nil {
		return Account{}, notFound(result.Error, ErrAccountNotFound)
	}

	return account, nil
}
