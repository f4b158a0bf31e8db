package repository

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/vietanh2810/lottery-api/internal/domain"
	"github.com/vietanh2810/lottery-api/internal/repository/dao"
)

func accountToDomain(a dao.Account) domain.Account {
	return domain.Account{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
	}
}

func prizeToDomain(p dao.Prize) domain.Prize {
	return domain.Prize{
		ID:         p.ID,
		DrawTypeID: p.DrawTypeID,
		Name:       p.Name,
		Amount:     p.Amount,
		Count:      p.Count,
		CreatedAt:  p.CreatedAt,
	}
}

func prizesToDomain(prizes []dao.Prize) []domain.Prize {
	out := make([]domain.Prize, 0, len(prizes))
	for _, p := range prizes {
		out = append(out, prizeToDomain(p))
	}
	return out
}

func drawTypeToDao(dt domain.DrawType) (dao.DrawType, error) {
	schedule, err := json.Marshal(dt.Schedule)
	if err != nil {
		return dao.DrawType{}, fmt.Errorf("json.Marshal -> %w", err)
	}

	return dao.DrawType{
		ID:       dt.ID,
		Name:     dt.Name,
		IsActive: dt.IsActive,
		Schedule: datatypes.JSON(schedule),
		Priority: dt.Priority,
	}, nil
}

func drawTypeToDomain(dt dao.DrawType) (domain.DrawType, error) {
	var schedule domain.Schedule
	if len(dt.Schedule) > 0 {
		if err := json.Unmarshal(dt.Schedule, &schedule); err != nil {
			return domain.DrawType{}, fmt.Errorf("draw type %d: %w", dt.ID, err)
		}
	}

	return domain.DrawType{
		ID:        dt.ID,
		Name:      dt.Name,
		IsActive:  dt.IsActive,
		Schedule:  schedule,
		Priority:  dt.Priority,
		Prizes:    prizesToDomain(dt.Prizes),
		CreatedAt: dt.CreatedAt,
		UpdatedAt: dt.UpdatedAt,
	}, nil
}

func drawTypesToDomain(drawTypes []dao.DrawType) ([]domain.DrawType, error) {
	out := make([]domain.DrawType, 0, len(drawTypes))
	for _, dt := range drawTypes {
		converted, err := drawTypeToDomain(dt)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

func drawToDomain(d dao.Draw) (domain.Draw, error) {
	drawType, err := drawTypeToDomain(d.DrawType)
	if err != nil {
		return domain.Draw{}, err
	}

	return domain.Draw{
		ID:         d.ID,
		DrawTypeID: d.DrawTypeID,
		DrawType:   drawType,
		Date:       domain.DateOf(d.Date),
		Closed:     d.Closed,
		CreatedAt:  d.CreatedAt,
	}, nil
}

func drawsToDomain(draws []dao.Draw) ([]domain.Draw, error) {
	out := make([]domain.Draw, 0, len(draws))
	for _, d := range draws {
		converted, err := drawToDomain(d)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

func ballotToDomain(b dao.Ballot) (domain.Ballot, error) {
	ballot := domain.Ballot{
		ID:        b.ID,
		AccountID: b.AccountID,
		DrawID:    b.DrawID,
		PrizeID:   b.PrizeID,
		CreatedAt: b.CreatedAt,
	}
	if b.Draw != nil {
		draw, err := drawToDomain(*b.Draw)
		if err != nil {
			return domain.Ballot{}, err
		}
		ballot.Draw = &draw
	}
	if b.Prize != nil {
		prize := prizeToDomain(*b.Prize)
		ballot.Prize = &prize
	}

	return ballot, nil
}

func ballotsToDomain(ballots []dao.Ballot) ([]domain.Ballot, error) {
	out := make([]domain.Ballot, 0, len(ballots))
	for _, b := range ballots {
		converted, err := ballotToDomain(b)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

func winnersToDomain(ballots []dao.Ballot) []domain.Winner {
	winners := make([]domain.Winner, 0, len(ballots))
	for _, b := range ballots {
		if b.Prize == nil {
			continue
		}
		winners = append(winners, domain.Winner{
			BallotID:  b.ID,
			AccountID: b.AccountID,
			Account:   accountToDomain(b.Account),
			Prize:     prizeToDomain(*b.Prize),
		})
	}
	return winners
}
