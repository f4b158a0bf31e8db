package service

import (
	"errors"

	"github.com/vietanh2810/lottery-api/internal/domain"
	"github.com/vietanh2810/lottery-api/internal/repository"
)

var (
	ErrAccountNotFound       = repository.ErrAccountNotFound
	ErrDrawTypeNotFound      = repository.ErrDrawTypeNotFound
	ErrPrizeNotFound         = repository.ErrPrizeNotFound
	ErrDrawNotFound          = repository.ErrDrawNotFound
	ErrBallotNotFound        = repository.ErrBallotNotFound
	ErrNoMatchingSchedule    = repository.ErrNoMatchingSchedule
	ErrDuplicateDraw         = repository.ErrDuplicateDraw
	ErrDrawAlreadyClosed     = repository.ErrDrawAlreadyClosed
	ErrBallotAlreadyAssigned = repository.ErrBallotAlreadyAssigned
	ErrReferentialIntegrity  = repository.ErrReferentialIntegrity
	ErrInvalidSchedule       = domain.ErrInvalidSchedule

	ErrDrawDateInPast  = errors.New("draw date is in the past")
	ErrInvalidDrawType = errors.New("invalid draw type")
	ErrInvalidPrize    = errors.New("invalid prize")
	ErrInvalidQuantity = errors.New("invalid ballot quantity")
	ErrPaymentDeclined = errors.New("payment declined")
)
