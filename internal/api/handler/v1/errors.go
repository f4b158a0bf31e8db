package v1

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/lottery-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/lottery-api/internal/api/middleware"
	"github.com/vietanh2810/lottery-api/internal/domain"
	"github.com/vietanh2810/lottery-api/internal/service"
)

var (
	notFoundErrs = []error{
		service.ErrDrawNotFound,
		service.ErrBallotNotFound,
		service.ErrDrawTypeNotFound,
		service.ErrPrizeNotFound,
		service.ErrAccountNotFound,
	}
	conflictErrs = []error{
		service.ErrDuplicateDraw,
		service.ErrDrawAlreadyClosed,
		service.ErrBallotAlreadyAssigned,
		service.ErrReferentialIntegrity,
	}
	badRequestErrs = []error{
		service.ErrInvalidSchedule,
		service.ErrInvalidDrawType,
		service.ErrInvalidPrize,
		service.ErrInvalidQuantity,
		service.ErrDrawDateInPast,
	}
)

// toResponseErr maps service errors onto HTTP errors. Unknown errors become 500s.
func toResponseErr(err error) *response.Err {
	for _, target := range notFoundErrs {
		if errors.Is(err, target) {
			return response.ErrResourceNotFound(target)
		}
	}
	for _, target := range conflictErrs {
		if errors.Is(err, target) {
			return response.ErrConflict(target)
		}
	}
	for _, target := range badRequestErrs {
		if errors.Is(err, target) {
			return response.ErrBadRequest(err)
		}
	}
	if errors.Is(err, service.ErrNoMatchingSchedule) {
		return response.ErrUnprocessableEntity(service.ErrNoMatchingSchedule)
	}
	if errors.Is(err, service.ErrPaymentDeclined) {
		return response.ErrPaymentRequired(service.ErrPaymentDeclined)
	}

	return response.ErrInternalServerError(err)
}

func parseID(ctx *gin.Context, param string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %s: %q", param, ctx.Param(param)))
	}

	return uint(id), nil
}

func accountFromContext(ctx *gin.Context) (domain.Account, *response.Err) {
	claims, ok := middleware.ClaimsFromContext(ctx)
	if !ok {
		return domain.Account{}, response.ErrUnauthorized(errors.New("not authenticated"))
	}

	return domain.Account{
		ID:    claims.AccountID,
		Email: claims.Email,
		Name:  claims.Name,
	}, nil
}
