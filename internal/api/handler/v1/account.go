package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/lottery-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/lottery-api/internal/domain"
)

type AccountService interface {
	Sync(ctx context.Context, account domain.Account) (domain.Account, error)
}

type AccountHandler struct {
	svc AccountService
}

func NewAccountHandler(svc AccountService) *AccountHandler {
	return &AccountHandler{
		svc: svc,
	}
}

// HandleGetMe godoc
// @Summary      Current account
// @Description  Records the account from the bearer token on first use
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  domain.Account
// @Failure      401  {object}  response.Err
// @Router       /accounts/me [get]
// @Security BearerAuth
func (h *AccountHandler) HandleGetMe(ctx *gin.Context) {
	account, respErr := accountFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	synced, err := h.svc.Sync(ctx.Request.Context(), account)
	if err != nil {
		response.RenderErr(ctx, toResponseErr(fmt.Errorf("h.svc.Sync -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, synced)
}
