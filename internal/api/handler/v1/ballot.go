package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/lottery-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/lottery-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/lottery-api/internal/domain"
)

type BallotService interface {
	Purchase(ctx context.Context, account domain.Account, quantity int, card domain.PaymentCard) ([]domain.Ballot, error)
	Assign(ctx context.Context, accountID, ballotID, drawID uint) (domain.Ballot, error)
	GetBallot(ctx context.Context, accountID, ballotID uint) (domain.Ballot, error)
	MyBallots(ctx context.Context, accountID uint) (domain.BallotList, error)
	MyWinnings(ctx context.Context, accountID uint) (domain.Winnings, error)
}

type BallotHandler struct {
	svc         BallotService
	maxPurchase int
}

func NewBallotHandler(svc BallotService, maxPurchase int) *BallotHandler {
	return &BallotHandler{
		svc:         svc,
		maxPurchase: maxPurchase,
	}
}

// HandlePurchase godoc
// @Summary      Buy ballots
// @Tags         ballots
// @Accept       json
// @Produce      json
// @Param        request  body      request.PurchaseRequest  true  "request body"
// @Success      201      {object}  response.Purchase
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      402      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /ballots/purchase [post]
// @Security BearerAuth
func (h *BallotHandler) HandlePurchase(ctx *gin.Context) {
	account, respErr := accountFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.PurchaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(h.maxPurchase); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ballots, err := h.svc.Purchase(ctx.Request.Context(), account, req.Quantity, req.Card())
	if err != nil {
		response.RenderErr(ctx, toResponseErr(fmt.Errorf("h.svc.Purchase -> %w", err)))
		return
	}

	ctx.JSON(http.StatusCreated, response.Purchase{Quantity: len(ballots), Ballots: ballots})
}

// HandleAssign godoc
// @Summary      Assign a ballot to an open draw
// @Tags         ballots
// @Accept       json
// @Produce      json
// @Param        ballotID  path      int                          true  "ballot ID"
// @Param        request   body      request.AssignBallotRequest  true  "request body"
// @Success      200       {object}  domain.Ballot
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      409       {object}  response.Err
// @Router       /ballots/{ballotID}/assign [post]
// @Security BearerAuth
func (h *BallotHandler) HandleAssign(ctx *gin.Context) {
	account, respErr := accountFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	ballotID, respErr := parseID(ctx, "ballotID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.AssignBallotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ballot, err := h.svc.Assign(ctx.Request.Context(), account.ID, ballotID, req.DrawID)
	if err != nil {
		response.RenderErr(ctx, toResponseErr(fmt.Errorf("h.svc.Assign -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, ballot)
}

func (h *BallotHandler) HandleGetBallot(ctx *gin.Context) {
	account, respErr := accountFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	ballotID, respErr := parseID(ctx, "ballotID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ballot, err := h.svc.GetBallot(ctx.Request.Context(), account.ID, ballotID)
	if err != nil {
		response.RenderErr(ctx, toResponseErr(fmt.Errorf("h.svc.GetBallot -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, ballot)
}

func (h *BallotHandler) HandleGetMyBallots(ctx *gin.Context) {
	account, respErr := accountFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	list, err := h.svc.MyBallots(ctx.Request.Context(), account.ID)
	if err != nil {
		response.RenderErr(ctx, toResponseErr(fmt.Errorf("h.svc.MyBallots -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, list)
}

func (h *BallotHandler) HandleGetMyWinnings(ctx *gin.Context) {
	account, respErr := accountFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	winnings, err := h.svc.MyWinnings(ctx.Request.Context(), account.ID)
	if err != nil {
		response.RenderErr(ctx, toResponseErr(fmt.Errorf("h.svc.MyWinnings -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, winnings)
}
