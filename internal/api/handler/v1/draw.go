package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/lottery-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/lottery-api/internal/domain"
)

const defaultClosedDrawsLimit = 20

type DrawService interface {
	OpenDraws(ctx context.Context) ([]domain.Draw, error)
	ClosedDraws(ctx context.Context, limit int) ([]domain.DrawResult, error)
	GetDraw(ctx context.Context, id uint) (domain.DrawDetail, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

type DrawHandler struct {
	svc DrawService
}

func NewDrawHandler(svc DrawService) *DrawHandler {
	return &DrawHandler{
		svc: svc,
	}
}

// HandleGetOpenDraws godoc
// @Summary      List open draws
// @Description  Draws that are not closed yet and dated today or later, earliest first
// @Tags         draws
// @Produce      json
// @Success      200  {array}   response.Draw
// @Failure      500  {object}  response.Err
// @Router       /draws/open [get]
func (h *DrawHandler) HandleGetOpenDraws(ctx *gin.Context) {
	draws, err := h.svc.OpenDraws(ctx.Request.Context())
	if err != nil {
		response.RenderErr(ctx, toResponseErr(fmt.Errorf("h.svc.OpenDraws -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, response.NewDraws(draws))
}

// HandleGetClosedDraws godoc
// @Summary      List closed draws with their winners
// @Tags         draws
// @Produce      json
// @Param        limit  query     int  false  "maximum number of draws"
// @Success      200    {array}   response.ClosedDraw
// @Failure      400    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /draws/closed [get]
func (h *DrawHandler) HandleGetClosedDraws(ctx *gin.Context) {
	limit := defaultClosedDrawsLimit
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid limit: %q", raw)))
			return
		}
		limit = parsed
	}

	results, err := h.svc.ClosedDraws(ctx.Request.Context(), limit)
	if err != nil {
		response.RenderErr(ctx, toResponseErr(fmt.Errorf("h.svc.ClosedDraws -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, response.NewClosedDraws(results))
}

// HandleGetDraw godoc
// @Summary      Get a draw with prizes and winners
// @Tags         draws
// @Produce      json
// @Param        drawID  path      int  true  "draw ID"
// @Success      200     {object}  response.DrawDetail
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /draws/{drawID} [get]
func (h *DrawHandler) HandleGetDraw(ctx *gin.Context) {
	drawID, respErr := parseID(ctx, "drawID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	detail, err := h.svc.GetDraw(ctx.Request.Context(), drawID)
	if err != nil {
		response.RenderErr(ctx, toResponseErr(fmt.Errorf("h.svc.GetDraw -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, response.NewDrawDetail(detail))
}

// HandleGetStats godoc
// @Summary      Lottery statistics
// @Tags         draws
// @Produce      json
// @Success      200  {object}  response.Stats
// @Failure      500  {object}  response.Err
// @Router       /stats [get]
func (h *DrawHandler) HandleGetStats(ctx *gin.Context) {
	stats, err := h.svc.Stats(ctx.Request.Context())
	if err != nil {
		response.RenderErr(ctx, toResponseErr(fmt.Errorf("h.svc.Stats -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, response.NewStats(stats))
}
