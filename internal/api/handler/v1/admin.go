package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vietanh2810/lottery-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/lottery-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/lottery-api/internal/api/middleware"
	"github.com/vietanh2810/lottery-api/internal/domain"
)

type AdminService interface {
	CreateDrawType(ctx context.Context, drawType domain.DrawType) (domain.DrawType, error)
	UpdateDrawType(ctx context.Context, drawType domain.DrawType) (domain.DrawType, error)
	GetDrawType(ctx context.Context, id uint) (domain.DrawType, error)
	ListDrawTypes(ctx context.Context) ([]domain.DrawType, error)
	DeleteDrawType(ctx context.Context, id uint) error
	AddPrize(ctx context.Context, prize domain.Prize) (domain.Prize, error)
	DeletePrize(ctx context.Context, id uint) error
	MatchDrawType(ctx context.Context, date time.Time) (domain.DrawType, error)
	CreateDraw(ctx context.Context, date time.Time, drawTypeID uint) (domain.Draw, error)
	DeleteDraw(ctx context.Context, id uint) error
}

type DrawCloser interface {
	Close(ctx context.Context, drawID uint) (domain.ClosedDraw, error)
}

type AdminHandler struct {
	svc    AdminService
	closer DrawCloser
}

func NewAdminHandler(svc AdminService, closer DrawCloser) *AdminHandler {
	return &AdminHandler{
		svc:    svc,
		closer: closer,
	}
}

func bindDrawType(ctx *gin.Context) (domain.DrawType, bool) {
	var req request.DrawTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return domain.DrawType{}, false
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return domain.DrawType{}, false
	}

	drawType, err := req.ToDomain()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return domain.DrawType{}, false
	}

	return drawType, true
}

// HandleCreateDrawType godoc
// @Summary      Create a draw type
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      request.DrawTypeRequest  true  "request body"
// @Success      201      {object}  domain.DrawType
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Router       /admin/drawtypes [post]
// @Security BearerAuth
func (h *AdminHandler) HandleCreateDrawType(ctx *gin.Context) {
	drawType, ok := bindDrawType(ctx)
	if !ok {
		return
	}

	created, err := h.svc.CreateDrawType(ctx.Request.Context(), drawType)
	if err != nil {
		response.RenderErr(ctx, toResponseErr(fmt.Errorf("h.svc.CreateDrawType -> %w", err)))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (h *AdminHandler) HandleUpdateDrawType(ctx *gin.Context) {
	id, respErr := parseID(ctx, "drawTypeID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	drawType, ok := bindDrawType(ctx)
	if !ok {
		return
	}
	drawType.ID = id

	updated, err := h.svc.UpdateDrawType(ctx.Request.Context(), drawType)
	if err != nil {
		response.RenderErr(ctx, toResponseErr(fmt.Errorf("h.svc.UpdateDrawType -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *AdminHandler) HandleGetDrawType(ctx *gin.Context) {
	id, respErr := parseID(ctx, "drawTypeID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	drawType, err := h.svc.GetDrawType(ctx.Request.Context(), id)
	if err != nil {
		response.RenderErr(ctx, toResponseErr(fmt.Errorf("h.svc.GetDrawType -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, drawType)
}

func (h *AdminHandler) HandleListDrawTypes(ctx *gin.Context) {
	drawTypes, err := h.svc.ListDrawTypes(ctx.Request.Context())
	if err != nil {
		response.RenderErr(ctx, toResponseErr(fmt.Errorf("h.svc.ListDrawTypes -> %w", err)))
		return
	}
	if drawTypes == nil {
		drawTypes = []domain.DrawType{}
	}

	ctx.JSON(http.StatusOK, drawTypes)
}

func (h *AdminHandler) HandleDeleteDrawType(ctx *gin.Context) {
	id, respErr := parseID(ctx, "drawTypeID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteDrawType(ctx.Request.Context(), id); err != nil {
		response.RenderErr(ctx, toResponseErr(fmt.Errorf("h.svc.DeleteDrawType -> %w", err)))
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *AdminHandler) HandleAddPrize(ctx *gin.Context) {
	drawTypeID, respErr := parseID(ctx, "drawTypeID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.PrizeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	prize, err := h.svc.AddPrize(ctx.Request.Context(), domain.Prize{
		DrawTypeID: drawTypeID,
		Name:       req.Name,
		Amount:     req.Amount,
		Count:      req.Count,
	})
	if err != nil {
		response.RenderErr(ctx, toResponseErr(fmt.Errorf("h.svc.AddPrize -> %w", err)))
		return
	}

	ctx.JSON(http.StatusCreated, response.NewPrize(prize))
}

func (h *AdminHandler) HandleDeletePrize(ctx *gin.Context) {
	id, respErr := parseID(ctx, "prizeID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeletePrize(ctx.Request.Context(), id); err != nil {
		response.RenderErr(ctx, toResponseErr(fmt.Errorf("h.svc.DeletePrize -> %w", err)))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleMatchDrawType godoc
// @Summary      Resolve which draw type a date belongs to
// @Tags         admin
// @Produce      json
// @Param        date  query     string  true  "YYYY-MM-DD"
// @Success      200   {object}  domain.DrawType
// @Failure      400   {object}  response.Err
// @Failure      422   {object}  response.Err
// @Router       /admin/schedule/match [get]
// @Security BearerAuth
func (h *AdminHandler) HandleMatchDrawType(ctx *gin.Context) {
	date, err := time.Parse(time.DateOnly, ctx.Query("date"))
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid date: %q", ctx.Query("date"))))
		return
	}

	drawType, err := h.svc.MatchDrawType(ctx.Request.Context(), date)
	if err != nil {
		response.RenderErr(ctx, toResponseErr(fmt.Errorf("h.svc.MatchDrawType -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, drawType)
}

// HandleCreateDraw godoc
// @Summary      Create a draw
// @Description  Without drawtype_id the draw type is picked by schedule matching
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      request.DrawRequest  true  "request body"
// @Success      201      {object}  response.Draw
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Router       /admin/draws [post]
// @Security BearerAuth
func (h *AdminHandler) HandleCreateDraw(ctx *gin.Context) {
	var req request.DrawRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	date, err := req.ParsedDate()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	draw, err := h.svc.CreateDraw(ctx.Request.Context(), date, req.DrawTypeID)
	if err != nil {
		response.RenderErr(ctx, toResponseErr(fmt.Errorf("h.svc.CreateDraw -> %w", err)))
		return
	}

	ctx.JSON(http.StatusCreated, response.NewDraw(draw))
}

func (h *AdminHandler) HandleDeleteDraw(ctx *gin.Context) {
	id, respErr := parseID(ctx, "drawID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteDraw(ctx.Request.Context(), id); err != nil {
		response.RenderErr(ctx, toResponseErr(fmt.Errorf("h.svc.DeleteDraw -> %w", err)))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleCloseDraw godoc
// @Summary      Close a draw and allocate its prizes
// @Description  Closing an already closed draw returns the stored result with already_closed set
// @Tags         admin
// @Produce      json
// @Param        drawID  path      int  true  "draw ID"
// @Success      200     {object}  response.CloseResult
// @Failure      404     {object}  response.Err
// @Router       /admin/draws/{drawID}/close [post]
// @Security BearerAuth
func (h *AdminHandler) HandleCloseDraw(ctx *gin.Context) {
	id, respErr := parseID(ctx, "drawID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	result, err := h.closer.Close(ctx.Request.Context(), id)
	if err != nil {
		response.RenderErr(ctx, toResponseErr(fmt.Errorf("h.closer.Close -> %w", err)))
		return
	}

	if claims, ok := middleware.ClaimsFromContext(ctx); ok {
		zap.L().Info("draw closed by admin",
			zap.Uint("draw_id", id),
			zap.Uint("admin_id", claims.AccountID),
			zap.Bool("already_closed", result.AlreadyClosed),
		)
	}

	ctx.JSON(http.StatusOK, response.NewCloseResult(result))
}
