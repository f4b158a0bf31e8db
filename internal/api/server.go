package api

import (
	"fmt"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	v1 "github.com/vietanh2810/lottery-api/internal/api/handler/v1"
	"github.com/vietanh2810/lottery-api/internal/api/middleware"
	"github.com/vietanh2810/lottery-api/internal/config"
	"github.com/vietanh2810/lottery-api/internal/metrics"
	"github.com/vietanh2810/lottery-api/internal/repository"
	"github.com/vietanh2810/lottery-api/internal/repository/dao"
	"github.com/vietanh2810/lottery-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
	// Closer is shared with the daily close worker.
	Closer *service.DrawCloser
}

type handlers struct {
	health  *v1.HealthHandler
	account *v1.AccountHandler
	draw    *v1.DrawHandler
	ballot  *v1.BallotHandler
	admin   *v1.AdminHandler
}

func NewServer(conf *config.AppConfig, db *gorm.DB, notifier service.Notifier) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	h, err := s.initHandlers(db, notifier)
	if err != nil {
		return nil, err
	}

	s.MountMiddlewares()
	s.MountHandlers(h)

	return s, nil
}

func (s *Server) initHandlers(db *gorm.DB, notifier service.Notifier) (*handlers, error) {
	loc, err := s.Config.Lottery.Location()
	if err != nil {
		return nil, fmt.Errorf("s.Config.Lottery.Location -> %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB -> %w", err)
	}

	repo := repository.NewLotteryRepository(dao.NewLotteryDAO(db))
	drawSvc := service.NewDrawService(repo, loc, nil)
	ballotSvc := service.NewBallotService(repo, service.MockPayment{}, s.Config.Lottery.MaxBallotsPerPurchase)
	accountSvc := service.NewAccountService(repo)
	s.Closer = service.NewDrawCloser(repo, notifier, service.NewAllocator(nil), nil)

	return &handlers{
		health:  v1.NewHealthHandler(sqlDB),
		account: v1.NewAccountHandler(accountSvc),
		draw:    v1.NewDrawHandler(drawSvc),
		ballot:  v1.NewBallotHandler(ballotSvc, s.Config.Lottery.MaxBallotsPerPurchase),
		admin:   v1.NewAdminHandler(drawSvc, s.Closer),
	}, nil
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.AccessLog())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	if s.Config.Metrics.Enabled {
		s.Router.Use(metrics.HTTPMetrics())
	}
}

func (s *Server) MountHandlers(h *handlers) {
	const basePath = "/api/v1"

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	public := s.Router.Group(basePath)
	{
		public.GET("/health", h.health.HandleHealth)
		public.GET("/draws/open", h.draw.HandleGetOpenDraws)
		public.GET("/draws/closed", h.draw.HandleGetClosedDraws)
		public.GET("/draws/:drawID", h.draw.HandleGetDraw)
		public.GET("/stats", h.draw.HandleGetStats)
	}

	accounts := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		accounts.GET("/accounts/me", h.account.HandleGetMe)
		accounts.POST("/ballots/purchase", h.ballot.HandlePurchase)
		accounts.GET("/ballots", h.ballot.HandleGetMyBallots)
		accounts.GET("/ballots/:ballotID", h.ballot.HandleGetBallot)
		accounts.POST("/ballots/:ballotID/assign", h.ballot.HandleAssign)
		accounts.GET("/winnings", h.ballot.HandleGetMyWinnings)
	}

	admin := s.Router.Group(basePath+"/admin", authenticator.VerifyJWT(), middleware.RequireAdmin())
	{
		admin.GET("/drawtypes", h.admin.HandleListDrawTypes)
		admin.POST("/drawtypes", h.admin.HandleCreateDrawType)
		admin.GET("/drawtypes/:drawTypeID", h.admin.HandleGetDrawType)
		admin.PUT("/drawtypes/:drawTypeID", h.admin.HandleUpdateDrawType)
		admin.DELETE("/drawtypes/:drawTypeID", h.admin.HandleDeleteDrawType)
		admin.POST("/drawtypes/:drawTypeID/prizes", h.admin.HandleAddPrize)
		admin.DELETE("/prizes/:prizeID", h.admin.HandleDeletePrize)
		admin.GET("/schedule/match", h.admin.HandleMatchDrawType)
		admin.POST("/draws", h.admin.HandleCreateDraw)
		admin.DELETE("/draws/:drawID", h.admin.HandleDeleteDraw)
		admin.POST("/draws/:drawID/close", h.admin.HandleCloseDraw)
	}

	s.Router.GET("/", h.health.HandleHealth)
	if s.Config.Metrics.Enabled {
		s.Router.GET(s.Config.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}
}
