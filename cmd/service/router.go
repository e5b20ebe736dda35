package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/breeew/stellar-api/cmd/service/handler"
	"github.com/breeew/stellar-api/cmd/service/middleware"
	"github.com/breeew/stellar-api/internal/core"
	v1 "github.com/breeew/stellar-api/internal/logic/v1"
	"github.com/breeew/stellar-api/internal/response"
)

// requests per minute
const (
	LIMIT_AUTH   = 10
	LIMIT_SCRAPE = 30
	LIMIT_SEARCH = 10
)

const DEFAULT_ADDR = ":33033"

func serve(ctx context.Context, core *core.Core) error {
	addr := core.Cfg().Addr
	if addr == "" {
		addr = DEFAULT_ADDR
	}
	httpSrv := &http.Server{
		Addr:    addr,
		Handler: newEngine(core),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shutdown http server", slog.String("error", err.Error()))
		}
	}()

	slog.Info("Http server listening", slog.String("addr", httpSrv.Addr), slog.String("mode", core.Plugins.Name()))
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newEngine(core *core.Core) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &handler.HttpSrv{
		Core:   core,
		Engine: engine,
	}
	setupHttpRouter(s)
	return engine
}

func GetIPLimitBuilder(core *core.Core) func(key string, limit int) gin.HandlerFunc {
	return func(key string, limit int) gin.HandlerFunc {
		return middleware.UseLimit(core, key, limit, func(c *gin.Context) string {
			return key + ":" + c.ClientIP()
		})
	}
}

func GetUserLimitBuilder(core *core.Core) func(key string, limit int) gin.HandlerFunc {
	return func(key string, limit int) gin.HandlerFunc {
		return middleware.UseLimit(core, key, limit, func(c *gin.Context) string {
			token, _ := v1.InjectTokenClaim(c)
			return key + ":" + token.User
		})
	}
}

func setupHttpRouter(s *handler.HttpSrv) {
	ipLimit := GetIPLimitBuilder(s.Core)
	userLimit := GetUserLimitBuilder(s.Core)

	s.Engine.Use(middleware.I18n(), response.NewResponse())
	s.Engine.Use(middleware.Cors)
	s.Engine.Use(middleware.Metrics(s.Core))

	s.Engine.GET("/metrics", gin.WrapH(s.Core.Metrics().Handler()))

	apiV1 := s.Engine.Group("/api/v1")
	{
		apiV1.GET("/mode", func(c *gin.Context) {
			response.APISuccess(c, s.Core.Plugins.Name())
		})
		apiV1.POST("/user/signup", ipLimit("signup", LIMIT_AUTH), s.Signup)
		apiV1.POST("/user/login", ipLimit("login", LIMIT_AUTH), s.Login)

		authed := apiV1.Group("")
		authed.Use(middleware.Authorization(s.Core))
		user := authed.Group("/user")
		{
			user.GET("/info", s.GetUser)
			user.PUT("/demographic", s.UpdateDemographic)
		}

		paper := authed.Group("/paper")
		{
			paper.GET("/list", s.ListPapers)
			paper.POST("/search", userLimit("search", LIMIT_SEARCH), s.SearchPapers)
			paper.GET("/detail", userLimit("scrape", LIMIT_SCRAPE), s.PaperDetail)
		}

		journal := authed.Group("/journal")
		{
			journal.GET("/list", s.ListJournal)
			journal.GET("/saved", s.JournalSaved)
			journal.POST("", s.CreateJournal)
			journal.GET("/:id", s.GetJournal)
			journal.PUT("/:id", s.UpdateJournal)
			journal.DELETE("/:id", s.DeleteJournal)
			journal.POST("/:id/annotation", s.AddAnnotation)
		}

		graph := authed.Group("/journal/graph")
		{
			graph.GET("", s.GetGraph)
			graph.POST("/connection", s.Connect)
			graph.DELETE("/connection", s.Disconnect)
			graph.DELETE("/edge/:edgeid", s.DeleteEdge)
			graph.PUT("/node/:id/position", s.MoveNode)
		}

		tools := authed.Group("/tools")
		{
			tools.Use(userLimit("scrape", LIMIT_SCRAPE))
			tools.GET("/reader", s.ToolsReader)
		}
	}
}
