package cli

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/classasaurus/coursegen/internal/canvas"
	"github.com/classasaurus/coursegen/internal/handler"
	"github.com/classasaurus/coursegen/internal/middleware"
	"github.com/classasaurus/coursegen/internal/service"
	"github.com/classasaurus/coursegen/pkg/config"
	"github.com/classasaurus/coursegen/pkg/logger"
	corsmiddleware "github.com/classasaurus/coursegen/pkg/middleware/cors"
	reqidmiddleware "github.com/classasaurus/coursegen/pkg/middleware/requestid"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the schedule API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg, logr, repo, err := bootstrap()
		if err != nil {
			return err
		}
		defer logr.Sync() //nolint:errcheck

		// Fail fast on a broken course file instead of at first request.
		cfg, err := repo.Config()
		if err != nil {
			return err
		}
		validator := service.NewValidationService(nil, logr)
		if err := validator.Validate(cfg); err != nil {
			return err
		}

		generator := service.NewScheduleService(logr)
		query := service.NewScheduleQueryService(logr)
		exporter := service.NewExportService(appCfg.Export.UIDDomain, logr)
		metrics := service.NewMetricsService()

		var runner handler.SyncRunner
		if appCfg.Canvas.Enabled && cfg.Canvas != nil && cfg.Canvas.EnableSync {
			token := appCfg.Canvas.Token(cfg.Canvas.APITokenEnvVar)
			client := canvas.NewClient(cfg.Canvas.CanvasURL, cfg.Canvas.CourseID, token,
				appCfg.Canvas.RequestTimeout, appCfg.Canvas.RequestsPerSec, logr)
			runner = service.NewCanvasSyncService(client, appCfg.Site.URL, logr)
		}

		scheduleHandler := handler.NewScheduleHandler(repo, generator, query, metrics)
		exportHandler := handler.NewExportHandler(repo, generator, exporter, metrics)
		configHandler := handler.NewConfigHandler(repo, validator, generator)
		canvasHandler := handler.NewCanvasHandler(repo, runner)
		metricsHandler := handler.NewMetricsHandler(metrics)

		if appCfg.Env == config.EnvProduction {
			gin.SetMode(gin.ReleaseMode)
		}

		r := gin.New()
		r.Use(gin.Recovery())
		r.Use(reqidmiddleware.Middleware())
		r.Use(logger.GinMiddleware(logr))
		r.Use(corsmiddleware.New(appCfg.CORS.AllowedOrigins))
		r.Use(middleware.Metrics(metrics))

		r.GET("/health", metricsHandler.Health)
		r.GET("/metrics", metricsHandler.Prometheus)

		api := r.Group(appCfg.APIPrefix)
		{
			api.GET("/schedule", scheduleHandler.GetSchedule)
			api.GET("/schedule/week", scheduleHandler.GetWeek)
			api.GET("/schedule/upcoming", scheduleHandler.GetUpcoming)
			api.GET("/schedule.ics", exportHandler.Export("ics"))
			api.GET("/schedule.md", exportHandler.Export("md"))
			api.GET("/schedule.csv", exportHandler.Export("csv"))
			api.GET("/schedule.pdf", exportHandler.Export("pdf"))
			api.GET("/schedule.json", exportHandler.Export("json"))
			api.GET("/stats", scheduleHandler.GetStats)
			api.GET("/config", configHandler.GetConfig)
			api.POST("/reload", configHandler.Reload)
			api.POST("/canvas/sync", canvasHandler.Sync)
		}

		addr := fmt.Sprintf(":%d", appCfg.Port)
		logr.Sugar().Infow("server starting", "addr", addr, "env", appCfg.Env, "course", cfg.CourseCode)
		return r.Run(addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
