package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/classasaurus/coursegen/internal/canvas"
	"github.com/classasaurus/coursegen/internal/service"
	appErrors "github.com/classasaurus/coursegen/pkg/errors"
)

var syncDryRun bool

var canvasSyncCmd = &cobra.Command{
	Use:   "canvas-sync",
	Short: "Pushes the course's assignments to Canvas",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg, logr, repo, err := bootstrap()
		if err != nil {
			return err
		}
		defer logr.Sync() //nolint:errcheck

		cfg, err := repo.Config()
		if err != nil {
			return err
		}
		if err := service.NewValidationService(nil, logr).Validate(cfg); err != nil {
			return err
		}
		if cfg.Canvas == nil || !cfg.Canvas.EnableSync {
			return appErrors.Clone(appErrors.ErrDisabled, "canvas sync is not enabled in the course config")
		}

		token := appCfg.Canvas.Token(cfg.Canvas.APITokenEnvVar)
		if token == "" && !syncDryRun {
			return appErrors.Clone(appErrors.ErrValidation, "canvas API token is not set")
		}

		client := canvas.NewClient(cfg.Canvas.CanvasURL, cfg.Canvas.CourseID, token,
			appCfg.Canvas.RequestTimeout, appCfg.Canvas.RequestsPerSec, logr)
		syncer := service.NewCanvasSyncService(client, appCfg.Site.URL, logr)

		result, err := syncer.Sync(cmd.Context(), cfg, syncDryRun)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	canvasSyncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "compute the sync plan without writing to Canvas")
	rootCmd.AddCommand(canvasSyncCmd)
}
