package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/classasaurus/coursegen/internal/service"
)

var generateOut string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generates the schedule and writes it as JSON",
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
		schedule, err := service.NewScheduleService(logr).Generate(cfg)
		if err != nil {
			return err
		}

		data, err := service.NewExportService(appCfg.Export.UIDDomain, logr).RenderJSON(schedule)
		if err != nil {
			return err
		}

		out := generateOut
		if out == "" {
			out = filepath.Join(appCfg.Export.OutputDir, "schedule.json")
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %d entries to %s\n", len(schedule.AllEntries), out)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "output file (default <output dir>/schedule.json)")
	rootCmd.AddCommand(generateCmd)
}
