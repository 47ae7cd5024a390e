package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/classasaurus/coursegen/internal/models"
	"github.com/classasaurus/coursegen/internal/service"
	appErrors "github.com/classasaurus/coursegen/pkg/errors"
)

var (
	exportFormat  string
	exportSection string
	exportOut     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exports the schedule as ics, md, csv, pdf, or json",
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

		exporter := service.NewExportService(appCfg.Export.UIDDomain, logr)
		var body []byte
		switch exportFormat {
		case "ics":
			body, err = exporter.RenderICS(schedule, exportSection)
		case "md":
			body, err = exporter.RenderMarkdown(schedule, exportSection)
		case "csv":
			body, err = exporter.RenderCSV(schedule, exportSection)
		case "pdf":
			body, err = exporter.RenderPDF(schedule, exportSection)
		case "json":
			body, err = exporter.RenderJSON(schedule)
		default:
			err = appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown format %q", exportFormat))
		}
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = filepath.Join(appCfg.Export.OutputDir, exportFilename(schedule.Config, exportSection, exportFormat))
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(out, body, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", out)
		return nil
	},
}

func exportFilename(cfg *models.CourseConfig, section, format string) string {
	name := "schedule"
	if cfg.CourseCode != "" {
		name = cfg.CourseCode
	}
	if section != "" {
		name += "-" + section
	}
	return name + "." + format
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "ics", "export format: ics, md, csv, pdf, json")
	exportCmd.Flags().StringVarP(&exportSection, "section", "s", "", "restrict the export to one section")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default derived from course code)")
	rootCmd.AddCommand(exportCmd)
}
