// Package cli wires the coursegen commands: config validation, schedule
// generation, exports, Canvas sync, and the API server.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/classasaurus/coursegen/internal/repository"
	"github.com/classasaurus/coursegen/internal/service"
	"github.com/classasaurus/coursegen/pkg/config"
	"github.com/classasaurus/coursegen/pkg/logger"
)

var courseFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "coursegen",
	Short: "coursegen turns a course configuration file into class schedules",
	Long: `Coursegen expands a course's weekly meeting patterns, holidays,
lectures, labs, and assignments into a concrete date-resolved schedule,
and serves or exports it in several formats.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&courseFile, "config", "c", "", "course configuration file (overrides COURSE_CONFIG)")
}

// bootstrap loads app config, builds the logger, and opens the course
// repository. Every subcommand starts here.
func bootstrap() (*config.Config, *zap.Logger, *repository.CourseRepository, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	if courseFile != "" {
		cfg.Course.Path = courseFile
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	repo := repository.NewCourseRepository(cfg.Course.Path, logr)
	repo.SetValidator(service.NewValidationService(nil, logr).Validate)
	return cfg, logr, repo, nil
}
