package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/classasaurus/coursegen/internal/service"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validates the course configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logr, repo, err := bootstrap()
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
		fmt.Printf("%s is valid: %d sections, %d lectures, %d assignments\n",
			repo.Path(), len(cfg.Sections)+len(cfg.LabSections), len(cfg.Lectures), len(cfg.Assignments))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
