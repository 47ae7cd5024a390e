package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/classasaurus/coursegen/internal/service"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints headline statistics about the generated schedule",
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
		schedule, err := service.NewScheduleService(logr).Generate(cfg)
		if err != nil {
			return err
		}
		stats := service.NewScheduleQueryService(logr).Stats(schedule)

		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
