package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telegrab/telegrab/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config.json in the working directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(); err != nil {
			return err
		}
		fmt.Printf("Created %s\n", config.ConfigFileName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
