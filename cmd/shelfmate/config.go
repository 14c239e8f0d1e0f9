package main

import (
	"fmt"

	"github.com/shelfmate/shelfmate/internal/config"
	"github.com/shelfmate/shelfmate/pkg/env"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:           "config",
	Short:         "Print the effective configuration in .env format",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Setup logger
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}

		appCfg := config.NewAppConfig(ctx)
		out, err := env.MarshalEnv(appCfg)
		if err != nil {
			return err
		}
		fmt.Print(out)

		fmt.Printf("SHELFMATE_RUNTIME_PATH=%s\n", config.GetRuntimePath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
