package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var apiFlag string
	var sessionFlag string

	ctx := newCommandContext(&apiFlag, &sessionFlag)

	rootCmd := &cobra.Command{
		Use:           "learnflow",
		Short:         "LearnFlow notes from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	defaultAPI := os.Getenv("LEARNFLOW_API")
	if defaultAPI == "" {
		defaultAPI = "http://localhost:3000"
	}
	rootCmd.PersistentFlags().StringVar(&apiFlag, "api", defaultAPI, "LearnFlow API base URL")
	rootCmd.PersistentFlags().StringVar(&sessionFlag, "session", "", "Session file path (default: user config dir)")

	rootCmd.AddCommand(newLoginCommand(ctx))
	rootCmd.AddCommand(newLogoutCommand(ctx))
	rootCmd.AddCommand(newCategoriesCommand(ctx))
	rootCmd.AddCommand(newNotesCommand(ctx))
	rootCmd.AddCommand(newWatchCommand(ctx))

	return rootCmd
}
