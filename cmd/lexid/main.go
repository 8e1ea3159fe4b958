package main

import (
	"os"

	"github.com/spf13/cobra"

	"lexid/internal/interfaces/cli/migrate"
	"lexid/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lexid",
		Short: "lexid - authentication and session service",
		Long:  `lexid is the authentication and session service for the word-guessing platform, with local and Google sign-in, token rotation, and migration tooling.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
