package main

import (
	"fmt"
	"os"

	"github.com/Automaat/mail-incinerator/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mail-incinerator",
	Short: "Reclaim disk space from Apple Mail caches",
	Long: `A CLI tool that finds the cache folders Apple Mail keeps under ~/Library/Mail/V<N>/
and moves them to the trash or deletes them. MailData is never touched.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cli.LogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(cli.ScanCmd)
	rootCmd.AddCommand(cli.CleanCmd)
	rootCmd.AddCommand(cli.CheckCmd)
	rootCmd.AddCommand(cli.ConfigCmd)
	rootCmd.AddCommand(cli.InteractiveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
