// Package cli implements moleculectl, a thin cobra wrapper over the library
// packages (wallet, mutation, molecule, transport, engine): it parses flags,
// calls into those packages, and prints JSON.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "moleculectl",
	Short: "moleculectl builds, signs, and submits molecular transactions",
	Long: `moleculectl is a reference client for the molecular transaction engine.
It derives wallets, builds and signs molecules with one-time WOTS+ signatures,
and submits them to a node.`,
}

// Execute runs the root command, printing any error and exiting non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "molecule-config.json",
		"path to the engine config file")

	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(moleculeCmd)
	rootCmd.AddCommand(configCmd)
}

func fail(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
	os.Exit(1)
}
