package cli

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shadowy/molecule/engine"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or initialize the engine configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a fresh config file with a random secret",
	Run: func(cmd *cobra.Command, args []string) {
		cellSlug, _ := cmd.Flags().GetString("cell-slug")
		nodeURIs, _ := cmd.Flags().GetStringSlice("node-uri")

		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			fail("generating secret: %v", err)
		}

		cfg := engine.DefaultConfig()
		cfg.CellSlug = cellSlug
		cfg.NodeURIs = nodeURIs
		cfg.Secret = hex.EncodeToString(secret)

		if err := cfg.Validate(); err != nil {
			fail("invalid config: %v", err)
		}
		if err := cfg.Save(configPath); err != nil {
			fail("saving config: %v", err)
		}
		fmt.Printf("wrote %s\n", configPath)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the loaded config as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := engine.LoadConfigFile(configPath)
		if err != nil {
			fail("loading config: %v", err)
		}
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			fail("marshaling config: %v", err)
		}
		fmt.Println(string(data))
	},
}

func init() {
	configInitCmd.Flags().String("cell-slug", "", "cell slug this client operates against")
	configInitCmd.Flags().StringSlice("node-uri", nil, "node URI (repeatable)")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
