package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shadowy/molecule/wallet"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Derive wallet identities",
}

var walletDeriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive a wallet address for (secret, token, position)",
	Long: `Derive a wallet's public address and bundle from a secret, a token slug,
and an optional position. When --position is omitted a random one is
generated. Example:
  moleculectl wallet derive --secret a1b2... --token CRZY`,
	Run: func(cmd *cobra.Command, args []string) {
		secretHex, _ := cmd.Flags().GetString("secret")
		token, _ := cmd.Flags().GetString("token")
		position, _ := cmd.Flags().GetString("position")
		keyWidthBits, _ := cmd.Flags().GetInt("key-width-bits")

		secret, err := hex.DecodeString(secretHex)
		if err != nil {
			fail("decoding secret: %v", err)
		}
		if token == "" {
			fail("a --token is required")
		}

		w, err := wallet.Derive(secret, token, position, keyWidthBits)
		if err != nil {
			fail("deriving wallet: %v", err)
		}

		data, err := json.MarshalIndent(w, "", "  ")
		if err != nil {
			fail("marshaling wallet: %v", err)
		}
		fmt.Println(string(data))
	},
}

func init() {
	walletDeriveCmd.Flags().String("secret", "", "hex-encoded authentication secret")
	walletDeriveCmd.Flags().String("token", "", "token slug the wallet is denominated in")
	walletDeriveCmd.Flags().String("position", "", "64-hex-character position; random when omitted")
	walletDeriveCmd.Flags().Int("key-width-bits", wallet.DefaultKeyWidthBits, "intermediate key width in bits")

	walletCmd.AddCommand(walletDeriveCmd)
}
