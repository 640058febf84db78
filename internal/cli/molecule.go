package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shadowy/molecule/atom"
	"github.com/shadowy/molecule/molecule"
	"github.com/shadowy/molecule/mutation"
	"github.com/shadowy/molecule/transport"
	"github.com/shadowy/molecule/wallet"
)

var moleculeCmd = &cobra.Command{
	Use:   "molecule",
	Short: "Build, sign, check, and submit molecules",
}

// parseMetaFlags turns a --meta key=value,... flag slice into atom.MetaPair.
func parseMetaFlags(pairs []string) ([]atom.MetaPair, error) {
	meta := make([]atom.MetaPair, 0, len(pairs))
	for _, p := range pairs {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("malformed --meta %q: expected key=value", p)
		}
		meta = append(meta, atom.MetaPair{Key: kv[0], Value: kv[1]})
	}
	return meta, nil
}

func loadSecret(cmd *cobra.Command) []byte {
	secretHex, _ := cmd.Flags().GetString("secret")
	secret, err := hex.DecodeString(secretHex)
	if err != nil {
		fail("decoding secret: %v", err)
	}
	return secret
}

func printWireMolecule(m *molecule.Molecule) {
	wireAtoms := make([]transport.WireAtom, len(m.Atoms))
	for i, a := range m.Atoms {
		wireAtoms[i] = transport.FromAtom(a)
	}
	wm := transport.WireMolecule{
		CellSlug:      m.CellSlug,
		Bundle:        m.Bundle,
		Status:        string(m.Status),
		CreatedAt:     m.CreatedAt,
		MolecularHash: m.MolecularHash,
		Atoms:         wireAtoms,
	}
	data, err := json.MarshalIndent(wm, "", "  ")
	if err != nil {
		fail("marshaling molecule: %v", err)
	}
	fmt.Println(string(data))
}

var moleculeTransferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Build and sign a value-transfer molecule",
	Run: func(cmd *cobra.Command, args []string) {
		secret := loadSecret(cmd)
		token, _ := cmd.Flags().GetString("token")
		cellSlug, _ := cmd.Flags().GetString("cell-slug")
		sourcePosition, _ := cmd.Flags().GetString("source-position")
		remainderPosition, _ := cmd.Flags().GetString("remainder-position")
		recipientAddress, _ := cmd.Flags().GetString("recipient-address")
		recipientPosition, _ := cmd.Flags().GetString("recipient-position")
		balanceStr, _ := cmd.Flags().GetString("source-balance")
		amountStr, _ := cmd.Flags().GetString("amount")
		anonymous, _ := cmd.Flags().GetBool("anonymous")
		compressed, _ := cmd.Flags().GetBool("compressed")

		source, err := wallet.Derive(secret, token, sourcePosition, 0)
		if err != nil {
			fail("deriving source wallet: %v", err)
		}
		balance, ok := new(big.Rat).SetString(balanceStr)
		if !ok {
			fail("invalid --source-balance %q", balanceStr)
		}
		source.Balance = balance

		remainder, err := wallet.Derive(secret, token, remainderPosition, 0)
		if err != nil {
			fail("deriving remainder wallet: %v", err)
		}

		amount, ok := new(big.Rat).SetString(amountStr)
		if !ok {
			fail("invalid --amount %q", amountStr)
		}

		recipient := &wallet.Wallet{Token: token, Position: recipientPosition, Address: recipientAddress}

		m, err := mutation.Transfer(molecule.NewParams{
			Secret:          secret,
			SourceWallet:    source,
			RemainderWallet: remainder,
			CellSlug:        cellSlug,
		}, recipient, amount)
		if err != nil {
			fail("building transfer: %v", err)
		}
		if err := m.Sign(false, anonymous, compressed); err != nil {
			fail("signing molecule: %v", err)
		}
		printWireMolecule(m)
	},
}

var moleculeTokenCreateCmd = &cobra.Command{
	Use:   "token-create",
	Short: "Build and sign a token-creation molecule",
	Run: func(cmd *cobra.Command, args []string) {
		secret := loadSecret(cmd)
		token, _ := cmd.Flags().GetString("token")
		cellSlug, _ := cmd.Flags().GetString("cell-slug")
		sourcePosition, _ := cmd.Flags().GetString("source-position")
		recipientAddress, _ := cmd.Flags().GetString("recipient-address")
		recipientPosition, _ := cmd.Flags().GetString("recipient-position")
		amountStr, _ := cmd.Flags().GetString("amount")
		metaFlags, _ := cmd.Flags().GetStringSlice("meta")
		anonymous, _ := cmd.Flags().GetBool("anonymous")
		compressed, _ := cmd.Flags().GetBool("compressed")

		source, err := wallet.Derive(secret, token, sourcePosition, 0)
		if err != nil {
			fail("deriving source wallet: %v", err)
		}
		amount, ok := new(big.Rat).SetString(amountStr)
		if !ok {
			fail("invalid --amount %q", amountStr)
		}
		meta, err := parseMetaFlags(metaFlags)
		if err != nil {
			fail("%v", err)
		}
		recipient := &wallet.Wallet{Token: token, Position: recipientPosition, Address: recipientAddress}

		m, err := mutation.CreateToken(molecule.NewParams{
			Secret:       secret,
			SourceWallet: source,
			CellSlug:     cellSlug,
		}, recipient, amount, meta)
		if err != nil {
			fail("building token creation: %v", err)
		}
		if err := m.Sign(false, anonymous, compressed); err != nil {
			fail("signing molecule: %v", err)
		}
		printWireMolecule(m)
	},
}

var moleculeCheckCmd = &cobra.Command{
	Use:   "check [molecule-json] [source-wallet-address]",
	Short: "Verify a signed molecule's hash and WOTS+ signature",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		var wm transport.WireMolecule
		if err := json.Unmarshal([]byte(args[0]), &wm); err != nil {
			fail("parsing molecule JSON: %v", err)
		}
		sourceAddress := args[1]

		m := molecule.New(molecule.NewParams{
			SourceWallet: &wallet.Wallet{Address: sourceAddress},
			CellSlug:     wm.CellSlug,
		})
		for _, wa := range wm.Atoms {
			a, err := wa.ToAtom()
			if err != nil {
				fail("converting atom: %v", err)
			}
			if err := m.AddAtom(a); err != nil {
				fail("adding atom: %v", err)
			}
		}
		m.MolecularHash = wm.MolecularHash

		if err := m.Check(); err != nil {
			fmt.Printf("invalid: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("valid")
	},
}

var moleculeSubmitCmd = &cobra.Command{
	Use:   "submit [molecule-json] [source-wallet-address]",
	Short: "Submit a signed molecule to a node",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		nodeURI, _ := cmd.Flags().GetString("node-uri")
		if nodeURI == "" {
			fail("--node-uri is required")
		}

		var wm transport.WireMolecule
		if err := json.Unmarshal([]byte(args[0]), &wm); err != nil {
			fail("parsing molecule JSON: %v", err)
		}
		sourceAddress := args[1]

		node := transport.NewHTTPNode(nodeURI)
		resp, err := node.ExecuteMutation(transport.MutationProposeMolecule, map[string]interface{}{
			"molecule":            wm,
			"sourceWalletAddress": sourceAddress,
		})
		if err != nil {
			fail("submitting molecule: %v", err)
		}

		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			fail("marshaling response: %v", err)
		}
		fmt.Println(string(data))
		if !resp.Success {
			os.Exit(1)
		}
	},
}

func init() {
	for _, c := range []*cobra.Command{moleculeTransferCmd, moleculeTokenCreateCmd} {
		c.Flags().String("secret", "", "hex-encoded authentication secret")
		c.Flags().String("token", "", "token slug")
		c.Flags().String("cell-slug", "", "cell slug this molecule is scoped to")
		c.Flags().String("source-position", "", "source wallet position (64 hex characters)")
		c.Flags().String("recipient-address", "", "recipient wallet address")
		c.Flags().String("recipient-position", "", "recipient wallet position")
		c.Flags().String("amount", "", "decimal amount to move or issue")
		c.Flags().Bool("anonymous", false, "skip position-reuse reservation")
		c.Flags().Bool("compressed", true, "use the compressed signature encoding")
	}
	moleculeTransferCmd.Flags().String("source-balance", "0", "source wallet's current balance")
	moleculeTransferCmd.Flags().String("remainder-position", "", "fresh position to receive the residual balance")
	moleculeTokenCreateCmd.Flags().StringSlice("meta", nil, "token meta as key=value (repeatable); requires name, fungibility, supply, decimals")

	moleculeSubmitCmd.Flags().String("node-uri", "", "node base URL to submit to")

	moleculeCmd.AddCommand(moleculeTransferCmd)
	moleculeCmd.AddCommand(moleculeTokenCreateCmd)
	moleculeCmd.AddCommand(moleculeCheckCmd)
	moleculeCmd.AddCommand(moleculeSubmitCmd)
}
