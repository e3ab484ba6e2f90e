package cli

import (
	"context"
	"encoding/hex"

	"github.com/LeJamon/goOracle/internal/core/engine"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/LeJamon/goOracle/internal/crypto/secp256k1"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// secret is the hex private key signing state-changing commands
var secret string

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Key management commands",
}

var walletSeed string

var walletNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a signing key pair",
	Long: `Generate a secp256k1 key pair. Pass the public key to "account create" and
the private key to --secret on commands that change state. With --seed the
key is derived from the hex seed, so the same seed gives the same key.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var key *secp256k1.PrivateKey
		if walletSeed != "" {
			seed, err := hex.DecodeString(walletSeed)
			if err != nil {
				return errors.Wrap(err, "invalid seed")
			}
			if key, err = secp256k1.KeyFromSeed(seed); err != nil {
				return err
			}
		} else {
			var err error
			if key, err = secp256k1.GenerateKey(); err != nil {
				return err
			}
		}
		return printResult(cmd, map[string]interface{}{
			"private_key": key.Hex(),
			"public_key":  key.PublicKey().String(),
		})
	},
}

func init() {
	walletNewCmd.Flags().StringVar(&walletSeed, "seed", "", "derive the key from this hex seed (at least 16 bytes)")
	walletCmd.AddCommand(walletNewCmd)
	rootCmd.AddCommand(walletCmd)
}

// addSecretFlag registers --secret on a command that signs its request.
func addSecretFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&secret, "secret", "", "hex private key of the account (required)")
	_ = cmd.MarkFlagRequired("secret")
}

// Signer signs invocations for one account. The sequence is read from the
// server before each call.
type Signer struct {
	Client  *Client
	Account types.AccountAddress
	Key     *secp256k1.PrivateKey
}

// NewSigner returns a signer for account using the hex private key.
func NewSigner(client *Client, account, privateKey string) (*Signer, error) {
	addr, err := types.ParseAccountAddress(account)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid account %q", account)
	}
	key, err := secp256k1.ParsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	return &Signer{Client: client, Account: addr, Key: key}, nil
}

// Sequence returns the next sequence of the account.
func (s *Signer) Sequence(ctx context.Context) (uint32, error) {
	info, err := s.Client.Call(ctx, "account_info", map[string]interface{}{"account": s.Account.String()})
	if err != nil {
		return 0, err
	}
	seq, ok := info["sequence"].(float64)
	if !ok {
		return 0, errors.New("account_info returned no sequence")
	}
	return uint32(seq), nil
}

// Call signs method over args and sends it with params.
func (s *Signer) Call(ctx context.Context, method string, args []string, params map[string]interface{}) (map[string]interface{}, error) {
	seq, err := s.Sequence(ctx)
	if err != nil {
		return nil, err
	}
	auth, err := engine.Sign(s.Key, s.Account, seq, method, args...)
	if err != nil {
		return nil, err
	}
	params["account"] = s.Account.String()
	params["sequence"] = auth.Sequence
	params["signature"] = hex.EncodeToString(auth.Signature)
	return s.Client.Call(ctx, method, params)
}

// executeSigned signs method as account with --secret and prints the result
func executeSigned(cmd *cobra.Command, account, method string, args []string, params map[string]interface{}) error {
	signer, err := NewSigner(newClient(), account, secret)
	if err != nil {
		return err
	}
	result, err := signer.Call(cmd.Context(), method, args, params)
	if err != nil {
		return err
	}
	return printResult(cmd, result)
}
