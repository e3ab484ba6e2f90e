package cli

import (
	"strconv"

	"github.com/LeJamon/goOracle/internal/core/engine"
	"github.com/LeJamon/goOracle/internal/core/resource"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Account commands",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create <public_key>",
	Short: "Create an account with empty vaults controlled by public_key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeMethod(cmd, "account_create", map[string]interface{}{
			"public_key": args[0],
		})
	},
}

var accountInfoCmd = &cobra.Command{
	Use:   "info <account>",
	Short: "Show the public key and next sequence of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeMethod(cmd, "account_info", map[string]interface{}{
			"account": args[0],
		})
	},
}

var accountBalanceCmd = &cobra.Command{
	Use:   "balance <account>",
	Short: "Show the vault balances of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeMethod(cmd, "account_balance", map[string]interface{}{
			"account": args[0],
		})
	},
}

var resourceInfoCmd = &cobra.Command{
	Use:   "resource <resource>",
	Short: "Show the definition and metadata of a resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeMethod(cmd, "resource_info", map[string]interface{}{
			"resource": args[0],
		})
	},
}

func init() {
	accountCmd.AddCommand(accountCreateCmd)
	accountCmd.AddCommand(accountInfoCmd)
	accountCmd.AddCommand(accountBalanceCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(resourceInfoCmd)
}

var resourceDivisibility uint8

var resourceCreateCmd = &cobra.Command{
	Use:   "resource-create <account> <supply> [name]",
	Short: "Create a fungible resource and deposit its supply into account",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		supply, err := types.ParseDecimal(args[1])
		if err != nil {
			return errors.Wrapf(err, "invalid supply %q", args[1])
		}
		var metadata map[string]string
		if len(args) > 2 {
			metadata = map[string]string{"name": args[2]}
		}
		params := map[string]interface{}{
			"supply":       args[1],
			"divisibility": resourceDivisibility,
		}
		if metadata != nil {
			params["metadata"] = metadata
		}
		return executeSigned(cmd, args[0], "resource_create",
			engine.ResourceCreateArgs(supply, resourceDivisibility, metadata), params)
	},
}

var transferCmd = &cobra.Command{
	Use:   "transfer <account> <destination> <resource> <amount>",
	Short: "Move an amount of a resource between accounts",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := types.ParseAccountAddress(args[1])
		if err != nil {
			return errors.Wrapf(err, "invalid destination %q", args[1])
		}
		res, err := types.ParseResourceAddress(args[2])
		if err != nil {
			return errors.Wrapf(err, "invalid resource %q", args[2])
		}
		amount, err := types.ParseDecimal(args[3])
		if err != nil {
			return errors.Wrapf(err, "invalid amount %q", args[3])
		}
		return executeSigned(cmd, args[0], "transfer", engine.TransferArgs(to, res, amount), map[string]interface{}{
			"destination": args[1],
			"resource":    args[2],
			"amount":      args[3],
		})
	},
}

func init() {
	resourceCreateCmd.Flags().Uint8Var(&resourceDivisibility, "divisibility", resource.MaxDivisibility,
		"decimal places of the resource, 0 to "+strconv.Itoa(int(resource.MaxDivisibility)))
	addSecretFlag(resourceCreateCmd)
	addSecretFlag(transferCmd)

	rootCmd.AddCommand(resourceCreateCmd)
	rootCmd.AddCommand(transferCmd)
}
