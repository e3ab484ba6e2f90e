package cli

import (
	"strconv"

	"github.com/LeJamon/goOracle/internal/core/engine"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var oracleCmd = &cobra.Command{
	Use:   "oracle",
	Short: "Oracle component commands",
}

var oracleInstantiateCmd = &cobra.Command{
	Use:   "instantiate <account> <num_of_admins>",
	Short: "Instantiate an oracle",
	Long: `Instantiate an oracle and mint num_of_admins admin badges into the vault
of account. Holders of a badge can update prices. The request is signed
with --secret, the private key of account.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Errorf("invalid num_of_admins %q", args[1])
		}
		return executeSigned(cmd, args[0], "instantiate_oracle", engine.InstantiateOracleArgs(n), map[string]interface{}{
			"num_of_admins": n,
		})
	},
}

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Read and update oracle prices",
}

var priceGetCmd = &cobra.Command{
	Use:   "get <component> <base> <quote>",
	Short: "Get the price of base in quote",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeMethod(cmd, "get_price", map[string]interface{}{
			"component": args[0],
			"base":      args[1],
			"quote":     args[2],
		})
	},
}

var priceUpdateCmd = &cobra.Command{
	Use:   "update <account> <component> <base> <quote> <price>",
	Short: "Set the price of base in quote",
	Long: `Set the price of base in quote and the reciprocal price of quote in base.
account must hold an admin badge of the oracle and --secret must be its
private key.`,
	Args: cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		component, err := types.ParseComponentAddress(args[1])
		if err != nil {
			return errors.Wrapf(err, "invalid component %q", args[1])
		}
		base, err := types.ParseResourceAddress(args[2])
		if err != nil {
			return errors.Wrapf(err, "invalid base %q", args[2])
		}
		quote, err := types.ParseResourceAddress(args[3])
		if err != nil {
			return errors.Wrapf(err, "invalid quote %q", args[3])
		}
		price, err := types.ParseDecimal(args[4])
		if err != nil {
			return errors.Wrapf(err, "invalid price %q", args[4])
		}
		return executeSigned(cmd, args[0], "update_price", engine.UpdatePriceArgs(component, base, quote, price), map[string]interface{}{
			"component": args[1],
			"base":      args[2],
			"quote":     args[3],
			"price":     args[4],
		})
	},
}

func init() {
	addSecretFlag(oracleInstantiateCmd)
	addSecretFlag(priceUpdateCmd)

	oracleCmd.AddCommand(oracleInstantiateCmd)
	rootCmd.AddCommand(oracleCmd)

	priceCmd.AddCommand(priceGetCmd)
	priceCmd.AddCommand(priceUpdateCmd)
	rootCmd.AddCommand(priceCmd)
}
