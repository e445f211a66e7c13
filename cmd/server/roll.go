package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-gm/internal/config"
	"github.com/KirkDiggler/rpg-gm/internal/engine/dice"
)

var (
	rollTimes  int
	rollCrypto bool
)

var rollCmd = &cobra.Command{
	Use:     "roll EXPRESSION",
	Short:   "Roll dice, e.g. rpg-gm roll 2d6+3",
	Example: "  rpg-gm roll 1d20+5\n  rpg-gm roll 4d6 --times 6",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := dice.Parse(args[0])
		if err != nil {
			return err
		}
		if rollTimes < 1 {
			return fmt.Errorf("--times must be at least 1")
		}

		source := config.DiceFast
		if rollCrypto {
			source = config.DiceCrypto
		}
		engine := dice.NewEngine(newRoller(&config.Config{DiceSource: source}))

		out := cmd.OutOrStdout()
		for range rollTimes {
			result, err := engine.Roll(spec)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s = %d [%s]\n", result.Expression, result.Total,
				strings.TrimSpace(dice.FormatRolls(result.Rolls)))
		}
		return nil
	},
}

func init() {
	rollCmd.Flags().IntVar(&rollTimes, "times", 1, "number of times to roll")
	rollCmd.Flags().BoolVar(&rollCrypto, "crypto", false, "use the crypto-backed roller")
}
