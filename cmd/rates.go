package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parkandride/parkride/internal/shell"
	"github.com/parkandride/parkride/internal/views"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Show hourly parking rates",
	Args:  cobra.NoArgs,
	RunE:  runRates,
}

var ratesSetCmd = &cobra.Command{
	Use:   "set <vehicle type> <price per hour>",
	Short: "Change the hourly rate of a vehicle type (managers only)",
	Args:  cobra.ExactArgs(2),
	RunE:  runRatesSet,
}

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Show slot availability",
	Args:  cobra.NoArgs,
	RunE:  runSlots,
}

func init() {
	ratesCmd.AddCommand(ratesSetCmd)
}

func loadRates(a *app) (*views.Rates, error) {
	if err := a.enter(shell.Rates); err != nil {
		return nil, err
	}
	v := views.NewRates(a.client, a.auth, a.logger)
	a.load("Loading", func() { v.Load(a.shell.Context()) })
	return v, nil
}

func runRates(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	v, err := loadRates(a)
	if err != nil {
		return err
	}
	rates := v.Rates()
	if err := writeOutput(a.out, format, rates, ratesTable(rates)); err != nil {
		return err
	}
	if format == formatTable {
		fmt.Fprintln(a.out, views.RateNote)
	}
	return nil
}

func runRatesSet(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	v, err := loadRates(a)
	if err != nil {
		return err
	}
	price, err := v.Update(a.shell.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: %s per hour\n", args[0], views.FormatPrice(price))
	return nil
}

func runSlots(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	v, err := loadRates(a)
	if err != nil {
		return err
	}
	slots := v.Slots()
	return writeOutput(a.out, format, slots, slotsTable(slots))
}
