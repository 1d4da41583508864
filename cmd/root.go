package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiURL   string
	logLevel string
	format   string
)

var rootCmd = &cobra.Command{
	Use:   "parkride",
	Short: "Park & Ride – operator console for the parking backend",
	Long: `parkride is the operator console of the Park & Ride car park.
Fire officers register entering vehicles and issue exit slips; managers also
maintain rates, officers and review income. The signed-in session is kept
in ~/.parkride/.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Backend origin (overrides config and PARKRIDE_API_URL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&format, "format", formatTable, "Output format: table, json, yaml, csv")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(passwordCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(slotsCmd)
	rootCmd.AddCommand(vehiclesCmd)
	rootCmd.AddCommand(officersCmd)
	rootCmd.AddCommand(incomeCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(versionCmd)
}
