package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parkandride/parkride/internal/model"
	"github.com/parkandride/parkride/internal/shell"
	"github.com/parkandride/parkride/internal/views"
)

var newOfficer model.NewOfficer

var officersCmd = &cobra.Command{
	Use:   "officers",
	Short: "List fire officers (managers only)",
	Args:  cobra.NoArgs,
	RunE:  runOfficers,
}

var officersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a fire officer account (managers only)",
	Args:  cobra.NoArgs,
	RunE:  runOfficersAdd,
}

func init() {
	f := officersAddCmd.Flags()
	f.StringVar(&newOfficer.OfficerID, "id", "", "Officer ID (required)")
	f.StringVar(&newOfficer.Name, "name", "", "Full name (required)")
	f.StringVar(&newOfficer.Email, "email", "", "Email address (required)")
	f.StringVar(&newOfficer.Phone, "phone", "", "Phone number")
	f.StringVar(&newOfficer.Password, "password", "", "Initial password; the backend picks one when empty")
	officersCmd.AddCommand(officersAddCmd)
}

func runOfficers(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.enter(shell.Officers); err != nil {
		return err
	}
	v := views.NewOfficers(a.client, a.logger)
	a.load("Loading", func() { v.Load(a.shell.Context()) })
	list := v.Officers()
	return writeOutput(a.out, format, list, officersTable(list))
}

func runOfficersAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.enter(shell.Officers); err != nil {
		return err
	}
	v := views.NewOfficers(a.client, a.logger)
	id, err := v.Add(a.shell.Context(), newOfficer)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Officer created: %s\n", dash(id))
	return nil
}
