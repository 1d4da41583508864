package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parkandride/parkride/internal/model"
	"github.com/parkandride/parkride/internal/shell"
)

var (
	loginRole     string
	loginUser     string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in as a fire officer or manager",
	Long: `Sign in against the backend and keep the session in ~/.parkride/session.json.
Missing values are prompted for on stdin.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

var (
	pwCurrent string
	pwNew     string
)

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change the signed-in fire officer's password",
	Long: `Change the password of the signed-in fire officer. On success the session
is closed and you must log in again with the new password.`,
	Args: cobra.NoArgs,
	RunE: runPassword,
}

func init() {
	loginCmd.Flags().StringVar(&loginRole, "role", string(model.RoleFireOfficer), "Role: fireofficer or manager")
	loginCmd.Flags().StringVarP(&loginUser, "user", "u", "", "Officer or admin ID")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when empty)")

	passwordCmd.Flags().StringVar(&pwCurrent, "current", "", "Current password (prompted when empty)")
	passwordCmd.Flags().StringVar(&pwNew, "new", "", "New password (prompted when empty)")
}

// prompter reads answers line by line from one reader.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// ask returns value if set, otherwise prompts for a line.
func (p *prompter) ask(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	role, err := model.ParseRole(loginRole)
	if err != nil {
		return err
	}
	p := newPrompter(cmd.InOrStdin(), a.out)
	label := "Officer ID"
	if role == model.RoleManager {
		label = "Admin ID"
	}
	id, err := p.ask(label, loginUser)
	if err != nil {
		return err
	}
	pw, err := p.ask("Password", loginPassword)
	if err != nil {
		return err
	}
	return login(a, id, pw, role)
}

func login(a *app, id, pw string, role model.Role) error {
	var u *model.User
	var err error
	a.load("Signing in", func() {
		u, err = a.auth.Login(a.shell.Context(), id, pw, role)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", u.Username, shell.RoleLabel(u))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if a.auth.User() == nil {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	if err := a.shell.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

// whoami is the structured form of the signed-in user.
type whoami struct {
	Username  string        `json:"username"`
	Role      model.Role    `json:"role"`
	OfficerID string        `json:"officer_id"`
	Profile   model.Profile `json:"profile,omitempty"`
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	u := a.auth.User()
	if u == nil {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	w := whoami{Username: u.Username, Role: u.Role, OfficerID: a.auth.OfficerID(), Profile: u.Profile}
	t := table{header: []string{"USERNAME", "ROLE", "OFFICER ID", "BACKEND"}}
	t.add(u.Username, shell.RoleLabel(u), w.OfficerID, a.client.BaseURL())
	return writeOutput(a.out, format, w, t)
}

func runPassword(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if !a.auth.User().IsFireOfficer() {
		return errors.New("only a signed-in fire officer can change the password")
	}
	fmt.Fprintf(a.out, "Officer ID: %s\n", a.auth.PasswordOfficerID())
	p := newPrompter(cmd.InOrStdin(), a.out)
	cur, err := p.ask("Current Password", pwCurrent)
	if err != nil {
		return err
	}
	next, err := p.ask("New Password", pwNew)
	if err != nil {
		return err
	}
	return changePassword(a, cur, next)
}

func changePassword(a *app, cur, next string) error {
	a.shell.Notify = func(msg string) { fmt.Fprintln(a.out, msg) }
	if _, err := a.shell.ChangePassword(a.shell.Context(), cur, next); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out. Log in again with the new password.")
	return nil
}
