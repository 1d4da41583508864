package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/parkandride/parkride/internal/model"
	"github.com/parkandride/parkride/internal/shell"
	"github.com/parkandride/parkride/internal/timecalc"
	"github.com/parkandride/parkride/internal/views"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive operator console",
	Long: `Open the interactive console. The console shows one screen at a time,
like the top bar of the dashboard: availability, vehicle in, vehicle out and,
for managers, income and officers. Type "help" for commands.`,
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func runConsole(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	return newConsole(a, cmd.InOrStdin()).run(cmd.Context())
}

const consoleHelp = `Screens:   home | rates | in | out | income | officers   (or: go <screen>)
Account:   login [manager] | logout | password
Lists:     filter ALL|A|B|C | search <text> | range all|today|1w|1m | reload
Vehicles:  add <slot> <number> [type...] | slip <id or number>
Rates:     setrate <price> <vehicle type...>
Officers:  newofficer
Other:     help | quit`

// console is the interactive loop over one app.
type console struct {
	a   *app
	p   *prompter
	out io.Writer

	vin      *views.VehicleIn
	vout     *views.VehicleOut
	rates    *views.Rates
	officers *views.Officers
	income   *views.Income

	filter views.SlotFilter
	query  string
	rng    timecalc.Range
	now    func() time.Time
}

func newConsole(a *app, in io.Reader) *console {
	return &console{
		a:      a,
		p:      newPrompter(in, a.out),
		out:    a.out,
		filter: views.FilterAll,
		rng:    timecalc.RangeAll,
		now:    time.Now,
	}
}

func (c *console) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c.a.shell.Start(ctx)
	defer c.a.shell.Close()
	c.mount()
	c.render()

	for {
		fmt.Fprint(c.out, "> ")
		line, err := c.p.in.ReadString('\n')
		if line == "" && err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(c.out)
				return nil
			}
			return fmt.Errorf("reading command: %w", err)
		}
		if quit := c.exec(strings.TrimSpace(line)); quit {
			return nil
		}
	}
}

// exec runs one command line. It reports whether the console should exit.
func (c *console) exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	var err error
	switch cmd {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(c.out, consoleHelp)
	case "go":
		if len(args) != 1 {
			err = errors.New("usage: go <screen>")
			break
		}
		err = c.navigateTo(args[0])
	case "home", "rates", "in", "out", "income", "officers", "availability":
		err = c.navigateTo(cmd)
	case "login":
		err = c.login(args)
	case "logout":
		err = c.a.shell.Logout()
		c.mount()
		c.render()
	case "password":
		err = c.password()
	case "filter":
		err = c.setFilter(args)
	case "search":
		c.query = strings.Join(args, " ")
		c.render()
	case "range":
		err = c.setRange(args)
	case "reload":
		c.mount()
		c.render()
	case "add":
		err = c.add(args)
	case "slip":
		err = c.slip(args)
	case "setrate":
		err = c.setRate(args)
	case "newofficer":
		err = c.newOfficer()
	default:
		err = fmt.Errorf("unknown command %q, type help", cmd)
	}
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
	return false
}

var screenAliases = map[string]shell.View{
	"in":           shell.VehicleIn,
	"out":          shell.VehicleOut,
	"availability": shell.Rates,
}

func (c *console) navigateTo(name string) error {
	v, ok := screenAliases[name]
	if !ok {
		var err error
		if v, err = shell.ParseView(name); err != nil {
			return err
		}
	}
	before := c.a.shell.Context()
	err := c.a.shell.Navigate(v)
	if errors.Is(err, shell.ErrProtected) {
		fmt.Fprintf(c.out, "Access restricted\n%s\n", shell.ProtectedMessage)
		c.a.shell.DismissProtected()
		return nil
	}
	if err != nil {
		return err
	}
	if c.a.shell.Context() != before {
		c.mount()
	}
	c.render()
	return nil
}

// mount builds a fresh view for the current screen and loads it under the
// screen's lifetime.
func (c *console) mount() {
	ctx := c.a.shell.Context()
	switch c.a.shell.View() {
	case shell.Rates:
		c.rates = views.NewRates(c.a.client, c.a.auth, c.a.logger)
		c.a.load("Loading", func() { c.rates.Load(ctx) })
	case shell.VehicleIn:
		c.vin = views.NewVehicleIn(c.a.client, c.a.auth)
		c.a.load("Loading", func() { _ = c.vin.Load(ctx) })
	case shell.VehicleOut:
		c.vout = views.NewVehicleOut(c.a.client)
		c.a.load("Loading", func() { _ = c.vout.Load(ctx, c.rng) })
	case shell.Officers:
		c.officers = views.NewOfficers(c.a.client, c.a.logger)
		c.a.load("Loading", func() { c.officers.Load(ctx) })
	case shell.Income:
		c.income = views.NewIncome(c.a.client, c.a.loc, c.a.logger)
		c.a.load("Loading", func() { c.income.Load(ctx) })
	}
}

func (c *console) render() {
	fmt.Fprintln(c.out)
	printNav(c.out, c.a.shell.NavItems())
	if u := c.a.auth.User(); u != nil {
		fmt.Fprintf(c.out, "Signed in: %s (%s)\n", u.Username, shell.RoleLabel(u))
	}
	fmt.Fprintln(c.out)

	switch c.a.shell.View() {
	case shell.Home:
		printHome(c.out)
	case shell.Rates:
		_ = writeTable(c.out, ratesTable(c.rates.Rates()))
		fmt.Fprintln(c.out, views.RateNote)
		fmt.Fprintln(c.out)
		_ = writeTable(c.out, slotsTable(c.rates.Slots()))
	case shell.VehicleIn:
		c.renderFetchError(c.vin.FetchError())
		fmt.Fprintf(c.out, "Filter: %s  Search: %q\n", c.filter, c.query)
		_ = writeTable(c.out, inParkTable(c.vin.Visible(c.filter, c.query), c.vin, c.a.loc, c.now()))
	case shell.VehicleOut:
		c.renderFetchError(c.vout.FetchError())
		fmt.Fprintf(c.out, "Range: %s  Filter: %s  Search: %q\n", c.vout.Range(), c.filter, c.query)
		_ = writeTable(c.out, exitedTable(c.vout.Visible(c.filter, c.query), c.a.loc))
	case shell.Officers:
		_ = writeTable(c.out, officersTable(c.officers.Officers()))
	case shell.Income:
		var summary *model.IncomeSummary
		if s, ok := c.income.Summary(); ok {
			summary = &s
		}
		printIncome(c.out, summary, c.income.Series(), c.a.loc)
	}
	fmt.Fprintln(c.out)
	printFooter(c.out)
}

func (c *console) renderFetchError(msg string) {
	if msg != "" {
		fmt.Fprintf(c.out, "Error: %s\n", msg)
	}
}

func (c *console) login(args []string) error {
	role := model.RoleFireOfficer
	if len(args) > 0 {
		r, err := model.ParseRole(strings.ToLower(args[0]))
		if err != nil {
			return err
		}
		role = r
	}
	label := "Officer ID"
	if role == model.RoleManager {
		label = "Admin ID"
	}
	id, err := c.p.ask(label, "")
	if err != nil {
		return err
	}
	pw, err := c.p.ask("Password", "")
	if err != nil {
		return err
	}
	if err := login(c.a, id, pw, role); err != nil {
		return err
	}
	c.a.shell.DismissLogin()
	c.render()
	return nil
}

func (c *console) password() error {
	if !c.a.auth.User().IsFireOfficer() {
		return shell.ErrForbidden
	}
	fmt.Fprintf(c.out, "Officer ID: %s\n", c.a.auth.PasswordOfficerID())
	cur, err := c.p.ask("Current Password", "")
	if err != nil {
		return err
	}
	next, err := c.p.ask("New Password", "")
	if err != nil {
		return err
	}
	if err := changePassword(c.a, cur, next); err != nil {
		return err
	}
	if c.a.shell.LoginRequested() {
		return c.login(nil)
	}
	return nil
}

func (c *console) setFilter(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: filter ALL|A|B|C")
	}
	f, err := views.ParseSlotFilter(args[0])
	if err != nil {
		return err
	}
	c.filter = f
	c.render()
	return nil
}

func (c *console) setRange(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: range all|today|1w|1m")
	}
	r, err := timecalc.ParseRange(args[0])
	if err != nil {
		return err
	}
	c.rng = r
	if c.a.shell.View() == shell.VehicleOut {
		c.mount()
	}
	c.render()
	return nil
}

func (c *console) add(args []string) error {
	if c.a.shell.View() != shell.VehicleIn {
		return errors.New("add works on the vehicle in screen")
	}
	if len(args) < 2 {
		return errors.New("usage: add <slot> <number> [type...]")
	}
	slot, err := model.ParseSlotType(args[0])
	if err != nil {
		return err
	}
	veh, err := c.vin.Add(c.a.shell.Context(), slot, strings.Join(args[2:], " "), args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Added %s (%s)\n", veh.Number, veh.Subtype)
	c.render()
	return nil
}

func (c *console) slip(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: slip <id or number>")
	}
	switch c.a.shell.View() {
	case shell.VehicleIn:
		err := issueSlip(c.a, c.vin, args[0])
		c.render()
		return err
	case shell.VehicleOut:
		r, ok := c.vout.Find(args[0])
		if !ok {
			return fmt.Errorf("no exited vehicle %q", args[0])
		}
		printSlip(c.out, c.vout.Slip(r), c.a.loc)
		return nil
	}
	return errors.New("slip works on the vehicle in and vehicle out screens")
}

func (c *console) setRate(args []string) error {
	if c.a.shell.View() != shell.Rates {
		return errors.New("setrate works on the availability screen")
	}
	if len(args) < 2 {
		return errors.New("usage: setrate <price> <vehicle type...>")
	}
	label := strings.Join(args[1:], " ")
	price, err := c.rates.Update(c.a.shell.Context(), label, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s: %s per hour\n", label, views.FormatPrice(price))
	c.render()
	return nil
}

func (c *console) newOfficer() error {
	if c.a.shell.View() != shell.Officers {
		return errors.New("newofficer works on the officers screen")
	}
	var o model.NewOfficer
	for _, f := range []struct {
		label string
		dst   *string
	}{
		{"Officer ID", &o.OfficerID},
		{"Name", &o.Name},
		{"Email", &o.Email},
		{"Phone", &o.Phone},
		{"Password (optional)", &o.Password},
	} {
		v, err := c.p.ask(f.label, "")
		if err != nil {
			return err
		}
		*f.dst = v
	}
	id, err := c.officers.Add(c.a.shell.Context(), o)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Officer created: %s\n", dash(id))
	c.render()
	return nil
}
