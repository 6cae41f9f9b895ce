package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/focushub/focushub/api"
	"github.com/focushub/focushub/config"
	"github.com/focushub/focushub/gateway"
	"github.com/focushub/focushub/internal/logging"
	"github.com/focushub/focushub/internal/models"
	"github.com/focushub/focushub/internal/ui"
	"github.com/focushub/focushub/project"
	"github.com/focushub/focushub/retry"
	"github.com/focushub/focushub/server"
	"github.com/focushub/focushub/store"
	"github.com/focushub/focushub/timer"
	"github.com/focushub/focushub/tui"
	"github.com/focushub/focushub/user"
)

// openDB opens the local datastore, degrading to the inert store when no
// persistent medium is available so every command still works.
func openDB() store.DB {
	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		pterm.Warning.Printfln(
			"persistent storage unavailable, state will not survive exit: %v",
			err,
		)

		return store.Noop{}
	}

	return db
}

// newAPIClient builds the REST client on top of a running gateway worker.
// Activation happens here so caches orphaned by a version bump are removed
// before any fetch. Callers stop the worker when done.
func newAPIClient(cfg *config.Config, db store.DB) (*api.Client, *gateway.Worker) {
	worker := gateway.NewWorker(db, nil, config.Version)

	go worker.Run()

	if err := worker.Activate(); err != nil {
		slog.Warn("stale cache cleanup failed", slog.Any("error", err))
	}

	client := api.NewClient(cfg.Backend.APIURL, worker)

	return client, worker
}

// defaultAction starts a timer session and runs the terminal UI.
func defaultAction(ctx *cli.Context) error {
	config.InitializePaths()
	logging.Init(config.LogFilePath())

	cfg := config.Get()

	applyFlags(ctx, cfg)

	db := openDB()
	defer db.Close()

	_, worker := newAPIClient(cfg, db)
	defer worker.Stop()

	if err := worker.Install(cfg.Backend.APIURL); err != nil {
		slog.Warn("shell precache failed", slog.Any("error", err))
	}

	users := user.NewStore(db)

	timerStore := timer.NewStore(db)

	notifier := timer.Notifier{
		Enabled:    cfg.Notification.Enabled,
		Sound:      cfg.Notification.Sound,
		SessionCmd: cfg.System.SessionCmd,
	}

	timerStore.OnComplete = func(sess models.SessionRecord) {
		go notifier.SessionEnded(sess)

		if users.HasValidToken() {
			go func() {
				_ = worker.HandleSync(gateway.SyncTimerData, cfg.Backend.APIURL)
			}()
		}
	}

	duration := cfg.Sessions.WorkDuration
	sessType := models.Work

	if ctx.Bool("break") {
		duration = cfg.Sessions.ShortBreak
		sessType = models.Break
	}

	timerStore.Start(
		int(duration.Seconds()),
		sessType,
		ctx.String("project"),
		ctx.String("task"),
	)

	_, err := tea.NewProgram(tui.New(timerStore, cfg)).Run()

	return err
}

// applyFlags overlays command-line flags on the loaded configuration.
func applyFlags(ctx *cli.Context, cfg *config.Config) {
	if ctx.Duration("work") != 0 {
		cfg.Sessions.WorkDuration = ctx.Duration("work")
	}

	if ctx.Duration("short-break") != 0 {
		cfg.Sessions.ShortBreak = ctx.Duration("short-break")
	}

	if ctx.Duration("long-break") != 0 {
		cfg.Sessions.LongBreak = ctx.Duration("long-break")
	}

	if ctx.Int("long-break-interval") != 0 {
		cfg.Sessions.LongBreakInterval = ctx.Int("long-break-interval")
	}

	if ctx.String("session-cmd") != "" {
		cfg.System.SessionCmd = ctx.String("session-cmd")
	}

	if ctx.String("sound") != "" {
		cfg.Notification.Sound = ctx.String("sound")
	}

	if ctx.Bool("disable-notification") {
		cfg.Notification.Enabled = false
	}
}

// statusAction prints the persisted timer state.
func statusAction(_ *cli.Context) error {
	config.InitializePaths()

	ui.DarkTheme = config.Get().Display.DarkTheme

	db := openDB()
	defer db.Close()

	snap, err := db.GetTimerState()
	if err != nil {
		return err
	}

	if snap == nil || snap.Status == models.Idle {
		pterm.Info.Println("No timer is active")
		return nil
	}

	mins := snap.CurrentTime / 60
	secs := snap.CurrentTime % 60

	pterm.Printfln(
		"%s session: %02d:%02d remaining [%s]",
		ui.Cyan(snap.SessionType),
		mins,
		secs,
		snap.Status,
	)

	return nil
}

// historyAction prints completed sessions for the requested period.
func historyAction(ctx *cli.Context) error {
	config.InitializePaths()

	ui.DarkTheme = config.Get().Display.DarkTheme

	filter, err := config.Filter(ctx)
	if err != nil {
		return err
	}

	db := openDB()
	defer db.Close()

	sessions, err := db.GetSessions(filter.StartTime, filter.EndTime)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		pterm.Info.Println("No sessions found for the specified period")
		return nil
	}

	data := [][]string{
		{"#", "START", "END", "TYPE", "MINUTES", "COMPLETED"},
	}

	for i, sess := range sessions {
		completed := ui.Red("no")
		if sess.Completed {
			completed = ui.Green("yes")
		}

		data = append(data, []string{
			strconv.Itoa(i + 1),
			sess.StartTime.Format("Jan 02 2006 03:04 PM"),
			sess.EndTime.Format("Jan 02 2006 03:04 PM"),
			ui.Cyan(sess.SessionType),
			strconv.Itoa(sess.Duration / 60),
			completed,
		})
	}

	ui.PrintTable(data, config.Stdout)

	return nil
}

// loginAction signs in to the backend and stores the identity locally.
func loginAction(ctx *cli.Context) error {
	config.InitializePaths()

	cfg := config.Get()

	db := openDB()
	defer db.Close()

	client, worker := newAPIClient(cfg, db)
	defer worker.Stop()

	resp, err := client.Login(
		ctx.Context,
		ctx.String("username"),
		ctx.String("password"),
	)
	if err != nil {
		return err
	}

	users := user.NewStore(db)
	users.SetUser(resp.User, &resp.Token)

	pterm.Success.Printfln("Signed in as %s", resp.User.Username)

	return nil
}

// registerAction creates a backend account and signs it in.
func registerAction(ctx *cli.Context) error {
	config.InitializePaths()

	cfg := config.Get()

	db := openDB()
	defer db.Close()

	client, worker := newAPIClient(cfg, db)
	defer worker.Stop()

	resp, err := client.Register(
		ctx.Context,
		ctx.String("username"),
		ctx.String("email"),
		ctx.String("password"),
	)
	if err != nil {
		return err
	}

	users := user.NewStore(db)
	users.SetUser(resp.User, &resp.Token)

	pterm.Success.Printfln("Welcome to FocusHub, %s!", resp.User.Username)

	return nil
}

// logoutAction clears the stored identity.
func logoutAction(_ *cli.Context) error {
	config.InitializePaths()

	db := openDB()
	defer db.Close()

	users := user.NewStore(db)

	if !users.IsAuthenticated() {
		pterm.Info.Println("You are not signed in")
		return nil
	}

	users.Logout()

	pterm.Success.Println("Signed out")

	return nil
}

// syncAction drains the offline queue to the backend, retrying with
// escalating urgency since the user asked for it explicitly.
func syncAction(ctx *cli.Context) error {
	config.InitializePaths()

	cfg := config.Get()

	db := openDB()
	defer db.Close()

	pending, err := db.Pending()
	if err != nil {
		return err
	}

	if len(pending) == 0 {
		pterm.Info.Println("Nothing to sync")
		return nil
	}

	_, worker := newAPIClient(cfg, db)
	defer worker.Stop()

	retrier := retry.New(retry.CriticalPreset())

	_, err = retry.Do(ctx.Context, retrier, func() (struct{}, error) {
		return struct{}{}, worker.HandleSync(
			gateway.SyncTimerData,
			cfg.Backend.APIURL,
		)
	})
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Synced %d session(s)", len(pending))

	return nil
}

// leaderboardAction prints the current ranking of opted-in users.
func leaderboardAction(ctx *cli.Context) error {
	config.InitializePaths()

	cfg := config.Get()

	db := openDB()
	defer db.Close()

	client, worker := newAPIClient(cfg, db)
	defer worker.Stop()

	users := user.NewStore(db)
	if tok := users.Token(); tok != nil {
		client.SetToken(tok.AccessToken)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx.Context, 30*time.Second)
	defer cancel()

	entries, err := client.Leaderboard(timeoutCtx)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		pterm.Info.Println("The leaderboard is empty")
		return nil
	}

	data := [][]string{
		{"RANK", "USERNAME", "LEVEL", "TOTAL XP"},
	}

	for _, e := range entries {
		data = append(data, []string{
			strconv.Itoa(e.Rank),
			e.Username,
			strconv.Itoa(e.Level),
			strconv.Itoa(e.TotalXP),
		})
	}

	ui.PrintTable(data, config.Stdout)

	return nil
}

// projectsAction fetches the account's projects and prints them, filtered
// and sorted according to the flags.
func projectsAction(ctx *cli.Context) error {
	config.InitializePaths()

	cfg := config.Get()

	db := openDB()
	defer db.Close()

	client, worker := newAPIClient(cfg, db)
	defer worker.Stop()

	users := user.NewStore(db)
	if tok := users.Token(); tok != nil {
		client.SetToken(tok.AccessToken)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx.Context, 30*time.Second)
	defer cancel()

	list, err := client.Projects(timeoutCtx)
	if err != nil {
		return err
	}

	projects := project.NewStore()
	projects.SetProjects(list)

	filter := project.Filter{
		Search: ctx.String("search"),
		Tags:   ctx.StringSlice("tag"),
		SortBy: project.SortField(ctx.String("sort")),
		Desc:   ctx.Bool("desc"),
	}

	for _, status := range ctx.StringSlice("status") {
		filter.Statuses = append(filter.Statuses, project.Status(status))
	}

	matched := projects.FilteredProjects(filter)

	if len(matched) == 0 {
		pterm.Info.Println("No projects found")
		return nil
	}

	data := [][]string{
		{"NAME", "STATUS", "TAGS", "CREATED"},
	}

	for _, p := range matched {
		data = append(data, []string{
			p.Name,
			string(p.Status),
			strings.Join(p.Tags, ", "),
			p.CreatedAt.Format("Jan 02 2006"),
		})
	}

	ui.PrintTable(data, config.Stdout)

	return nil
}

// achievementsAction fetches the achievement catalog and prints it with the
// account's unlock state.
func achievementsAction(ctx *cli.Context) error {
	config.InitializePaths()

	cfg := config.Get()

	ui.DarkTheme = cfg.Display.DarkTheme

	db := openDB()
	defer db.Close()

	client, worker := newAPIClient(cfg, db)
	defer worker.Stop()

	users := user.NewStore(db)
	if tok := users.Token(); tok != nil {
		client.SetToken(tok.AccessToken)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx.Context, 30*time.Second)
	defer cancel()

	list, err := client.Achievements(timeoutCtx)
	if err != nil {
		return err
	}

	if len(list) == 0 {
		pterm.Info.Println("No achievements available")
		return nil
	}

	data := [][]string{
		{"NAME", "DESCRIPTION", "XP", "UNLOCKED"},
	}

	for _, a := range list {
		unlocked := ui.Red("no")
		if a.UnlockedAt != nil {
			unlocked = ui.Green("yes")
		}

		data = append(data, []string{
			a.Name,
			a.Description,
			strconv.Itoa(a.XPReward),
			unlocked,
		})
	}

	ui.PrintTable(data, config.Stdout)

	return nil
}

// clearCacheAction deletes every named response cache through the worker's
// control protocol.
func clearCacheAction(_ *cli.Context) error {
	config.InitializePaths()

	cfg := config.Get()

	db := openDB()
	defer db.Close()

	_, worker := newAPIClient(cfg, db)
	defer worker.Stop()

	reply := worker.Send(gateway.ClearCache)
	if !reply.Success {
		return fmt.Errorf("unable to clear caches: %s", reply.Error)
	}

	pterm.Success.Println("Response caches cleared")

	return nil
}

// serveAction runs the sync backend.
func serveAction(ctx *cli.Context) error {
	config.InitializePaths()
	logging.Init(config.LogFilePath())

	addr := ctx.String("addr")

	pterm.Info.Printfln("FocusHub backend listening on %s", addr)

	return server.New().Start(addr)
}

// editConfigAction opens the configuration file in the default editor.
func editConfigAction(_ *cli.Context) error {
	config.InitializePaths()

	// ensure the config file exists before editing
	_ = config.Get()

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	cmd := exec.Command(editor, config.ConfigFilePath())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// debugAction dumps the persisted state slices.
func debugAction(_ *cli.Context) error {
	config.InitializePaths()

	db := openDB()
	defer db.Close()

	snap, err := db.GetTimerState()
	if err != nil {
		return err
	}

	auth, err := db.GetAuthState()
	if err != nil {
		return err
	}

	pending, err := db.Pending()
	if err != nil {
		return err
	}

	fmt.Fprintln(config.Stdout, spew.Sdump(snap))
	fmt.Fprintln(config.Stdout, spew.Sdump(auth))
	fmt.Fprintln(config.Stdout, spew.Sdump(pending))

	return nil
}
