// Package app wires the command-line interface to the stores, the sync
// backend, and the terminal UI.
package app

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/focushub/focushub/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the focushub app instance.
func Get() *cli.App {
	focushubApp := &cli.App{
		Name: "focushub",
		Usage: `
		FocusHub is a gamified productivity timer for the command-line. Track
		work sessions, earn XP, level up, keep streaks alive, and compare
		yourself with others on the leaderboard.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Print the status of the timer",
				Action: statusAction,
			},
			{
				Name: "history",
				Usage: `
				Show completed sessions. Defaults to a reporting period of 7 days`,
				Action: historyAction,
				Flags:  []cli.Flag{periodFlag, startFlag, endFlag},
			},
			{
				Name:   "login",
				Usage:  "Sign in to the sync backend",
				Action: loginAction,
				Flags:  []cli.Flag{usernameFlag, passwordFlag},
			},
			{
				Name:   "register",
				Usage:  "Create an account on the sync backend",
				Action: registerAction,
				Flags:  []cli.Flag{usernameFlag, emailFlag, passwordFlag},
			},
			{
				Name:   "logout",
				Usage:  "Sign out and clear the saved identity",
				Action: logoutAction,
			},
			{
				Name:   "sync",
				Usage:  "Upload queued offline sessions to the backend",
				Action: syncAction,
			},
			{
				Name:   "projects",
				Usage:  "List your projects",
				Action: projectsAction,
				Flags: []cli.Flag{
					statusFilterFlag,
					tagFlag,
					searchFlag,
					sortFlag,
					descFlag,
				},
			},
			{
				Name:   "achievements",
				Usage:  "Show the achievement catalog and your unlocks",
				Action: achievementsAction,
			},
			{
				Name:   "leaderboard",
				Usage:  "Show the ranking of opted-in users",
				Action: leaderboardAction,
			},
			{
				Name:   "clear-cache",
				Usage:  "Delete the cached backend responses",
				Action: clearCacheAction,
			},
			{
				Name:   "serve",
				Usage:  "Run the sync backend server",
				Action: serveAction,
				Flags:  []cli.Flag{addrFlag},
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
			{
				Name:   "debug",
				Usage:  "Dump the persisted timer and auth state",
				Action: debugAction,
				Hidden: true,
			},
		},
		Flags: []cli.Flag{
			workFlag,
			shortBreakFlag,
			longBreakFlag,
			longBreakIntervalFlag,
			breakFlag,
			projectFlag,
			taskFlag,
			sessionCmdFlag,
			soundFlag,
			disableNotificationFlag,
			noColorFlag,
		},
		Action: defaultAction,
		Before: beforeAction,
	}

	return focushubApp
}

// beforeAction initializes paths, logging, and styling ahead of any command.
func beforeAction(ctx *cli.Context) error {
	if ctx.Bool("no-color") || os.Getenv("NO_COLOR") != "" ||
		os.Getenv("FOCUSHUB_NO_COLOR") != "" {
		disableStyling()
	}

	return nil
}
