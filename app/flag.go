package app

import "github.com/urfave/cli/v2"

var (
	workFlag = &cli.DurationFlag{
		Name:    "work",
		Aliases: []string{"w"},
		Usage:   "Work session duration. Overrides the configured value",
	}

	shortBreakFlag = &cli.DurationFlag{
		Name:    "short-break",
		Aliases: []string{"s"},
		Usage:   "Short break duration. Overrides the configured value",
	}

	longBreakFlag = &cli.DurationFlag{
		Name:    "long-break",
		Aliases: []string{"l"},
		Usage:   "Long break duration. Overrides the configured value",
	}

	longBreakIntervalFlag = &cli.IntFlag{
		Name:    "long-break-interval",
		Aliases: []string{"int"},
		Usage:   "The number of work sessions before a long break",
	}

	breakFlag = &cli.BoolFlag{
		Name:  "break",
		Usage: "Start a break session instead of a work session",
	}

	projectFlag = &cli.StringFlag{
		Name:    "project",
		Aliases: []string{"p"},
		Usage:   "Associate the session with a project id",
	}

	taskFlag = &cli.StringFlag{
		Name:  "task",
		Usage: "Associate the session with a task id",
	}

	sessionCmdFlag = &cli.StringFlag{
		Name:    "session-cmd",
		Aliases: []string{"cmd"},
		Usage:   "Execute an arbitrary command after each session",
	}

	soundFlag = &cli.StringFlag{
		Name:  "sound",
		Usage: "Sound file to play when a session ends. Disable by setting to 'off'",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:    "disable-notification",
		Aliases: []string{"d"},
		Usage:   "Disable the system notification that appears after a session is completed",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	periodFlag = &cli.StringFlag{
		Name:  "period",
		Usage: "Report period (today, yesterday, 7days, 14days, 30days, 90days, 180days, 365days, all-time)",
	}

	startFlag = &cli.StringFlag{
		Name:  "start",
		Usage: "Report start date (e.g. '2026-08-01' or '2 weeks ago')",
	}

	endFlag = &cli.StringFlag{
		Name:  "end",
		Usage: "Report end date",
	}

	usernameFlag = &cli.StringFlag{
		Name:     "username",
		Aliases:  []string{"u"},
		Usage:    "Account username",
		Required: true,
	}

	emailFlag = &cli.StringFlag{
		Name:     "email",
		Usage:    "Account email address",
		Required: true,
	}

	passwordFlag = &cli.StringFlag{
		Name:     "password",
		Usage:    "Account password",
		Required: true,
	}

	statusFilterFlag = &cli.StringSliceFlag{
		Name:  "status",
		Usage: "Filter projects by status (active, archived, completed)",
	}

	tagFlag = &cli.StringSliceFlag{
		Name:  "tag",
		Usage: "Filter projects by tag. Repeat to match any of several tags",
	}

	searchFlag = &cli.StringFlag{
		Name:  "search",
		Usage: "Filter projects by a name or description substring",
	}

	sortFlag = &cli.StringFlag{
		Name:  "sort",
		Usage: "Sort projects by field (name, created_at, updated_at)",
		Value: "name",
	}

	descFlag = &cli.BoolFlag{
		Name:  "desc",
		Usage: "Sort in descending order",
	}

	addrFlag = &cli.StringFlag{
		Name:  "addr",
		Usage: "Address for the sync backend to listen on",
		Value: ":8080",
	}
)
