package config

import (
	"slices"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
	"github.com/urfave/cli/v2"

	"github.com/focushub/focushub/internal/apperr"
	"github.com/focushub/focushub/internal/timeutil"
)

var errInvalidPeriod = &apperr.Error{
	Message: "please provide a valid time period",
}

// FilterConfig narrows session history queries by their start and end time.
type FilterConfig struct {
	StartTime time.Time
	EndTime   time.Time
}

// getTimeRange returns the start and end time according to the specified
// time period.
func getTimeRange(period timeutil.Period) (start, end time.Time) {
	now := time.Now()

	start = timeutil.RoundToStart(now)

	end = timeutil.RoundToEnd(now)

	switch period {
	case timeutil.PeriodToday:
		return
	case timeutil.PeriodYesterday:
		start = now.AddDate(0, 0, timeutil.Range[period])
		start = timeutil.RoundToStart(start)
		end = timeutil.RoundToEnd(start)

		return
	case timeutil.PeriodAllTime:
		start = time.Time{}
		return
	default:
		start = now.AddDate(0, 0, timeutil.Range[period])
		start = timeutil.RoundToStart(start)
	}

	return
}

// Filter builds a history filter from command-line arguments. A named period
// takes precedence over explicit start and end dates.
func Filter(ctx *cli.Context) (*FilterConfig, error) {
	filterCfg := &FilterConfig{}

	period := timeutil.Period(strings.TrimSpace(ctx.String("period")))

	if period != "" && !slices.Contains(timeutil.PeriodCollection, period) {
		return nil, errInvalidPeriod
	}

	if period != "" {
		filterCfg.StartTime, filterCfg.EndTime = getTimeRange(period)

		return filterCfg, nil
	}

	start := ctx.String("start")
	if start != "" {
		parsed, err := dateparser.Parse(nil, start)
		if err != nil {
			return nil, errParsingDate.Wrap(err)
		}

		filterCfg.StartTime = parsed.Time
	}

	if filterCfg.StartTime.IsZero() {
		// default to the last 7 days
		filterCfg.StartTime, _ = getTimeRange(timeutil.Period7Days)
	}

	filterCfg.EndTime = timeutil.RoundToEnd(time.Now())

	end := ctx.String("end")
	if end != "" {
		parsed, err := dateparser.Parse(nil, end)
		if err != nil {
			return nil, errParsingDate.Wrap(err)
		}

		filterCfg.EndTime = parsed.Time
	}

	if filterCfg.EndTime.Before(filterCfg.StartTime) {
		return nil, errInvalidDateRange
	}

	return filterCfg, nil
}
