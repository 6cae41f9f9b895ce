package config

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

const (
	keyWorkDuration       = "sessions.work"
	keyShortBreakDuration = "sessions.short_break"
	keyLongBreakDuration  = "sessions.long_break"
	keyLongBreakInterval  = "sessions.long_break_interval"
	keyAutoStartBreak     = "sessions.auto_start_break"
	keyNotifyEnabled      = "notifications.enabled"
	keyNotifySound        = "notifications.sound"
	keySessionCmd         = "settings.cmd"
	keyTwentyFourHour     = "display.24hr_clock"
	keyDarkTheme          = "display.dark_theme"
	keyAPIURL             = "backend.api_url"
	keyLeaderboardOptIn   = "backend.leaderboard_opt_in"
)

// WithViperConfig returns an Option that loads configuration from the config
// file, writing a default one when none exists.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setDefaults(v, c)

		err := v.ReadInConfig()
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return errReadConfig.Wrap(err)
			}

			if err := v.WriteConfig(); err != nil {
				return errWriteConfig.Wrap(err)
			}
		}

		return loadViperConfig(v, c)
	}
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault(keyWorkDuration, "25m")
	v.SetDefault(keyShortBreakDuration, "5m")
	v.SetDefault(keyLongBreakDuration, "15m")
	v.SetDefault(keyLongBreakInterval, 4)
	v.SetDefault(keyAutoStartBreak, true)
	v.SetDefault(keyNotifyEnabled, true)
	v.SetDefault(keyNotifySound, "")
	v.SetDefault(keySessionCmd, "")
	v.SetDefault(keyTwentyFourHour, false)
	v.SetDefault(keyDarkTheme, true)
	v.SetDefault(keyAPIURL, "http://localhost:8080")
	v.SetDefault(keyLeaderboardOptIn, false)

	// values collected by the first-run prompt take precedence over defaults
	if c.Sessions.WorkDuration != 0 {
		v.Set(keyWorkDuration, c.Sessions.WorkDuration.String())
		v.Set(keyShortBreakDuration, c.Sessions.ShortBreak.String())
		v.Set(keyLongBreakDuration, c.Sessions.LongBreak.String())
	}

	if c.Sessions.LongBreakInterval != 0 {
		v.Set(keyLongBreakInterval, c.Sessions.LongBreakInterval)
	}
}

func loadViperConfig(v *viper.Viper, c *Config) error {
	durations := map[string]*time.Duration{
		keyWorkDuration:       &c.Sessions.WorkDuration,
		keyShortBreakDuration: &c.Sessions.ShortBreak,
		keyLongBreakDuration:  &c.Sessions.LongBreak,
	}

	for key, dst := range durations {
		dur, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return errInvalidDuration.Fmt(key, v.GetString(key))
		}

		*dst = dur
	}

	c.Sessions.LongBreakInterval = v.GetInt(keyLongBreakInterval)
	c.Sessions.AutoStartBreak = v.GetBool(keyAutoStartBreak)
	c.Notification.Enabled = v.GetBool(keyNotifyEnabled)
	c.Notification.Sound = v.GetString(keyNotifySound)
	c.System.SessionCmd = v.GetString(keySessionCmd)
	c.Display.TwentyFourHour = v.GetBool(keyTwentyFourHour)
	c.Display.DarkTheme = v.GetBool(keyDarkTheme)
	c.Backend.APIURL = v.GetString(keyAPIURL)
	c.Backend.LeaderboardOptIn = v.GetBool(keyLeaderboardOptIn)

	return validate(c)
}

func validate(c *Config) error {
	if c.Sessions.WorkDuration <= 0 {
		return errInvalidDuration.Fmt(keyWorkDuration, c.Sessions.WorkDuration)
	}

	if c.Sessions.ShortBreak >= c.Sessions.WorkDuration {
		return errShortBreakTooLong.Fmt(
			c.Sessions.ShortBreak,
			c.Sessions.WorkDuration,
		)
	}

	if c.Sessions.LongBreak <= c.Sessions.ShortBreak {
		return errLongBreakTooShort.Fmt(
			c.Sessions.LongBreak,
			c.Sessions.ShortBreak,
		)
	}

	return nil
}
