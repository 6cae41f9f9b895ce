package config

import "github.com/focushub/focushub/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errInvalidDuration = &apperr.Error{
		Message: "invalid duration for %s: %v",
	}

	errShortBreakTooLong = &apperr.Error{
		Message: "short break duration (%v) must be less than work duration (%v)",
	}

	errLongBreakTooShort = &apperr.Error{
		Message: "long break duration (%v) must be greater than short break duration (%v)",
	}

	errParsingDate = &apperr.Error{
		Message: "the specified date format must be: YYYY-MM-DD or YYYY-MM-DD HH:MM:SS PM",
	}

	errInvalidDateRange = &apperr.Error{
		Message: "the end date must not be earlier than the start date",
	}
)
