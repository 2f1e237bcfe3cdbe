package main

import (
	"fmt"
	"strings"
	"time"

	"ReminderBot/internal/config"
	"ReminderBot/internal/logging"
	"ReminderBot/internal/storage"
	"ReminderBot/internal/timeparse"

	"github.com/spf13/cobra"
)

var (
	parseTZ      string
	parseNow     string
	parseVerbose bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <text...>",
	Short: "Resolve a Russian date/time expression and print the result",
	Example: `  reminderbot parse завтра в 18:00
  reminderbot parse --tz Asia/Novosibirsk --now "2025-06-10 14:00" в следующую пятницу`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseTZ, "tz", "", "IANA timezone (default from config)")
	parseCmd.Flags().StringVar(&parseNow, "now", "", `reference instant, "2006-01-02 15:04" or RFC3339`)
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "log which resolver matched")
}

func runParse(cmd *cobra.Command, args []string) error {
	tz := parseTZ
	if tz == "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		tz = cfg.TimeZone
	}
	loc, err := storage.ParseLocation(tz)
	if err != nil {
		return err
	}

	now := time.Now().In(loc)
	if parseNow != "" {
		if now, err = parseReference(parseNow, loc); err != nil {
			return err
		}
	}

	var opts []timeparse.Option
	if parseVerbose {
		log, err := logging.New(logging.Config{Level: "debug"})
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
		opts = append(opts, timeparse.WithLogger(log.Desugar()))
	}

	res, err := timeparse.New(opts...).Parse(strings.Join(args, " "), loc, now)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "time:     %s\n", res.Time.Format("02.01.2006 15:04 (Mon) MST"))
	fmt.Fprintf(out, "has_date: %t\n", res.HasDate)
	fmt.Fprintf(out, "has_time: %t\n", res.HasTime)
	return nil
}

func parseReference(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--now %q: want \"2006-01-02 15:04\" or RFC3339", s)
	}
	return t.In(loc), nil
}
