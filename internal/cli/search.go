// internal/cli/search.go
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/law-makers/localevents/internal/aggregate"
	"github.com/law-makers/localevents/internal/app"
	"github.com/law-makers/localevents/internal/finder"
	"github.com/law-makers/localevents/internal/ui"
	"github.com/law-makers/localevents/internal/utils/output"
)

var (
	searchDate string
	outputPath string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <location>",
	Short: "Find events in a city, optionally on one date",
	Long: `Queries every enabled source for events in the given location. When the
sources know nothing about the name as typed, common spellings are tried
(lowercase, hyphenated, without spaces, before the first comma).

With --date only events on that day are listed. If none match, all upcoming
events are shown instead. Dates more than 90 days ahead are rejected.`,
	Example: `  # All upcoming events
  localevents search Pune

  # Events on one day, multi-word cities need no quotes
  localevents search New Delhi --date 2025-05-10

  # Export to Markdown
  localevents search Mumbai --output events.md

  # Render listing pages in headless Chrome, 4 sources at once
  localevents search Bangalore --mode spa --concurrency 4`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&searchDate, "date", "d", "", "Only events on this date (YYYY-MM-DD)")
	searchCmd.Flags().StringVarP(&outputPath, "output", "o", "", "File path to save results (supports .json, .csv, .html, .md)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a := GetApp(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	location := strings.TrimSpace(strings.Join(args, " "))
	if location == "" {
		return fmt.Errorf("location must not be empty")
	}

	now := time.Now()
	if err := finder.CheckHorizon(searchDate, now); err != nil {
		return err
	}

	bar := newProgress(a, len(a.Sources)*len(aggregate.CityVariants(location)))
	f := a.NewFinder(func(source string, fragments int, err error) {
		bar.Describe(source)
		_ = bar.Add(1)
	})

	res := f.Search(cmd.Context(), finder.Query{Location: location, Date: searchDate})
	_ = bar.Finish()

	if res.Err != nil {
		return res.Err
	}

	report := &output.Report{
		Location:    res.Location,
		City:        res.City,
		Date:        res.Date,
		FellBack:    res.FellBack,
		GeneratedAt: now,
		Events:      res.Events,
	}

	if outputPath != "" {
		if err := output.Save(report, outputPath); err != nil {
			return fmt.Errorf("failed to save output: %w", err)
		}
		log.Info().Str("file", outputPath).Int("events", len(res.Events)).Msg("Output saved")
		if !a.Config.JSONLog {
			fmt.Fprintf(os.Stderr, "%s Saved %d event(s) to %s\n", ui.Success("✓"), len(res.Events), outputPath)
		}
	}

	if a.Config.JSONLog {
		return output.WriteJSON(cmd.OutOrStdout(), report)
	}

	printResult(cmd.OutOrStdout(), res, now)
	return nil
}

func printResult(w io.Writer, res *finder.Result, now time.Time) {
	if len(res.Events) == 0 {
		fmt.Fprintln(w, ui.Warn(finder.NoEventsMessage(res.Location, res.Date, now)))
		for _, s := range finder.Suggestions {
			fmt.Fprintf(w, "  %s %s\n", ui.Dim("-"), s)
		}
		return
	}

	if res.FellBack {
		fmt.Fprintln(w, ui.Info(fmt.Sprintf("No events found on %s. Showing all upcoming events.", res.Date)))
	}
	where := res.Location
	if !strings.EqualFold(res.City, res.Location) {
		where = fmt.Sprintf("%s (as %q)", res.Location, res.City)
	}
	fmt.Fprintf(w, "\n%s %s\n\n", ui.Bold(fmt.Sprintf("Found %d event(s) in", len(res.Events))), where)
	ui.PrintEvents(w, res.Events)
}

// newProgress draws a bar over source lookups on an interactive stderr.
// total is an upper bound; Finish completes the bar when spellings stop early.
func newProgress(a *app.Application, total int) *progressbar.ProgressBar {
	visible := !a.Config.JSONLog &&
		a.Config.LogLevel != "error" &&
		isatty.IsTerminal(os.Stderr.Fd())

	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetVisibility(visible),
		progressbar.OptionSetDescription("Searching"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
