// internal/cli/sources.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/law-makers/localevents/internal/sources"
	"github.com/law-makers/localevents/internal/ui"
	"github.com/law-makers/localevents/internal/utils/output"
)

// sourcesCmd lists the configured sources
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List enabled sources in priority order",
	Long: `Shows the sources a search queries, in the order their events are listed,
with the listing URL pattern and CSS selectors of each HTML site.`,
	Example: `  # Show the built-in sources
  localevents sources

  # Check selector overrides from a config file
  localevents sources --config localevents.yaml --json`,
	Args: cobra.NoArgs,
	RunE: runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

type sourceInfo struct {
	Name      string             `json:"name"`
	URL       string             `json:"url"`
	Selectors *sources.Selectors `json:"selectors,omitempty"`
}

func runSources(cmd *cobra.Command, args []string) error {
	a := GetApp(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	var infos []sourceInfo
	for _, src := range a.Sources {
		info := sourceInfo{Name: src.Name()}
		switch s := src.(type) {
		case *sources.HTMLSource:
			site := s.Site()
			info.URL = strings.TrimRight(site.BaseURL, "/") + site.PathTemplate
			info.Selectors = &site.Selectors
		case *sources.MeetupSource:
			info.URL = a.Config.Meetup.BaseURL
		}
		infos = append(infos, info)
	}

	if a.Config.JSONLog {
		return output.WriteJSON(cmd.OutOrStdout(), infos)
	}

	w := cmd.OutOrStdout()
	for i, info := range infos {
		fmt.Fprintf(w, "%s %s  %s\n", ui.Dim(fmt.Sprintf("%d.", i+1)), ui.Bold(info.Name), ui.Link(info.URL))
		if sel := info.Selectors; sel != nil {
			fmt.Fprintf(w, "   %s %s\n", ui.Dim("card: "), sel.Card)
			fmt.Fprintf(w, "   %s %s\n", ui.Dim("title:"), sel.Title)
			if sel.Date != "" {
				fmt.Fprintf(w, "   %s %s\n", ui.Dim("date: "), sel.Date)
			}
			if sel.Venue != "" {
				fmt.Fprintf(w, "   %s %s\n", ui.Dim("venue:"), sel.Venue)
			}
		}
	}
	fmt.Fprintf(w, "\n%s\n", ui.Dim(fmt.Sprintf("%d source(s), mode %s", len(infos), a.Config.Mode)))
	return nil
}
