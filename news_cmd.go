package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hyaochen/echolingo-lab/internal/news"
)

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Print today's headlines",
	Long:  paragraph("\nFetch the configured feeds and print the headlines. Inside the console the news screen can also import stories as study items."),
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		fetcher := news.NewFetcher(news.Config{Feeds: feeds, Limit: newsLimit})
		articles, err := fetcher.Fetch(context.Background())
		if err != nil {
			return fmt.Errorf("unable to fetch feeds: %w", err)
		}

		var b strings.Builder
		b.WriteString("# Today's stories\n")
		for _, a := range articles {
			fmt.Fprintf(&b, "\n## %s\n\n", a.Title)
			meta := a.Source
			if !a.Published.IsZero() {
				meta += " · " + a.Published.Format("Mon, 02 Jan 2006 15:04")
			}
			fmt.Fprintf(&b, "*%s*\n\n", meta)
			if a.Summary != "" {
				b.WriteString(a.Summary + "\n\n")
			}
			if a.Link != "" {
				fmt.Fprintf(&b, "<%s>\n", a.Link)
			}
		}

		// Plain markdown when piped.
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Print(b.String())
			return nil
		}

		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(int(width)), //nolint:gosec
		)
		if err != nil {
			return fmt.Errorf("unable to create renderer: %w", err)
		}
		out, err := r.Render(b.String())
		if err != nil {
			return fmt.Errorf("unable to render markdown: %w", err)
		}
		fmt.Print(out)
		return nil
	},
}
