package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/csheth/paperpin/internal/app"
	"github.com/csheth/paperpin/internal/item"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Print live suggestions for the persisted builder",
	Long: `Suggest resolves the last builder item into keywords and ranks the corpus
against them, leaving out every saved and builder paper.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		a, closeStore, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		out := cmd.OutOrStdout()
		suggestions := a.Suggestions()
		if asJSON {
			records := make([]paperRecord, 0, len(suggestions))
			for _, p := range suggestions {
				records = append(records, paperRecord{ID: p.ID, Title: p.Title})
			}
			return writeJSON(out, records)
		}
		if !a.HasSuggestionContext() {
			fmt.Fprintln(out, "Not enough context for suggestions.")
			return nil
		}
		if len(suggestions) == 0 {
			fmt.Fprintln(out, "No new suggestions found.")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, p := range suggestions {
			fmt.Fprintf(tw, "%s\t%s\n", p.ID, p.Title)
		}
		return tw.Flush()
	},
}

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List saved items and the builder",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeStore, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Saved (%d)\n", len(a.Saved()))
		for _, e := range a.SavedEntries() {
			fmt.Fprintln(out, "  "+describeEntry(e))
		}
		fmt.Fprintf(out, "Builder (%d)\n", len(a.Builder()))
		for i, e := range a.BuilderEntries() {
			fmt.Fprintf(out, "  %d. %s\n", i+1, describeEntry(e))
		}
		return nil
	},
}

type paperRecord struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func init() {
	suggestCmd.Flags().Bool("json", false, "output suggestions as JSON")

	rootCmd.AddCommand(suggestCmd, savedCmd)
}

// openApp loads the corpus and the persisted collections. The returned func
// closes the store.
func openApp(cmd *cobra.Command) (*app.App, func(), error) {
	idx, err := loadCorpus()
	if err != nil {
		return nil, nil, err
	}
	gw, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	a := app.Open(idx, gw, settings.AppOptions(seed(cmd)))
	return a, func() { _ = gw.Close() }, nil
}

func describeEntry(e app.Entry) string {
	if p, ok := e.Item.(item.Passage); ok {
		return fmt.Sprintf("[passage] %s: %q", e.Paper.ID, p.Text)
	}
	return fmt.Sprintf("[paper] %s: %s", e.Paper.ID, e.Paper.Title)
}
