package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/csheth/paperpin/internal/relevance"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank corpus papers against keywords",
	Long: `Rank scores every corpus paper against the keywords: one point per keyword
found in the title, abstract or tags, two per tag containing a keyword.
Unmatched papers fill the remaining slots using the configured fill policy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		keywords, _ := cmd.Flags().GetStringSlice("keywords")
		excludeIDs, _ := cmd.Flags().GetStringSlice("exclude")
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		idx, err := loadCorpus()
		if err != nil {
			return err
		}
		exclude := make(map[string]bool, len(excludeIDs))
		for _, id := range excludeIDs {
			exclude[id] = true
		}
		ranked := relevance.RankScored(keywords, exclude, idx.Papers(), limit, settings.FillPolicy(seed(cmd)))
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), rankedRecords(ranked))
		}
		return writeRanked(cmd.OutOrStdout(), ranked)
	},
}

func init() {
	rankCmd.Flags().StringSlice("keywords", nil, "keywords to score against (comma-separated)")
	rankCmd.Flags().StringSlice("exclude", nil, "paper ids to leave out (comma-separated)")
	rankCmd.Flags().Int("limit", 10, "maximum number of papers")
	rankCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(rankCmd)
}

type rankedRecord struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Score int    `json:"score"`
}

func rankedRecords(ranked []relevance.Scored) []rankedRecord {
	out := make([]rankedRecord, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, rankedRecord{ID: r.Paper.ID, Title: r.Paper.Title, Score: r.Score})
	}
	return out
}

func writeRanked(out io.Writer, ranked []relevance.Scored) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, r := range ranked {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Score, r.Paper.ID, r.Paper.Title)
	}
	return tw.Flush()
}
