package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/touchline/internal/analytics"
	"github.com/yourusername/touchline/internal/datasource"
)

const dateLayout = "2006-01-02"

var (
	seasonFlag int
	teamFlag   string
	asOfFlag   string
	formGames  int
	lookback   int
	topFlag    int
)

func init() {
	for _, cmd := range []*cobra.Command{tableCmd, formCmd, momentumCmd, recordCmd} {
		cmd.Flags().IntVarP(&seasonFlag, "season", "s", 0, "Season start year, e.g. 2023 for 2023-24")
		_ = cmd.MarkFlagRequired("season")
	}
	for _, cmd := range []*cobra.Command{formCmd, momentumCmd, recordCmd} {
		cmd.Flags().StringVarP(&teamFlag, "team", "t", "", "Team name")
		_ = cmd.MarkFlagRequired("team")
	}
	for _, cmd := range []*cobra.Command{formCmd, momentumCmd} {
		cmd.Flags().StringVar(&asOfFlag, "as-of", "", "Only count matches before this date (YYYY-MM-DD)")
	}
	formCmd.Flags().IntVarP(&formGames, "games", "g", 5, "Number of recent games")
	momentumCmd.Flags().IntVarP(&lookback, "lookback", "n", 10, "Number of recent games")
	tableCmd.Flags().IntVar(&topFlag, "top", 0, "Only print the first N rows")
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the league table derived from a season's results",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := analytics.NewCalculator(source).LeagueTable(cmd.Context(), seasonFlag)
		if err != nil {
			return err
		}

		n := table.Len()
		if topFlag > 0 && topFlag < n {
			n = topFlag
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Pos\tTeam\tP\tW\tD\tL\tGF\tGA\tGD\tPts")
		for _, row := range table.Top(n) {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%+d\t%d\n",
				row.Rank, row.Team, row.Played, row.Wins, row.Draws, row.Losses,
				row.GoalsFor, row.GoalsAgainst, row.GoalDifference, row.Points)
		}
		return w.Flush()
	},
}

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Show a team's recent form",
	RunE: func(cmd *cobra.Command, args []string) error {
		asOf, err := parseAsOf(asOfFlag)
		if err != nil {
			return err
		}
		snap, err := analytics.NewCalculator(source).Form(cmd.Context(), datasource.NormalizeTeamName(teamFlag), seasonFlag, asOf, formGames)
		if err != nil {
			return err
		}

		fmt.Printf("%s form over last %d of %d games: %dW %dD %dL, %d pts\n",
			snap.Team, snap.FormGames, snap.GamesPlayed, snap.Wins, snap.Draws, snap.Losses, snap.Points)
		fmt.Printf("Form score: %.3f (%s)\n", snap.FormScore, analytics.ClassifyForm(snap.FormScore))
		return nil
	},
}

var momentumCmd = &cobra.Command{
	Use:   "momentum",
	Short: "Show a team's current streak and momentum score",
	RunE: func(cmd *cobra.Command, args []string) error {
		asOf, err := parseAsOf(asOfFlag)
		if err != nil {
			return err
		}
		snap, err := analytics.NewCalculator(source).Momentum(cmd.Context(), datasource.NormalizeTeamName(teamFlag), seasonFlag, asOf, lookback)
		if err != nil {
			return err
		}

		results := make([]string, len(snap.RecentResults))
		for i, o := range snap.RecentResults {
			results[i] = string(o)
		}
		fmt.Printf("%s momentum over %d games: %d game %s streak\n",
			snap.Team, snap.GamesPlayed, snap.CurrentStreak, snap.StreakType)
		fmt.Printf("Recent results: %s\n", strings.Join(results, " "))
		fmt.Printf("Momentum score: %.3f (%s)\n", snap.MomentumScore, analytics.ClassifyMomentum(snap.MomentumScore))
		return nil
	},
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Show a team's home and away record",
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := analytics.NewCalculator(source).TeamRecord(cmd.Context(), datasource.NormalizeTeamName(teamFlag), seasonFlag)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "%s\tP\tW\tD\tL\tPts\tWin%%\n", rec.Team)
		fmt.Fprintf(w, "Home\t%d\t%d\t%d\t%d\t%d\t%.1f\n",
			rec.Home.Games, rec.Home.Wins, rec.Home.Draws, rec.Home.Losses, rec.Home.Points, rec.Home.WinRate*100)
		fmt.Fprintf(w, "Away\t%d\t%d\t%d\t%d\t%d\t%.1f\n",
			rec.Away.Games, rec.Away.Wins, rec.Away.Draws, rec.Away.Losses, rec.Away.Points, rec.Away.WinRate*100)
		return w.Flush()
	},
}

// parseAsOf reads a YYYY-MM-DD cut-off; empty means now
func parseAsOf(value string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return t, nil
}
