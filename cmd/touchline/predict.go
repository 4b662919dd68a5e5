package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yourusername/touchline/internal/advisor"
	"github.com/yourusername/touchline/internal/datasource"
	"github.com/yourusername/touchline/internal/models"
)

var (
	modeFlag      string
	predictSeason int
	predictAsOf   string
	jsonFlag      bool
)

func init() {
	predictCmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Advisor: weighted or waterfall (defaults to advisor.mode)")
	predictCmd.Flags().IntVarP(&predictSeason, "season", "s", 0, "Season of the fixtures feed")
	predictCmd.Flags().StringVar(&predictAsOf, "as-of", "", "Treat fixtures after this date as upcoming (YYYY-MM-DD)")
	predictCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the prediction as JSON")
	_ = predictCmd.MarkFlagRequired("season")
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Recommend bets for the next round of fixtures",
	RunE: func(cmd *cobra.Command, args []string) error {
		asOf, err := parseAsOf(predictAsOf)
		if err != nil {
			return err
		}

		advisorCfg := cfg.Advisor
		if modeFlag != "" {
			advisorCfg.Mode = modeFlag
		}
		adv, err := advisor.New(advisorCfg, advisor.Deps{Source: source, Logger: appLog})
		if err != nil {
			return err
		}
		fixtures, err := datasource.NewFixtureSource(cfg.Data.Dir, cfg.Data.League)
		if err != nil {
			return err
		}
		predictor, err := advisor.NewNextRoundPredictor(fixtures, adv, cfg.Data.League, appLog)
		if err != nil {
			return err
		}

		prediction, err := predictor.Predict(cmd.Context(), predictSeason, asOf)
		if err != nil {
			return err
		}

		if jsonFlag {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(prediction)
		}
		return printPrediction(prediction)
	},
}

func printPrediction(p *models.RoundPrediction) error {
	fmt.Printf("%s round %d (%s advisor)\n", p.League, p.Round, p.Advisor)
	if !p.Summary.RoundDate.IsZero() {
		fmt.Printf("Starts %s\n", p.Summary.RoundDate.Format(dateLayout))
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Date\tHome\tAway\tBet\tStrategy\tConfidence\tReason")
	for _, r := range p.Recommendations {
		date := "-"
		if !r.Date.IsZero() {
			date = r.Date.Format(dateLayout)
		}
		bet, strategyName, confidence := "-", "-", "-"
		if r.HasBet() {
			bet = *r.RecommendedTeam
			if r.BetType != "" {
				bet = fmt.Sprintf("%s (%s)", bet, r.BetType)
			}
			strategyName = r.Strategy
			confidence = fmt.Sprintf("%.2f", r.Confidence)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", date, r.HomeTeam, r.AwayTeam, bet, strategyName, confidence, r.Reason)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d of %d games have a recommendation", p.Summary.BettingOpportunities, p.Summary.TotalGames)
	if p.Summary.BettingOpportunities > 0 {
		fmt.Printf(", average confidence %.2f", p.Summary.AverageConfidence)
	}
	fmt.Println()
	return nil
}
