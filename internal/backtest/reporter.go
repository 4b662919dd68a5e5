package backtest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/yourusername/touchline/internal/models"
	"github.com/yourusername/touchline/internal/performance"
)

// Reporter renders backtest results for the terminal
type Reporter struct {
	out io.Writer
}

// NewReporter creates a reporter writing to out
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Summary prints the headline figures of report
func (r *Reporter) Summary(report *models.BacktestReport) error {
	var b strings.Builder
	m := report.Metrics
	risk := CalculateRisk(report)

	b.WriteString("Backtest Report\n")
	b.WriteString("================\n")
	fmt.Fprintf(&b, "Strategy: %s\n", report.Strategy)
	if report.League != "" {
		fmt.Fprintf(&b, "League: %s\n", report.League)
	}
	fmt.Fprintf(&b, "Seasons: %d-%d (%d tested, %d skipped)\n",
		report.StartSeason, report.EndSeason, len(report.SeasonResults), len(report.Skipped))
	b.WriteString("\n")
	writeMetricsLine(&b, "FOR", m.For)
	writeMetricsLine(&b, "AGAINST", m.Against)
	writeMetricsLine(&b, "Overall", m.Overall)
	fmt.Fprintf(&b, "\nProfit/Loss: %+.2f units\n", m.Overall.ProfitLoss)
	fmt.Fprintf(&b, "Profitable seasons: %d/%d (%.1f%%)\n",
		risk.ProfitableSeasons, risk.SeasonsTested, risk.ProfitableShare())
	fmt.Fprintf(&b, "Max drawdown: %.2f units\n", risk.MaxDrawdown)
	fmt.Fprintf(&b, "Profit factor: %.2f\n", risk.ProfitFactor)
	fmt.Fprintf(&b, "Longest losing streak: %d\n", risk.LongestLosingStreak)

	for _, s := range report.Skipped {
		fmt.Fprintf(&b, "Skipped %d (%s): %s\n", s.Season, s.Kind, s.Reason)
	}
	return r.write(b.String())
}

// YearlyTable prints one row per tested season
func (r *Reporter) YearlyTable(report *models.BacktestReport) error {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Season\tTop teams\tFOR Bets\tFOR WR\tFOR ROI\tBottom teams\tAGAINST Bets\tAGAINST WR\tAGAINST ROI\tTotal Bets\tOverall WR\tOverall ROI")
	for _, sr := range report.SeasonResults {
		m := sr.Metrics
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1f%%\t%+.1f%%\t%s\t%d\t%.1f%%\t%+.1f%%\t%d\t%.1f%%\t%+.1f%%\n",
			seasonLabel(sr.Season),
			teamList(sr.TopTeams),
			m.For.TotalBets, m.For.WinRate, m.For.ROI,
			teamList(sr.BottomTeams),
			m.Against.TotalBets, m.Against.WinRate, m.Against.ROI,
			m.Overall.TotalBets, m.Overall.WinRate, m.Overall.ROI,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return r.write(buf.String())
}

// TeamTable prints the per-team breakdown, most-bet teams first. A
// non-positive limit prints every team.
func (r *Reporter) TeamTable(report *models.BacktestReport, limit int) error {
	teams := performance.TeamBreakdown(report.BetDetails)
	if limit > 0 && len(teams) > limit {
		teams = teams[:limit]
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Team\tFOR Bets\tFOR WR\tFOR ROI\tAGAINST Bets\tAGAINST WR\tAGAINST ROI\tTotal")
	for _, t := range teams {
		fmt.Fprintf(w, "%s\t%d\t%.1f%%\t%+.1f%%\t%d\t%.1f%%\t%+.1f%%\t%d\n",
			t.Team, t.ForBets, t.ForWinRate, t.ForROI,
			t.AgainstBets, t.AgainstRate, t.AgainstROI, t.TotalBets)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return r.write(buf.String())
}

// Comparison prints a FOR-only versus enhanced comparison
func (r *Reporter) Comparison(cmp *models.StrategyComparison) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Top %d comparison\n", cmp.TopN)
	b.WriteString("==================\n")
	writeMetricsLine(&b, "FOR only", cmp.ForOnly.Metrics.Overall)
	writeMetricsLine(&b, "Enhanced", cmp.Enhanced.Metrics.Overall)
	d := cmp.Comparison
	fmt.Fprintf(&b, "\nAdditional bets: %+d\n", d.AdditionalBets)
	fmt.Fprintf(&b, "Win rate change: %+.2f pts\n", d.WinRateChange)
	fmt.Fprintf(&b, "ROI change: %+.2f pts\n", d.ROIChange)
	fmt.Fprintf(&b, "Profit change: %+.2f units\n", d.ProfitChange)
	return r.write(b.String())
}

// Sweep prints a Top-N sweep ordered by N
func (r *Reporter) Sweep(results map[string]*models.BacktestReport) error {
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return topNOf(keys[i]) < topNOf(keys[j]) })

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N\tBets\tWin Rate\tROI\tProfit")
	for _, k := range keys {
		o := results[k].Metrics.Overall
		fmt.Fprintf(w, "%d\t%d\t%.1f%%\t%+.1f%%\t%+.2f\n", topNOf(k), o.TotalBets, o.WinRate, o.ROI, o.ProfitLoss)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return r.write(buf.String())
}

// Ranking prints a RunAll ranking
func (r *Reporter) Ranking(ranked []RankedReport) error {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Rank\tStrategy\tSeasons\tBets\tWin Rate\tROI\tProfit")
	for _, rr := range ranked {
		o := rr.Report.Metrics.Overall
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%.1f%%\t%+.1f%%\t%+.2f\n",
			rr.Rank, rr.Report.Strategy, len(rr.Report.SeasonResults), o.TotalBets, o.WinRate, o.ROI, o.ProfitLoss)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return r.write(buf.String())
}

func (r *Reporter) write(s string) error {
	_, err := io.WriteString(r.out, s)
	return err
}

// ExportBetsCSV writes every bet of bets to path, one row per bet
func ExportBetsCSV(path string, bets []models.BetRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"season", "date", "home_team", "away_team", "bet_team", "direction", "bet_type", "odds", "stake", "actual_result", "bet_won", "winnings", "profit"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, b := range bets {
		row := []string{
			strconv.Itoa(b.Season),
			formatDate(b.Date),
			b.HomeTeam,
			b.AwayTeam,
			b.BetTeam,
			string(b.Direction),
			b.BetType,
			strconv.FormatFloat(b.Odds, 'f', 2, 64),
			strconv.FormatFloat(b.Stake, 'f', 2, 64),
			string(b.Result),
			strconv.FormatBool(b.Won),
			strconv.FormatFloat(b.Winnings, 'f', 2, 64),
			strconv.FormatFloat(b.Profit, 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// WriteJSON writes v to path as indented JSON
func WriteJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReportFilename names the files exported for report
func ReportFilename(report *models.BacktestReport, ext string) string {
	return fmt.Sprintf("%s_%d_%d_%s.%s",
		report.Kind, report.StartSeason, report.EndSeason, report.RunDate.Format("20060102T150405"), ext)
}

func writeMetricsLine(b *strings.Builder, label string, m models.PerformanceMetrics) {
	fmt.Fprintf(b, "%-9s bets=%d won=%d win_rate=%.2f%% roi=%+.2f%%\n",
		label+":", m.TotalBets, m.WinningBets, m.WinRate, m.ROI)
}

// seasonLabel renders 2015 as "2015-16"
func seasonLabel(season int) string {
	return fmt.Sprintf("%d-%02d", season, (season+1)%100)
}

func teamList(teams []string) string {
	if len(teams) == 0 {
		return "-"
	}
	return strings.Join(teams, ", ")
}

func topNOf(key string) int {
	n, _ := strconv.Atoi(strings.TrimPrefix(key, "n_"))
	return n
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
