package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/Squad-Command/internal/config"
	"github.com/Garsondee/Squad-Command/internal/game"
	"github.com/Garsondee/Squad-Command/internal/logging"
)

// job is one (preset, map) pairing to play.
type job struct {
	index  int
	preset config.Preset
	mapRef string
}

type runStats struct {
	runIndex int
	preset   string
	mapRef   string
	summary  game.MatchSummary
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		logging.Log.WithError(err).Error("Headless report failed.")
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	logging.Init()

	fs := pflag.NewFlagSet("headless-report", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfgFile, _ := fs.GetString("config")

	settings, err := config.LoadSettings(cfgFile, fs)
	if err != nil {
		return err
	}
	logging.Log = logging.New(settings.LogLevel, settings.LogFormat, os.Stderr)

	presets, err := config.LoadPresets(settings.PresetsFile)
	if err != nil {
		return err
	}
	jobs, err := buildJobs(presets, settings)
	if err != nil {
		return err
	}

	all, err := playAll(context.Background(), jobs, settings, logging.Log)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== Headless Match Report ===\n")
	fmt.Fprintf(&b, "presets=%s maps=%s max_ticks=%d stalemate_ticks=%d\n\n",
		strings.Join(settings.Presets, ","), strings.Join(settings.Maps, ","), settings.MaxTicks, settings.StalemateTicks)
	for _, rs := range all {
		printRun(&b, rs)
	}
	printAggregate(&b, all)

	report := b.String()
	if _, err := io.WriteString(out, report); err != nil {
		return err
	}
	if settings.Copy {
		if err := clipboard.WriteAll(report); err != nil {
			logging.Log.WithError(err).Warn("Could not copy report to clipboard.")
		} else {
			logging.Log.Info("Report copied to clipboard.")
		}
	}
	return nil
}

// buildJobs expands presets × maps in settings order.
func buildJobs(presets *config.Presets, s config.Settings) ([]job, error) {
	var jobs []job
	for _, name := range s.Presets {
		p, err := presets.Lookup(name)
		if err != nil {
			return nil, err
		}
		for _, m := range s.Maps {
			jobs = append(jobs, job{index: len(jobs), preset: p, mapRef: m})
		}
	}
	return jobs, nil
}

// playAll runs every job with at most s.Workers matches in flight. Results
// keep job order.
func playAll(ctx context.Context, jobs []job, s config.Settings, log logrus.FieldLogger) ([]runStats, error) {
	results := make([]runStats, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers)
	for _, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rs, err := playMatch(j, s, log)
			if err != nil {
				return fmt.Errorf("run %d (%s on %s): %w", j.index+1, j.preset.Name, j.mapRef, err)
			}
			results[j.index] = rs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func playMatch(j job, s config.Settings, log logrus.FieldLogger) (runStats, error) {
	runLog := log.WithFields(logrus.Fields{"preset": j.preset.Name, "map": j.mapRef})
	grid := game.ResolveGrid(j.mapRef, runLog)

	opts := []game.MatchOption{
		game.WithRules(s.Rules()),
		game.WithLogger(runLog),
		game.WithDiagnosticCadence(s.DiagEvery),
	}
	opts = append(opts, j.preset.MatchOptions()...)
	m, err := game.NewMatch(grid, opts...)
	if err != nil {
		return runStats{}, err
	}
	m.RunToEnd()
	return runStats{
		runIndex: j.index + 1,
		preset:   j.preset.Name,
		mapRef:   j.mapRef,
		summary:  m.Summary(),
	}, nil
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (preset=%s map=%s) ---\n", rs.runIndex, rs.preset, rs.mapRef)
	fmt.Fprint(w, game.FormatReport(rs.summary))
	fmt.Fprintln(w)
}

func printAggregate(w io.Writer, all []runStats) {
	outcomes := map[string]int{}
	reasons := map[string]int{}
	totalTicks := 0
	var fireTicks, deathTicks []int
	totalShots, totalGrenades, totalHeals, totalRevives, totalResupplies := 0, 0, 0, 0, 0

	for _, rs := range all {
		s := rs.summary
		outcomes[s.Outcome.Outcome.String()]++
		reasons[s.Outcome.Reason.String()]++
		totalTicks += s.Ticks
		if s.FirstFireTick >= 0 {
			fireTicks = append(fireTicks, s.FirstFireTick)
		}
		if s.FirstDeathTick >= 0 {
			deathTicks = append(deathTicks, s.FirstDeathTick)
		}
		for _, sq := range []game.SquadReport{s.Red, s.Blue} {
			totalShots += sq.Shots
			totalGrenades += sq.Grenades
			totalHeals += sq.Heals
			totalRevives += sq.Revives
			totalResupplies += sq.Resupplies
		}
	}

	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d avg_ticks=%.1f\n", len(all), avg(totalTicks, len(all)))
	fmt.Fprintf(w, "outcomes: %s\n", formatCounts(outcomes))
	fmt.Fprintf(w, "reasons: %s\n", formatCounts(reasons))
	fmt.Fprintf(w, "phase_marker_avg_ticks: first_fire=%s first_death=%s\n",
		avgTickString(fireTicks), avgTickString(deathTicks))
	fmt.Fprintf(w, "avg_events_per_run: shots=%.1f grenades=%.1f heals=%.1f revives=%.1f resupplies=%.1f\n",
		avg(totalShots, len(all)), avg(totalGrenades, len(all)), avg(totalHeals, len(all)),
		avg(totalRevives, len(all)), avg(totalResupplies, len(all)))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}
