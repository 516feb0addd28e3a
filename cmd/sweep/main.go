package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/osahq/conduct/internal/bootstrap"
	"github.com/osahq/conduct/internal/config"
	"github.com/osahq/conduct/internal/db"
	"github.com/osahq/conduct/internal/pkg/logger"
)

// One-shot runner for the periodic sweeps, meant for cron or manual use.
// The API server runs the same sweeps on its own schedule; this command
// exists for deployments that prefer an external scheduler and for
// inspecting what a sweep would do before letting it write.
func main() {
	configPath := flag.String("config", filepath.Join("configs", "config.yaml"), "path to the configuration file")
	dryRun := flag.Bool("dry-run", false, "show what would change without making changes")
	meetingsOnly := flag.Bool("meetings-only", false, "only expire overdue scheduled meetings")
	promotionsOnly := flag.Bool("promotions-only", false, "only promote students past the year level window")
	flag.Parse()

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	// Connect directly: a scheduled job should not run migrations or seeds.
	dbPool, err := db.NewPostgresPool(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		os.Exit(1)
	}
	defer dbPool.Close()

	deps, err := bootstrap.BuildDependencies(cfg, dbPool, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to build dependencies")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now()
	exitCode := 0

	if !*promotionsOnly {
		if err := sweepMeetings(ctx, cfg, deps, now, *dryRun); err != nil {
			lgr.Error().Err(err).Msg("Meeting sweep failed")
			exitCode = 1
		}
	}
	if !*meetingsOnly {
		if err := sweepPromotions(ctx, cfg, deps, now, *dryRun); err != nil {
			lgr.Error().Err(err).Msg("Promotion sweep failed")
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func sweepMeetings(ctx context.Context, cfg *config.Config, deps *bootstrap.Dependencies, now time.Time, dryRun bool) error {
	if dryRun {
		alerts, err := deps.Repos.AlertRepository.ListExpiredMeetings(ctx, now)
		if err != nil {
			return err
		}
		for _, alert := range alerts {
			scheduled := "unknown"
			if alert.ScheduledMeetingAt != nil {
				scheduled = alert.ScheduledMeetingAt.Format(time.RFC3339)
			}
			fmt.Printf("[DRY-RUN] Would expire meeting for alert #%d (student #%d, scheduled %s) and notify\n",
				alert.ID, alert.StudentID, scheduled)
		}
		fmt.Printf("[DRY-RUN] %d meeting(s) would be expired\n", len(alerts))
		return nil
	}

	expired, err := deps.Services.AlertService.SweepExpiredMeetings(ctx, now)
	if err != nil {
		return err
	}
	fmt.Printf("Expired %d meeting(s)\n", expired)
	return nil
}

func sweepPromotions(ctx context.Context, cfg *config.Config, deps *bootstrap.Dependencies, now time.Time, dryRun bool) error {
	if dryRun {
		policyCfg, err := cfg.PolicyConfig()
		if err != nil {
			return err
		}
		students, err := deps.Repos.StudentRepository.ListPromotable(ctx, now.Add(-policyCfg.PromotionAfter))
		if err != nil {
			return err
		}
		wouldPromote, wouldGraduate := 0, 0
		for _, student := range students {
			if student.YearLevel < policyCfg.MaxYearLevel {
				fmt.Printf("[DRY-RUN] Would promote %s from Year %d to Year %d\n",
					student.StudentID, student.YearLevel, student.YearLevel+1)
				wouldPromote++
			} else {
				fmt.Printf("[DRY-RUN] Would graduate %s (completed Year %d)\n",
					student.StudentID, student.YearLevel)
				wouldGraduate++
			}
		}
		fmt.Printf("[DRY-RUN] %d student(s) would be promoted, %d would graduate\n", wouldPromote, wouldGraduate)
		return nil
	}

	promoted, graduated, err := deps.Services.StudentService.SweepPromotions(ctx, now)
	if err != nil {
		return err
	}
	fmt.Printf("Promoted %d student(s), graduated %d\n", promoted, graduated)
	return nil
}
