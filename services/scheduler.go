package services

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/models"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/utils"
)

// Scheduler runs the housekeeping jobs: the revoked-token sweep on a cron
// spec and the end-of-day sales summary once a day.
type Scheduler struct {
	DB *gorm.DB

	sweep *cron.Cron
	daily gocron.Scheduler
}

func NewScheduler(db *gorm.DB) *Scheduler {
	return &Scheduler{DB: db}
}

// Start schedules the sweep with sweepSpec (robfig cron syntax, "@every 15m"
// works) and the daily summary at reportAt ("HH:MM", local time).
func (s *Scheduler) Start(sweepSpec, reportAt string) error {
	hour, minute, err := parseClock(reportAt)
	if err != nil {
		return err
	}

	s.sweep = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))
	if _, err := s.sweep.AddFunc(sweepSpec, s.pruneTokens); err != nil {
		return fmt.Errorf("token sweep %q: %w", sweepSpec, err)
	}

	daily, err := gocron.NewScheduler(gocron.WithLocation(time.Local))
	if err != nil {
		return err
	}
	_, err = daily.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(hour, minute, 0))),
		gocron.NewTask(func() { s.DailySummary(time.Now()) }),
	)
	if err != nil {
		return fmt.Errorf("daily summary: %w", err)
	}
	s.daily = daily

	s.sweep.Start()
	s.daily.Start()
	utils.InfoLogger.WithFields(logrus.Fields{"sweep": sweepSpec, "report_at": reportAt}).Info("scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	if s.sweep != nil {
		<-s.sweep.Stop().Done()
	}
	if s.daily != nil {
		if err := s.daily.Shutdown(); err != nil {
			utils.ErrorLogger.WithError(err).Error("stop daily scheduler")
		}
	}
}

func (s *Scheduler) pruneTokens() {
	if n := utils.PruneBlacklist(time.Now()); n > 0 {
		utils.InfoLogger.WithField("tokens", n).Info("expired revoked tokens pruned")
	}
}

// Summary is the day's close-out.
type Summary struct {
	Day     string  `json:"day"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
	Open    int64   `json:"still_open"`
}

// DailySummary logs the orders closed on the day before now and the orders
// still open.
func (s *Scheduler) DailySummary(now time.Time) (Summary, error) {
	y, m, d := now.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	start := end.AddDate(0, 0, -1)
	sum := Summary{Day: start.Format("2006-01-02")}

	closed := s.DB.Model(&models.Order{}).Where("status = ? AND closed_at >= ? AND closed_at < ?", models.OrderClosed, start, end)
	if err := closed.Count(&sum.Orders).Error; err != nil {
		utils.ErrorLogger.WithError(err).Error("daily summary")
		return sum, err
	}
	if err := s.DB.Model(&models.Order{}).
		Where("status = ? AND closed_at >= ? AND closed_at < ?", models.OrderClosed, start, end).
		Select("COALESCE(SUM(total), 0)").Row().Scan(&sum.Revenue); err != nil {
		utils.ErrorLogger.WithError(err).Error("daily summary")
		return sum, err
	}
	if err := s.DB.Model(&models.Order{}).Where("status <> ?", models.OrderClosed).Count(&sum.Open).Error; err != nil {
		utils.ErrorLogger.WithError(err).Error("daily summary")
		return sum, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"day":        sum.Day,
		"orders":     sum.Orders,
		"revenue":    utils.FormatAmount(sum.Revenue),
		"still_open": sum.Open,
	}).Info("daily summary")
	return sum, nil
}

func parseClock(v string) (uint, uint, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q, want HH:MM", v)
	}
	return uint(t.Hour()), uint(t.Minute()), nil
}
