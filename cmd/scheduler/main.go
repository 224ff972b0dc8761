// The scheduler is a read-only companion process: it reports on upcoming and
// missed installments from the persisted snapshot but never mutates statuses.
// Overdue due installments deliberately stay due until an operator acts.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/weeklypay/ledger-engine/internal/config"
	"github.com/weeklypay/ledger-engine/internal/domain"
	"github.com/weeklypay/ledger-engine/internal/storage"
	"github.com/weeklypay/ledger-engine/pkg/dateutil"
)

func main() {
	_ = godotenv.Load()

	log.Println("Starting ledger scheduler...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, cleanup, err := initStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize snapshot store: %v", err)
	}
	defer cleanup()

	c := cron.New(cron.WithSeconds(), cron.WithLocation(cfg.GetSchedulerLocation()))

	setupCronJobs(c, cfg, store)

	c.Start()
	log.Println("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

func initStore(cfg *config.Config) (storage.SnapshotStore, func(), error) {
	if cfg.Storage.Driver == "postgres" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewPostgresStore(db), func() { db.Close() }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return storage.NewRedisStore(client, cfg.Redis.LedgerKey), func() { client.Close() }, nil
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, store storage.SnapshotStore) {
	// Daily reminder feed of installments coming due (runs at 8 AM)
	_, err := c.AddFunc("0 0 8 * * *", func() {
		log.Println("Running daily payment reminder job...")
		logUpcomingInstallments(store, cfg.Scheduler.ReminderLeadDays)
	})
	if err != nil {
		log.Printf("Error scheduling payment reminder job: %v", err)
	}

	// Weekly missed-installment summary (runs on Mondays at 9 AM)
	_, err = c.AddFunc("0 0 9 * * MON", func() {
		log.Println("Running weekly missed installment summary job...")
		logMissedSummary(store)
	})
	if err != nil {
		log.Printf("Error scheduling missed summary job: %v", err)
	}

	log.Println("Cron jobs scheduled successfully")
}

func logUpcomingInstallments(store storage.SnapshotStore, leadDays int) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snapshot, err := store.LoadAll(ctx)
	if err != nil {
		log.Printf("Error loading ledger snapshot: %v", err)
		return
	}

	today := dateutil.DateOnly(time.Now())
	horizon := today.AddDate(0, 0, leadDays)

	count := 0
	for _, b := range snapshot {
		for _, inst := range b.Installments {
			if inst.Status != domain.InstallmentStatusDue {
				continue
			}
			if inst.DueDate.Before(today) || inst.DueDate.After(horizon) {
				continue
			}
			count++
			log.Printf("reminder: %s (%s) week %d due %s, amount %s",
				b.Name, b.Phone, inst.WeekNumber, inst.DueDate.Format(time.DateOnly), inst.Amount)
		}
	}
	log.Printf("reminder job done: %d installments due within %d days", count, leadDays)
}

func logMissedSummary(store storage.SnapshotStore) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snapshot, err := store.LoadAll(ctx)
	if err != nil {
		log.Printf("Error loading ledger snapshot: %v", err)
		return
	}

	total := 0
	for _, b := range snapshot {
		missed := 0
		for _, inst := range b.Installments {
			if inst.Status == domain.InstallmentStatusMissed {
				missed++
			}
		}
		if missed > 0 {
			total += missed
			log.Printf("missed summary: %s (%s) has %d missed installments, outstanding %s",
				b.Name, b.Phone, missed, b.OutstandingAmount())
		}
	}
	log.Printf("missed summary job done: %d missed installments across %d borrowers", total, len(snapshot))
}
