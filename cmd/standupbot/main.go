package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"standup-bot/internal/config"
	"standup-bot/internal/logger"
	"standup-bot/internal/repository"
	"standup-bot/internal/service"
	"standup-bot/internal/twilio"
	"standup-bot/internal/webhook"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		// No logger yet.
		_, _ = os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	db, err := repository.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatal("open database failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	entryRepo := repository.NewEntryRepository(db)

	statusCallback := strings.TrimSuffix(cfg.PublicBaseURL, "/") + "/standup/twilio-status"
	sender := twilio.NewSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.WhatsAppFrom, statusCallback, cfg.SendTimeout, log)

	var roster service.Roster
	if len(cfg.Roster) > 0 {
		roster = service.StaticRoster(cfg.Roster)
	} else {
		roster = service.NewEntryRoster(entryRepo)
	}

	standupSvc := service.NewStandupService(entryRepo, cfg.Location, log)
	notifySvc := service.NewNotifyService(entryRepo, roster, sender, cfg.Location, cfg.SendTimeout, log)
	purgeSvc := service.NewPurgeService(entryRepo, cfg.Location, cfg.RetentionDays, log)

	scheduler := service.NewSchedulerService(cfg.Location)
	jobs := []struct {
		name string
		hour int
		run  func(context.Context) error
	}{
		{"morning_checkin", cfg.MorningHour, notifySvc.MorningCheckin},
		{"evening_digest", cfg.EveningHour, notifySvc.EveningDigest},
		{"purge_old_entries", cfg.PurgeHour, func(ctx context.Context) error {
			_, err := purgeSvc.Purge(ctx)
			return err
		}},
	}
	for _, job := range jobs {
		name, run := job.name, job.run
		if _, err := scheduler.ScheduleDailyHour(job.hour, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			if err := run(jobCtx); err != nil {
				log.Error("job failed", zap.String("job", name), zap.Error(err))
			}
		}); err != nil {
			log.Fatal("schedule job failed", zap.String("job", name), zap.Error(err))
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	validator := twilio.NewValidator(cfg.TwilioAuthToken)
	handler := webhook.NewHandler(standupSvc, validator, cfg.PublicBaseURL, log)
	srv := webhook.NewServer(cfg.HTTPAddr, handler)

	go func() {
		log.Info("standup bot listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		log.Warn("http server shutdown error", zap.Error(err))
	}
	log.Info("shutdown complete")
}
