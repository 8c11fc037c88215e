package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/events"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/logging"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
	"github.com/BruksfildServices01/barber-booking/internal/routes"
	"github.com/BruksfildServices01/barber-booking/internal/scheduler"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
	ucRecurring "github.com/BruksfildServices01/barber-booking/internal/usecase/recurring"
	ucWaitlist "github.com/BruksfildServices01/barber-booking/internal/usecase/waitlist"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logging.Bootstrap(os.Stderr)
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := logging.New(cfg)
	timezone.SetShop(cfg.ShopTimezone)

	if err := validators.Register(); err != nil {
		logger.Fatal().Err(err).Msg("failed to register validators")
	}

	db, err := dbpkg.NewDB(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var locker lock.Locker = lock.NewKeyedMutex()
	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable")
		}
		cancel()
		locker = lock.NewRedisLocker(redisClient, time.Duration(cfg.LockTTLSeconds)*time.Second, logger)
		logger.Info().Str("addr", cfg.RedisAddr).Msg("using redis locks")
	}

	var publisher events.Publisher = events.NewLogPublisher(logger)
	var kafkaPublisher *events.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		publisher = kafkaPublisher
	}

	var sender notify.Sender = notify.NewLogSender(logger)
	if cfg.SMTPEnabled() {
		sender = notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	}
	mailer := notify.NewDispatcher(sender, logger.With().Str("component", "notify").Logger())

	auditDispatcher := audit.NewDispatcher(audit.New(db), logger.With().Str("component", "audit").Logger(), m)

	bookingRepo := infraRepo.NewBookingGormRepository(db)
	recurringRepo := infraRepo.NewRecurringGormRepository(db)
	waitlistRepo := infraRepo.NewWaitlistGormRepository(db)

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	bookingDeps := ucBooking.Deps{
		Repo:     bookingRepo,
		Locker:   locker,
		Audit:    auditDispatcher,
		Notifier: mailer,
		Events:   publisher,
		Metrics:  m,
		Logger:   logger.With().Str("component", "booking").Logger(),
		Now:      timezone.Now,
	}
	createBooking := ucBooking.NewCreateBooking(bookingDeps)

	waitlistDeps := ucWaitlist.Deps{
		Repo:     waitlistRepo,
		Catalog:  bookingRepo,
		Bookings: createBooking,
		Locker:   locker,
		Audit:    auditDispatcher,
		Notifier: mailer,
		Events:   publisher,
		Metrics:  m,
		Logger:   logger.With().Str("component", "waitlist").Logger(),
		Now:      timezone.Now,
	}
	notifyWaitlist := ucWaitlist.NewNotifyWaitlist(waitlistDeps)
	waitlistCleanup := ucWaitlist.NewCleanup(waitlistDeps)

	recurringDeps := ucRecurring.Deps{
		Repo:     recurringRepo,
		Catalog:  bookingRepo,
		Bookings: createBooking,
		Locker:   locker,
		Audit:    auditDispatcher,
		Events:   publisher,
		Metrics:  m,
		Logger:   logger.With().Str("component", "recurring").Logger(),
		Now:      timezone.Now,
	}
	generateDue := ucRecurring.NewGenerateDueBookings(recurringDeps)

	// ======================================================
	// ⏰ CRON
	// ======================================================
	sched := scheduler.New(logger.With().Str("component", "scheduler").Logger(), timezone.Shop())
	if err := sched.Add("recurring-generate", cfg.RecurringCron, 5*time.Minute, func(ctx context.Context) error {
		_, err := generateDue.Execute(ctx)
		return err
	}); err != nil {
		logger.Fatal().Err(err).Msg("invalid cron spec")
	}
	if err := sched.Add("waitlist-cleanup", cfg.WaitlistCleanupCron, 5*time.Minute, func(ctx context.Context) error {
		_, err := waitlistCleanup.Execute(ctx)
		return err
	}); err != nil {
		logger.Fatal().Err(err).Msg("invalid cron spec")
	}
	sched.Start()

	// ======================================================
	// 🌐 HTTP
	// ======================================================
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:      db,
		Config:  cfg,
		Metrics: metrics.Handler(reg),
		Bookings: handlers.BookingUseCases{
			Create:       createBooking,
			Availability: ucBooking.NewCheckAvailability(bookingDeps),
			Slots:        ucBooking.NewGetAvailableSlots(bookingDeps),
			Get:          ucBooking.NewGetBooking(bookingDeps),
			Update:       ucBooking.NewUpdateBooking(bookingDeps),
			List:         ucBooking.NewListBookings(bookingDeps),
			ByDate:       ucBooking.NewListBookingsByDate(bookingDeps),
			ByMonth:      ucBooking.NewListBookingsByMonth(bookingDeps),
			Confirm:      ucBooking.NewConfirmBooking(bookingDeps),
			Start:        ucBooking.NewStartBooking(bookingDeps),
			Complete:     ucBooking.NewCompleteBooking(bookingDeps),
			Cancel:       ucBooking.NewCancelBooking(bookingDeps, notifyWaitlist),
			NoShow:       ucBooking.NewMarkNoShow(bookingDeps, notifyWaitlist),
			Review:       ucBooking.NewAddReview(bookingDeps),
		},
		Waitlist: handlers.WaitlistUseCases{
			Add:     ucWaitlist.NewAddEntry(waitlistDeps),
			Get:     ucWaitlist.NewGetEntry(waitlistDeps),
			Accept:  ucWaitlist.NewAcceptOffer(waitlistDeps),
			Decline: ucWaitlist.NewDeclineOffer(waitlistDeps),
			Cancel:  ucWaitlist.NewCancelEntry(waitlistDeps),
			Notify:  notifyWaitlist,
			Cleanup: waitlistCleanup,
		},
		CreateRecurring:   ucRecurring.NewCreateRule(recurringDeps),
		ManageRecurring:   ucRecurring.NewManageRule(recurringDeps),
		GenerateRecurring: generateDue,
		ApproveStylist:    ucBooking.NewApproveStylist(bookingDeps),
		RejectStylist:     ucBooking.NewRejectStylist(bookingDeps),
		Middleware: []gin.HandlerFunc{
			logging.RequestLogger(logger),
			m.Middleware(),
		},
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// ======================================================
	// 🛑 SHUTDOWN
	// ======================================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	sched.Stop(ctx)

	mailer.Close()
	auditDispatcher.Close()
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error().Err(err).Msg("kafka close")
		}
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
