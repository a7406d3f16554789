package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/cinebook/booking-api/internal/domain"
	"github.com/cinebook/booking-api/internal/events"
	"github.com/cinebook/booking-api/internal/locks"
	"github.com/cinebook/booking-api/internal/mailer"
	"github.com/cinebook/booking-api/internal/repository"
	appvalidator "github.com/cinebook/booking-api/internal/validator"
	"github.com/cinebook/booking-api/internal/vcs"
	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
)

var (
	version = vcs.Version()
)

type application struct {
	config         config
	logger         *slog.Logger
	db             *pgxpool.Pool
	redis          redis.UniversalClient
	validator      *validator.Validate
	mailer         mailer.Mailer
	sessionManager *scs.SessionManager
	events         events.Publisher
	wg             sync.WaitGroup

	seatRepo    domain.SeatRepository
	bookingRepo domain.BookingRepository
	walletRepo  domain.WalletRepository
	loyaltyRepo domain.LoyaltyRepository

	seatLocks domain.SeatLockManager
}

type config struct {
	port int
	env  string
	db   struct {
		dsn          string
		maxOpenConns int
		maxIdleTime  time.Duration
		autoMigrate  bool
	}
	redis struct {
		url          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  time.Duration
	}
	smtp struct {
		host     string
		port     int
		username string
		password string
		sender   string
	}
	amqp struct {
		url string
	}
	seatLockTTL      time.Duration
	otelCollectorUrl string
}

func Run() error {
	// A missing .env is fine; flags and real env vars still apply.
	_ = godotenv.Load()

	var cfg config

	flag.IntVar(&cfg.port, "port", 3000, "server port")
	flag.StringVar(&cfg.env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.db.dsn, "db-dsn", os.Getenv("DB_DSN"), "PostgreSQL DSN")
	flag.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.db.maxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")
	flag.BoolVar(&cfg.db.autoMigrate, "db-auto-migrate", true, "Run schema migrations on startup")

	flag.StringVar(&cfg.redis.url, "redis-url", os.Getenv("REDIS_URL"), "Redis URL")
	flag.IntVar(&cfg.redis.maxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.redis.maxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.redis.maxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.smtp.host, "smtp-host", "sandbox.smtp.mailtrap.io", "SMTP host")
	flag.IntVar(&cfg.smtp.port, "smtp-port", 2525, "SMTP port")
	flag.StringVar(&cfg.smtp.username, "smtp-username", os.Getenv("SMTP_USERNAME"), "SMTP username")
	flag.StringVar(&cfg.smtp.password, "smtp-password", os.Getenv("SMTP_PASSWORD"), "SMTP password")
	flag.StringVar(&cfg.smtp.sender, "smtp-sender", "CineBook <no-reply@cinebook.example.com>", "SMTP sender")

	flag.StringVar(&cfg.amqp.url, "amqp-url", os.Getenv("AMQP_URL"), "RabbitMQ URL (empty disables event publishing)")

	flag.DurationVar(&cfg.seatLockTTL, "seat-lock-ttl", 60*time.Second, "Seat lock TTL")

	flag.StringVar(&cfg.otelCollectorUrl, "otel-collector-url", os.Getenv("OTEL_COLLECTOR_URL"), "OpenTelemetry collector URL (empty disables telemetry)")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if cfg.db.autoMigrate {
		err := repository.RunMigrations(cfg.db.dsn)
		if err != nil {
			return err
		}

		logger.Info("database schema is up to date")
	}

	db, err := newDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := newRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	var publisher events.Publisher = events.NoopPublisher{}

	if cfg.amqp.url != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.amqp.url)
		if err != nil {
			return err
		}
		defer amqpPublisher.Close()

		publisher = amqpPublisher
	}

	app := newApplication(Options{
		Logger:         logger,
		DB:             db,
		Redis:          redisClient,
		Mailer:         mailer.NewSMTPMailer(cfg.smtp.host, cfg.smtp.port, cfg.smtp.username, cfg.smtp.password, cfg.smtp.sender),
		Events:         publisher,
		SessionManager: newSessionManager(redisClient),
		SeatLockTTL:    cfg.seatLockTTL,
		Env:            cfg.env,
	})
	app.config = cfg

	shutdownTelemetry, err := app.initTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	return app.run()
}

// Options carries pre-built dependencies for assembling the HTTP surface.
// Run builds one from flags; integration tests build one against containers.
type Options struct {
	Logger         *slog.Logger
	DB             *pgxpool.Pool
	Redis          redis.UniversalClient
	Mailer         mailer.Mailer
	Events         events.Publisher
	SessionManager *scs.SessionManager
	SeatLockTTL    time.Duration
	Env            string
}

// NewHandler wires the full HTTP surface from explicit dependencies.
func NewHandler(opts Options) http.Handler {
	return newApplication(opts).routes()
}

func newApplication(opts Options) *application {
	app := &application{
		logger:         opts.Logger,
		db:             opts.DB,
		redis:          opts.Redis,
		validator:      appvalidator.NewValidator(),
		mailer:         opts.Mailer,
		sessionManager: opts.SessionManager,
		events:         opts.Events,
		seatRepo:       repository.NewPostgresSeatRepository(opts.DB),
		bookingRepo:    repository.NewPostgresBookingRepository(opts.DB),
		walletRepo:     repository.NewPostgresWalletRepository(opts.DB),
		loyaltyRepo:    repository.NewPostgresLoyaltyRepository(opts.DB),
		seatLocks:      locks.NewRedisSeatLockManager(opts.Redis),
	}

	app.config.env = opts.Env
	app.config.seatLockTTL = opts.SeatLockTTL

	return app
}

func newSessionManager(client *redis.Client) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client)
	sessionManager.IdleTimeout = 20 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func newRedisClient(cfg config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.redis.url,
		MaxIdleConns:    cfg.redis.maxIdleConns,
		MaxActiveConns:  cfg.redis.maxOpenConns,
		ConnMaxIdleTime: cfg.redis.maxIdleTime,
	})

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func newDatabasePool(cfg config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.db.maxIdleTime
	config.MaxConns = int32(cfg.db.maxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		app.wg.Wait()
		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware("cinebook-booking-api", otelchi.WithChiRoutes(r)))
	r.Use(app.recoverPanic)
	r.Use(app.attachRequestLogger)
	r.Use(app.sessionManager.LoadAndSave)

	r.Get("/health", app.GetHealth)

	r.Route("/showtimes/{showtimeId}", func(r chi.Router) {
		r.Get("/seats", app.withShowtimeID(app.GetSeatMapByShowtime))

		r.With(app.requireAuthentication).Post("/locks", app.withShowtimeID(app.HoldSeatsHandler))
		r.With(app.requireAuthentication).Delete("/locks", app.withShowtimeID(app.ReleaseSeatsHandler))
	})

	r.With(app.requireAuthentication).Route("/bookings", func(r chi.Router) {
		r.Post("/", app.CreateBookingHandler)
		r.Get("/", app.GetBookingsOfUserHandler)
		r.Get("/{bookingId}", app.withBookingID(app.GetBookingHandler))
		r.Post("/{bookingId}/cancellation", app.withBookingID(app.CancelBookingHandler))
	})

	r.With(app.requireAuthentication).Get("/wallet", app.GetWalletHandler)
	r.With(app.requireAuthentication).Get("/loyalty", app.GetLoyaltyAccountHandler)

	return r
}

func (app *application) withShowtimeID(next func(http.ResponseWriter, *http.Request, int)) http.HandlerFunc {
	return app.withIDParam("showtimeId", next)
}

func (app *application) withBookingID(next func(http.ResponseWriter, *http.Request, int)) http.HandlerFunc {
	return app.withIDParam("bookingId", next)
}

func (app *application) withIDParam(name string, next func(http.ResponseWriter, *http.Request, int)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := app.readIDParam(r, name)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}

		next(w, r, id)
	}
}
