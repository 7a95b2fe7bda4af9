package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"

	"github.com/iliyamo/om-adella-promo/internal/config"
	"github.com/iliyamo/om-adella-promo/internal/database"
	"github.com/iliyamo/om-adella-promo/internal/geo"
	"github.com/iliyamo/om-adella-promo/internal/handler"
	"github.com/iliyamo/om-adella-promo/internal/queue"
	"github.com/iliyamo/om-adella-promo/internal/repository"
	"github.com/iliyamo/om-adella-promo/internal/router"
	queue_publisher "github.com/iliyamo/om-adella-promo/internal/service"
	"github.com/iliyamo/om-adella-promo/internal/show"
	"github.com/iliyamo/om-adella-promo/internal/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}

	cfg := config.Load()
	dbCfg := config.LoadDatabaseConfig()
	geoCfg := config.LoadGeoConfig()
	queueCfg := config.LoadQueueConfig()
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The store is optional: captures still settle without it.
	db, err := database.Open(dbCfg)
	if err != nil {
		log.Printf("database: unavailable, captures will not be stored: %v", err)
	} else {
		defer db.Close()
		if err := database.Migrate(ctx, db, dbCfg.Driver); err != nil {
			log.Fatalf("database: migrate: %v", err)
		}
		log.Printf("database: %s ready", dbCfg.Driver)
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	}

	currentShow := show.Current()
	page := show.Page()

	capturer := &geo.Capturer{
		Network: geo.NewCachedLocator(
			geo.NewIPAPIClient(geo.IPAPIConfig{BaseURL: geoCfg.IPBaseURL, Timeout: geoCfg.IPTimeout}),
			rdb, geoCfg.CacheTTL, geoCfg.CachePrefix,
		),
	}
	var locations *repository.LocationRepo
	if db != nil {
		locations = repository.NewLocationRepo(db)
		capturer.Store = locations
	}
	if queueCfg.PublishEnabled {
		capturer.Publish = queue_publisher.Publisher{URL: queueCfg.URL, DialTimeout: queueCfg.DialTimeout}.PublishLocationCaptured
	}
	if queueCfg.ConsumerEnabled {
		go func() {
			if err := queue.StartLocationConsumer(ctx, queueCfg.URL, queueCfg.LogDir); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("queue: consumer stopped: %v", err)
			}
		}()
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatalf("web: load templates: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	if cfg.IsDev() {
		e.Logger.SetLevel(glog.DEBUG)
	} else {
		e.Logger.SetLevel(glog.INFO)
	}
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e, &handler.ReadyHandler{DB: db, Redis: rdb})
	router.RegisterPage(e,
		&handler.PageHandler{
			Show:          currentShow,
			Page:          page,
			TicketSecret:  cfg.CaptureSecret,
			TicketTTL:     cfg.CaptureTicketTTL,
			DeviceTimeout: geoCfg.DeviceTimeout,
			DeviceMaxAge:  geoCfg.DeviceMaxAge,
		},
		&handler.PromoHandler{Show: currentShow, Page: page, PublicURL: cfg.PublicURL},
	)
	router.RegisterPublic(e,
		&handler.ShowHandler{Show: currentShow, Page: page},
		&handler.CountdownHandler{Target: currentShow.StartsAt},
		cacheCfg, rdb,
	)
	router.RegisterCapture(e,
		&handler.LocationHandler{Capturer: capturer, Tickets: repository.NewTicketRepo(rdb)},
		cfg.CaptureSecret, rlCfg, rdb,
	)
	if locations != nil {
		router.RegisterAdmin(e, &handler.AdminHandler{Locations: locations}, cfg.AdminPasswordHash)
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
