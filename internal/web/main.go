package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"github.com/rs/zerolog/log"

	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/config"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/controller/request"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/controller/setting"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/controller/user"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/directory"
	accesslog "github.com/somulo1/Internal-Service-Request-Tracking-System/internal/logger/adapter/fiber"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/mailer"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/handler/admin"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/handler/home"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/handler/login"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/handler/logout"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/handler/submit"
	authmw "github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/middleware/auth"
)

// CheckAliveURI is the liveness endpoint used by load balancers.
const CheckAliveURI = "/checkalive"

// Stores bundles the database controllers the web service needs.
type Stores struct {
	Requests *request.Store
	Users    *user.Store
	Settings *setting.Store
}

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration and stores.
func New(cfg *config.Config, stores Stores, dir *directory.Client, m *mailer.Mailer) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if stores.Requests == nil || stores.Users == nil || stores.Settings == nil {
		panic("stores cannot be nil")
	}

	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in dev mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("dev mode enabled: using local filesystem for templates")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
		},
	)

	service := &Service{
		cfg: cfg,
		App: app,
	}

	// access log
	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAliveURI,
	}))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
			},
		),
	)

	service.alive.Store(true)

	app.Get(CheckAliveURI, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})

	// session auth middleware
	app.Use(authmw.New(stores.Users))

	// init handlers (they register their own routes)
	if err := login.Handler.Init(app, cfg, stores.Users); err != nil {
		log.Fatal().Err(err).Msg("failed to init login handler")
	}

	logout.Handler.Init(app, cfg)
	home.Handler.Init(app, cfg)

	if err := submit.Handler.Init(app, cfg, stores.Requests, dir, m); err != nil {
		log.Fatal().Err(err).Msg("failed to init submit handler")
	}

	if err := admin.Handler.Init(app, cfg, stores.Requests, stores.Settings); err != nil {
		log.Fatal().Err(err).Msg("failed to init admin handler")
	}

	return service
}
