package http

import (
	"net/http"

	"github.com/dreschagin/smartfood/internal/infrastructure/metrics"
	"github.com/dreschagin/smartfood/internal/interfaces/http/handler"
	"github.com/dreschagin/smartfood/internal/interfaces/http/middleware"
	"github.com/dreschagin/smartfood/pkg/config"
	"github.com/dreschagin/smartfood/pkg/logger"
)

// Router настраивает маршруты приложения
type Router struct {
	mux                *http.ServeMux
	pageHandler        *handler.PageHandler
	reservationHandler *handler.ReservationHandler
	liveHandler        *handler.LiveHandler
	healthHandler      *handler.HealthHandler
	metrics            *metrics.Metrics
	metricsHandler     http.Handler
	site               config.SiteConfig
	security           config.SecurityConfig
	logger             *logger.Logger
}

// NewRouter создает новый router. metrics и metricsHandler могут быть nil.
func NewRouter(
	pageHandler *handler.PageHandler,
	reservationHandler *handler.ReservationHandler,
	liveHandler *handler.LiveHandler,
	healthHandler *handler.HealthHandler,
	metrics *metrics.Metrics,
	metricsHandler http.Handler,
	site config.SiteConfig,
	security config.SecurityConfig,
	logger *logger.Logger,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		pageHandler:        pageHandler,
		reservationHandler: reservationHandler,
		liveHandler:        liveHandler,
		healthHandler:      healthHandler,
		metrics:            metrics,
		metricsHandler:     metricsHandler,
		site:               site,
		security:           security,
		logger:             logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	// Static assets are embedded into the binary.
	staticFS, err := StaticAssets()
	if err != nil {
		panic("failed to initialize embedded static assets: " + err.Error())
	}

	var onDrop func()
	if rt.metrics != nil {
		onDrop = rt.metrics.RateLimited
	}
	proxies, err := middleware.ParseTrustedProxies(rt.security.TrustedProxies)
	if err != nil {
		panic("failed to parse trusted proxies: " + err.Error())
	}
	limiter := middleware.NewIPRateLimiter(rt.security.RateLimitRPS, rt.security.RateLimitBurst)
	limited := middleware.RateLimit(limiter, proxies, onDrop)

	// Страница и фрагменты сайта
	site := http.NewServeMux()
	site.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))
	site.HandleFunc("GET /{$}", rt.pageHandler.ShowHome)
	site.HandleFunc("GET /category/{category}/{$}", rt.pageHandler.ShowCategory)
	site.HandleFunc("GET /category/{category}", func(w http.ResponseWriter, r *http.Request) {
		target := rt.site.BasePath + r.URL.Path + "/"
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	})
	site.HandleFunc("GET /menu", rt.pageHandler.MenuFragment)
	site.Handle("POST /reservations", limited(http.HandlerFunc(rt.reservationHandler.Submit)))

	// Health checks, /metrics и WebSocket не сжимаются
	rt.mux.HandleFunc("GET /healthz", rt.healthHandler.Healthz)
	rt.mux.HandleFunc("GET /readyz", rt.healthHandler.Readyz)
	if rt.metricsHandler != nil {
		rt.mux.Handle("GET /metrics", rt.metricsHandler)
	}
	rt.mux.Handle("GET /live", limited(http.HandlerFunc(rt.liveHandler.HandleConnection)))
	rt.mux.Handle("/", middleware.Compression(site))

	// Применяем middleware
	var handler http.Handler = rt.mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	handler = rt.mountBasePath(handler)
	handler = middleware.Logger(rt.logger)(handler)
	handler = middleware.Recovery(rt.logger)(handler)
	handler = middleware.RequestID(handler)

	return handler
}

// mountBasePath публикует сайт под BasePath; health checks остаются в корне
func (rt *Router) mountBasePath(next http.Handler) http.Handler {
	base := rt.site.BasePath
	if base == "" {
		return next
	}

	root := http.NewServeMux()
	root.Handle(base+"/", http.StripPrefix(base, next))
	root.Handle("GET "+base, http.RedirectHandler(base+"/", http.StatusMovedPermanently))
	root.HandleFunc("GET /healthz", rt.healthHandler.Healthz)
	root.HandleFunc("GET /readyz", rt.healthHandler.Readyz)
	return root
}
