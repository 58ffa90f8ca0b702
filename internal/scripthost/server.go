package scripthost

import (
	"net/http"
	"time"

	"github.com/danmuck/benc"
	"github.com/danmuck/benc/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const version = "0.0.1"

// Host is the demonstration service: it serves script files from a
// directory and exposes the decoder over HTTP.
type Host struct {
	ID         string
	Addr       string
	ScriptsDir string
	Started    time.Time

	limits      benc.Limits
	readTimeout time.Duration
	router      *gin.Engine
}

// Options configures a Host. Zero values select the defaults: no
// script directory, default decode limits, localhost CORS, no read
// timeout.
type Options struct {
	ID          string
	Addr        string
	ScriptsDir  string
	CORSOrigins []string
	MaxDepth    int
	ReadTimeout time.Duration
}

func Appear(opts Options) *Host {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(opts.ID))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(opts.CORSOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept-Encoding"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	limits := benc.DefaultLimits()
	if opts.MaxDepth > 0 {
		limits.MaxDepth = opts.MaxDepth
	}

	return &Host{
		ID:          opts.ID,
		Addr:        opts.Addr,
		ScriptsDir:  opts.ScriptsDir,
		Started:     time.Now(),
		limits:      limits,
		readTimeout: opts.ReadTimeout,
		router:      r,
	}
}

func (h *Host) HTTPRouter() *gin.Engine {
	return h.router
}

func (h *Host) RegisterRoutes() {
	h.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(h.Started).String(),
			"service": h.ID,
			"version": version,
		})
	})

	h.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   true,
			"uptime":  time.Since(h.Started).String(),
			"service": h.ID,
			"version": version,
		})
	})

	h.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h.router.GET("/scripts", h.handleListScripts)
	h.router.GET("/scripts/:name", h.handleScript)

	h.router.POST("/v1/decode", h.handleDecode)
	h.router.POST("/v1/encode", h.handleEncode)
}

func (h *Host) Serve() error {
	h.RegisterRoutes()
	if h.readTimeout <= 0 {
		return h.router.Run(h.Addr)
	}
	srv := &http.Server{
		Addr:              h.Addr,
		Handler:           h.router,
		ReadTimeout:       h.readTimeout,
		ReadHeaderTimeout: h.readTimeout,
	}
	return srv.ListenAndServe()
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
