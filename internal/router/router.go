// Package router sets up the gin engine, its middleware chain and the
// route tree.
package router

import (
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/splitbridge/backend/internal/controllers/healthz"
	v1 "github.com/splitbridge/backend/internal/controllers/v1"
	"github.com/splitbridge/backend/internal/gateway"
	"github.com/splitbridge/backend/internal/httputil"
	"github.com/splitbridge/backend/internal/models"
)

// Overridden at build time via -ldflags.
var version = "0.0.0"

// Gateways holds the reverse-proxy targets for the two remote services.
type Gateways struct {
	Splitwise *url.URL
	Toshl     *url.URL
}

// Config sets up the router and middlewares. The returned teardown
// function must be called on shutdown.
func Config() (*gin.Engine, func(), error) {
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(MetricsMiddleware())
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, l zerolog.Logger) zerolog.Logger {
			return l.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	// CORS settings
	allowOrigins, ok := os.LookupEnv("CORS_ALLOW_ORIGINS")
	if ok {
		log.Debug().Str("CORS Allowed Origins", allowOrigins).Msg("Router")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Fields(allowOrigins),
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PUT"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	if err := registerPrometheusMetrics(); err != nil {
		return nil, nil, err
	}

	log.Info().Str("version", version).Msg("Router")

	return r, func() { unregisterPrometheusMetrics() }, nil
}

// AttachRoutes attaches all routes to the router group that is passed
// in. Separating this from Config allows tests to attach the routes to
// their own engines.
func AttachRoutes(co v1.Controller, gw Gateways, group *gin.RouterGroup) {
	group.GET("", GetRoot)
	group.OPTIONS("", OptionsRoot)
	group.GET("/version", GetVersion)
	group.OPTIONS("/version", OptionsVersion)

	group.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// pprof performance profiles
	enablePprof, ok := os.LookupEnv("ENABLE_PPROF")
	if ok && enablePprof == "true" {
		pprof.RouteRegister(group, "debug/pprof")
	}

	healthz.RegisterRoutes(group.Group("/healthz"))

	// The gateway forwards requests verbatim with host rewriting, the
	// UI talks to the remote services through it.
	group.Any("/api/splitwise/*proxyPath", gateway.Proxy("splitwise", gw.Splitwise, func() (string, error) {
		return models.CredentialKey(models.ProviderSplitwise)
	}))
	group.Any("/api/toshl/*proxyPath", gateway.Proxy("toshl", gw.Toshl, func() (string, error) {
		return models.CredentialKey(models.ProviderToshl)
	}))

	// API v1 setup
	apiv1 := group.Group("/v1")
	{
		apiv1.GET("", GetV1)
		apiv1.OPTIONS("", OptionsV1)
	}

	co.RegisterRoutes(apiv1)
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Healthz string `json:"healthz" example:"https://example.com/healthz"`
	Version string `json:"version" example:"https://example.com/version"`
	Metrics string `json:"metrics" example:"https://example.com/metrics"`
	V1      string `json:"v1" example:"https://example.com/v1"`
}

// GetRoot returns the link list for the API root.
func GetRoot(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Healthz: "/healthz",
			Version: "/version",
			Metrics: "/metrics",
			V1:      "/v1",
		},
	})
}

type VersionResponse struct {
	Data VersionObject `json:"data"`
}

type VersionObject struct {
	Version string `json:"version" example:"1.1.0"`
}

// GetVersion returns the software version of the backend.
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Data: VersionObject{
			Version: version,
		},
	})
}

func OptionsRoot(c *gin.Context) {
	httputil.OptionsGet(c)
}

func OptionsVersion(c *gin.Context) {
	httputil.OptionsGet(c)
}

type V1Response struct {
	Links V1Links `json:"links"`
}

type V1Links struct {
	Session    string `json:"session" example:"https://example.com/v1/session"`
	Settings   string `json:"settings" example:"https://example.com/v1/settings"`
	Categories string `json:"categories" example:"https://example.com/v1/categories"`
	Tags       string `json:"tags" example:"https://example.com/v1/tags"`
	Friends    string `json:"friends" example:"https://example.com/v1/friends"`
	Entries    string `json:"entries" example:"https://example.com/v1/entries"`
}

// GetV1 returns general information about the v1 API.
func GetV1(c *gin.Context) {
	c.JSON(http.StatusOK, V1Response{
		Links: V1Links{
			Session:    "/v1/session",
			Settings:   "/v1/settings",
			Categories: "/v1/categories",
			Tags:       "/v1/tags",
			Friends:    "/v1/friends",
			Entries:    "/v1/entries",
		},
	})
}

func OptionsV1(c *gin.Context) {
	httputil.OptionsGet(c)
}
