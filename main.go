package main

import (
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	v1 "github.com/splitbridge/backend/internal/controllers/v1"
	"github.com/splitbridge/backend/internal/duplicate"
	"github.com/splitbridge/backend/internal/models"
	"github.com/splitbridge/backend/internal/router"
	"github.com/splitbridge/backend/internal/session"
	"github.com/splitbridge/backend/internal/splitwise"
	"github.com/splitbridge/backend/internal/submission"
	"github.com/splitbridge/backend/internal/toshl"
)

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	// Create data directory
	dataDir, ok := os.LookupEnv("DATA_DIR")
	if !ok {
		dataDir = filepath.Join(".", "data")
	}
	err := os.MkdirAll(dataDir, os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database
	err = models.Connect(filepath.Join(dataDir, "gorm.db"))
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	splitwiseURL := urlFromEnv("SPLITWISE_API_URL", splitwise.DefaultBaseURL)
	toshlURL := urlFromEnv("TOSHL_API_URL", toshl.DefaultBaseURL)

	credentials := func() (string, string, error) {
		sourceKey, err := models.CredentialKey(models.ProviderSplitwise)
		if err != nil {
			return "", "", err
		}
		targetKey, err := models.CredentialKey(models.ProviderToshl)
		if err != nil {
			return "", "", err
		}
		return sourceKey, targetKey, nil
	}

	co := v1.Controller{
		Sessions: session.New(credentials,
			func(apiKey string) session.SourceClient {
				return splitwise.New(splitwiseURL.String(), apiKey)
			},
			func(apiKey string) session.TargetClient {
				return toshl.New(toshlURL.String(), apiKey)
			},
		),
		Submitter: &submission.Submitter{},
		Corpus:    &duplicate.Corpus{},
		Splitwise: func() (*splitwise.Client, error) {
			key, err := models.CredentialKey(models.ProviderSplitwise)
			if err != nil {
				return nil, err
			}
			if key == "" {
				return nil, session.ErrMissingCredentials
			}
			return splitwise.New(splitwiseURL.String(), key), nil
		},
		Toshl: func() (*toshl.Client, error) {
			key, err := models.CredentialKey(models.ProviderToshl)
			if err != nil {
				return nil, err
			}
			if key == "" {
				return nil, session.ErrMissingCredentials
			}
			return toshl.New(toshlURL.String(), key), nil
		},
	}

	r, teardown, err := router.Config()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	defer teardown()

	router.AttachRoutes(co, router.Gateways{
		Splitwise: splitwiseURL,
		Toshl:     toshlURL,
	}, r.Group("/"))

	if err := r.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}

func urlFromEnv(name, fallback string) *url.URL {
	raw, ok := os.LookupEnv(name)
	if !ok {
		raw = fallback
	}

	u, err := url.Parse(raw)
	if err != nil {
		log.Fatal().Str("variable", name).Msg(err.Error())
	}

	return u
}
