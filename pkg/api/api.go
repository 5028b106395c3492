// Package api serves the cipher over HTTP with echo.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"rc5-go/pkg/config"
	"rc5-go/pkg/log"
	"rc5-go/pkg/rc5"
	"rc5-go/pkg/secret"
	"rc5-go/pkg/transform"
)

// Request is the body of /v1/encode and /v1/decode. Zero values fall back to
// the server configuration.
type Request struct {
	Key      string `json:"key"`
	Data     string `json:"data"`
	WordSize *int   `json:"word_size,omitempty"`
	Rounds   *int   `json:"rounds,omitempty"`
	Encoding string `json:"encoding,omitempty"`
}

type Response struct {
	Data     string `json:"data"`
	WordSize int    `json:"word_size"`
	Rounds   int    `json:"rounds"`
}

type API struct {
	Echo *echo.Echo
	cfg  config.Config
}

func New(cfg *config.Config) *API {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	a := &API{Echo: e, cfg: *cfg}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Debug().Str("method", v.Method).Str("uri", v.URI).
				Int("status", v.Status).Dur("latency", v.Latency).Msg("request")
			return nil
		},
	}))
	if cfg.RateLimit > 0 {
		e.Use(RateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)))
	}

	v1 := e.Group("/v1")
	v1.GET("/healthz", a.Healthz)
	v1.POST("/encode", a.Encode)
	v1.POST("/decode", a.Decode)
	return a
}

// RateLimit answers 429 once the limiter runs dry.
func RateLimit(limiter *rate.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow() {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

func (a *API) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (a *API) Encode(c echo.Context) error { return a.process(c, "encode") }
func (a *API) Decode(c echo.Context) error { return a.process(c, "decode") }

func (a *API) params(req *Request) (rc5.Params, string, error) {
	cfg := a.cfg
	if req.WordSize != nil {
		cfg.WordSize = *req.WordSize
	}
	if req.Rounds != nil {
		cfg.Rounds = *req.Rounds
	}
	if req.Encoding != "" {
		cfg.Encoding = req.Encoding
	}
	if err := cfg.Validate(); err != nil {
		return rc5.Params{}, "", err
	}
	return cfg.Params(), cfg.Encoding, nil
}

func (a *API) process(c echo.Context, op string) error {
	start := time.Now()
	var req Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	params, encoding, err := a.params(&req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	key, err := secret.FromHex(req.Key)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "key must be hex, at most 255 bytes")
	}
	defer key.Destroy()
	if a.cfg.KeySize > 0 {
		if err := key.RequireSize(a.cfg.KeySize); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	cipher, err := transform.NewCipher(params, key, encoding)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var out []byte
	if op == "encode" {
		out, err = cipher.EncodeText([]byte(req.Data))
	} else {
		out, err = cipher.DecodeText([]byte(req.Data))
	}
	if err != nil {
		log.Warn().Str("op", op).Stringer("params", params).Err(err).Msg("request rejected")
		if errors.Is(err, rc5.ErrWrongInputSize) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("data must be a multiple of %d bytes", params.BlockSize()))
		}
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("data is not valid %s", encoding))
	}

	log.Info().Str("op", op).Stringer("params", params).
		Str("size", humanize.Bytes(uint64(len(req.Data)))).
		Dur("took", time.Since(start)).Msg("served")
	return c.JSON(http.StatusOK, Response{
		Data:     string(out),
		WordSize: int(params.WordSize),
		Rounds:   int(params.Rounds),
	})
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down within the configured timeout.
func (a *API) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("address", a.cfg.ListenAddr).Msg("api listening")
		if err := a.Echo.Start(a.cfg.ListenAddr); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api: serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := a.Echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("api: shutdown: %w", err)
		}
		log.Info().Msg("api stopped")
		return nil
	})
	return g.Wait()
}
