package server

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Ayush-gihub-12345/Web-app/internal/calculator"
	"github.com/Ayush-gihub-12345/Web-app/internal/catalog"
	"github.com/Ayush-gihub-12345/Web-app/internal/platform/config"
	"github.com/Ayush-gihub-12345/Web-app/internal/platform/observability"
	"github.com/Ayush-gihub-12345/Web-app/internal/quote"
	"github.com/Ayush-gihub-12345/Web-app/internal/site"
	"github.com/Ayush-gihub-12345/Web-app/internal/submission"
)

// Deps are the externally constructed pieces Assemble needs.
type Deps struct {
	Logger  *zap.Logger
	Catalog *catalog.Catalog
	Metrics *observability.Metrics
	Now     func() time.Time
}

// Assemble builds every component from configuration and returns a ready server Config.
func Assemble(cfg config.Config, deps Deps) (Config, error) {
	if deps.Catalog == nil {
		return Config{}, fmt.Errorf("server: catalog is required")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	engine, err := quote.NewEngine(deps.Catalog)
	if err != nil {
		return Config{}, err
	}

	calcOpts := []calculator.Option{
		calculator.WithReveal(calculator.Reveal{
			Target:     cfg.Reveal.Target,
			Focus:      cfg.Reveal.Focus,
			FocusDelay: cfg.Reveal.FocusDelay,
		}),
	}
	var contactOpts []submission.HandlerOption
	if deps.Metrics != nil {
		calcOpts = append(calcOpts, calculator.WithObserver(deps.Metrics))
		contactOpts = append(contactOpts, submission.WithObserver(deps.Metrics))
	}
	binding, err := calculator.New(engine, calcOpts...)
	if err != nil {
		return Config{}, err
	}

	serializer, err := submission.New(engine, submission.Config{
		Source: cfg.Site.Source,
		Brand:  cfg.Site.Brand,
		CC:     cfg.Site.CC,
		Strip:  calculator.ControlNames(),
		Now:    deps.Now,
	})
	if err != nil {
		return Config{}, err
	}

	pages, err := site.New(binding, site.Config{Brand: cfg.Site.Brand, Now: deps.Now})
	if err != nil {
		return Config{}, err
	}

	out := Config{
		Address:      cfg.Server.Addr(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		Logger:       deps.Logger,
		Calculator:   binding,
		Site:         pages,
		Contact:      submission.NewHandler(serializer, binding, pages, cfg.Site.RelayEndpoint, contactOpts...),
	}
	if cfg.Server.MetricsEnabled {
		out.Metrics = deps.Metrics
	}
	return out, nil
}
