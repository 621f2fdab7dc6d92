// SPDX-License-Identifier: MIT

// Command wayfind serves crowd-aware indoor navigation over HTTP.
//
// Usage:
//
//	wayfind [serve] [flags]          run the HTTP service (default)
//	wayfind seed [-layout L] [flags] write a building into the database
//
// Flags fall back to WAYFIND_* environment variables and a .env file.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/acme/autocert"

	"github.com/katalvlaran/wayfind/astar"
	"github.com/katalvlaran/wayfind/builder"
	"github.com/katalvlaran/wayfind/config"
	"github.com/katalvlaran/wayfind/core"
	"github.com/katalvlaran/wayfind/graphstore"
	"github.com/katalvlaran/wayfind/metrics"
	"github.com/katalvlaran/wayfind/navigator"
	"github.com/katalvlaran/wayfind/repository"
	"github.com/katalvlaran/wayfind/repository/drivers"
	"github.com/katalvlaran/wayfind/server"
)

func init() {
	drivers.Ready()
}

func main() {
	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 && (args[0] == "serve" || args[0] == "seed") {
		cmd, args = args[0], args[1:]
	}

	cfg, err := config.Load(args)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "seed":
		err = seed(ctx, cfg)
	default:
		err = serve(ctx, cfg)
	}
	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

func seed(ctx context.Context, cfg *config.Config) error {
	repo, err := repository.Open(ctx, cfg.DBType, cfg.DSN())
	if err != nil {
		return err
	}
	defer repo.Close()

	plan, err := builder.Layout(cfg.Layout)
	if err != nil {
		return err
	}
	// Validate before writing so a bad layout never reaches the database.
	g, err := plan.Graph(core.WithStrictConnections())
	if err != nil {
		return err
	}
	if err := repo.Seed(ctx, plan.Locations, plan.Connections); err != nil {
		return err
	}
	st := g.Stats()
	log.Printf("[seed] %s into %s: %d locations, %d connections, %d entrances, %d exits",
		cfg.Layout, cfg.DBType, st.LocationCount, st.ConnectionCount, st.EntranceCount, st.ExitCount)

	return nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	repo, err := repository.Open(ctx, cfg.DBType, cfg.DSN())
	if err != nil {
		return err
	}
	defer repo.Close()

	store := graphstore.New(repo,
		graphstore.WithLoadTimeout(cfg.InitTimeout),
		graphstore.WithReloadHook(func(st core.Stats) {
			metrics.Reloaded(st.LocationCount, st.ConnectionCount)
		}),
	)
	var opts []navigator.Option
	if cfg.Heuristic == config.HeuristicNone {
		opts = append(opts, navigator.WithHeuristic(astar.Zero))
	}
	engine := navigator.New(store, repo, opts...)

	if cfg.EagerInit {
		if err := engine.EnsureInitialized(ctx); err != nil {
			return err
		}
	}

	handler := server.New(engine, server.Options{CORSOrigins: cfg.CORSOrigins}).Handler()
	if cfg.Domain != "" {
		return serveWithDomain(ctx, cfg.Domain, handler)
	}

	return listen(ctx, &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}, func(s *http.Server) error {
		log.Printf("[http] listening on %s (db=%s)", cfg.Addr, cfg.DBType)

		return s.ListenAndServe()
	})
}

// serveWithDomain answers ACME HTTP-01 challenges and redirects on :80,
// and serves handler over HTTPS on :443 with Let's Encrypt certificates.
func serveWithDomain(ctx context.Context, domain string, handler http.Handler) error {
	certMgr := &autocert.Manager{
		Prompt: autocert.AcceptTOS,
		Cache:  autocert.DirCache("certs"),
		HostPolicy: func(_ context.Context, host string) error {
			if host == domain || host == "www."+domain {
				return nil
			}

			return fmt.Errorf("acme/autocert: host %q not configured", host)
		},
	}

	redirect := &http.Server{
		Addr: ":80",
		Handler: certMgr.HTTPHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "https://"+domain+r.URL.RequestURI(), http.StatusMovedPermanently)
		})),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("[http] ACME and redirect on :80")
		if err := redirect.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[http] :80 error: %v", err)
		}
	}()
	defer redirect.Close()

	tlsCfg := certMgr.TLSConfig()
	tlsCfg.MinVersion = tls.VersionTLS12

	return listen(ctx, &http.Server{
		Addr:              ":443",
		Handler:           handler,
		TLSConfig:         tlsCfg,
		ReadHeaderTimeout: 10 * time.Second,
	}, func(s *http.Server) error {
		log.Printf("[http] HTTPS for %s on :443", domain)

		return s.ListenAndServeTLS("", "")
	})
}

// listen runs start until ctx is canceled, then shuts srv down gracefully.
func listen(ctx context.Context, srv *http.Server, start func(*http.Server) error) error {
	errc := make(chan error, 1)
	go func() { errc <- start(srv) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	log.Printf("[http] shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(sctx)
}
