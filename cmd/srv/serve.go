package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/proxchat/backend/pkg/prometheus"
	"github.com/proxchat/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startServe(cliCtx *cli.Context) error {
	if err := s.loadConfig(cliCtx.String("config")); err != nil {
		return err
	}

	s.loadLogger()
	s.loadRepos()
	s.loadDomains()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = xcontext.WithLogger(ctx, s.logger)

	go s.dispatcher.Run(ctx)

	if s.configs.Metrics.Enable {
		go s.startMetrics()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.wsChatDomain.Serve)

	s.server = &http.Server{
		Addr:    s.configs.Server.Address(),
		Handler: mux,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()
		s.server.Shutdown(context.Background())
	}()

	s.logger.Infof("Starting server on %s with %d workers",
		s.configs.Server.Address(), s.configs.Chat.Workers)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	s.logger.Infof("Server stop")
	return nil
}

func (s *srv) startMetrics() {
	s.logger.Infof("Starting prometheus on %s", s.configs.Metrics.Address())

	metricsServer := &http.Server{
		Addr:    s.configs.Metrics.Address(),
		Handler: prometheus.NewHandler(),
	}

	if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Errorf("Prometheus server failed: %v", err)
	}
}
