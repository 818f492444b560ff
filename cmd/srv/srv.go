package main

import (
	"net/http"

	"github.com/proxchat/backend/config"
	"github.com/proxchat/backend/internal/domain"
	"github.com/proxchat/backend/internal/domain/chat"
	"github.com/proxchat/backend/internal/repository"
	"github.com/proxchat/backend/pkg/logger"

	"github.com/urfave/cli/v2"
)

type srv struct {
	app *cli.App

	configs config.Configs
	logger  logger.Logger

	userRepo repository.UserRepository

	registry   *chat.Registry
	dispatcher *chat.Dispatcher

	authDomain   domain.AuthDomain
	wsChatDomain domain.WsChatDomain

	server *http.Server
}

func (s *srv) loadConfig(path string) error {
	var err error
	s.configs, err = config.Load(path)
	return err
}

func (s *srv) loadLogger() {
	s.logger = logger.NewLogger(logger.ParseLevel(s.configs.LogLevel))
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
}

func (s *srv) loadDomains() {
	s.registry = chat.NewRegistry()
	s.authDomain = domain.NewAuthDomain(s.configs.Auth, s.userRepo)
	s.dispatcher = chat.NewDispatcher(s.configs, s.logger, s.registry, s.userRepo, s.authDomain)
	s.wsChatDomain = domain.NewWsChatDomain(s.configs, s.registry, s.dispatcher)
}
