package chat

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/proxchat/backend/config"
	"github.com/proxchat/backend/internal/common"
	"github.com/proxchat/backend/internal/model"
	"github.com/proxchat/backend/internal/repository"
	"github.com/proxchat/backend/pkg/logger"
)

// Authenticator verifies and creates accounts. Both methods return the
// bound user id on success; the error never distinguishes an unknown
// username from a wrong password.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (int64, error)
	Register(ctx context.Context, username, password string) (int64, error)
}

// Dispatcher runs the worker pool. Every state change in the system passes
// through its shared command queue and is executed by one of a fixed number
// of workers; the stores themselves provide all further synchronization.
type Dispatcher struct {
	cfg    config.Configs
	logger logger.Logger

	registry *Registry
	users    repository.UserRepository
	auth     Authenticator

	queue chan Command
	wg    sync.WaitGroup
}

func NewDispatcher(
	cfg config.Configs,
	logger logger.Logger,
	registry *Registry,
	users repository.UserRepository,
	auth Authenticator,
) *Dispatcher {
	return &Dispatcher{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		users:    users,
		auth:     auth,
		queue:    make(chan Command, cfg.Chat.QueueSize),
	}
}

// Run starts the workers and blocks until ctx is cancelled and all workers
// drained out.
func (d *Dispatcher) Run(ctx context.Context) {
	for i := 0; i < d.cfg.Chat.Workers; i++ {
		d.wg.Add(1)
		go d.runWorker(ctx, i)
	}

	d.wg.Wait()
}

// Enqueue pushes a command onto the shared queue. It blocks while the queue
// is full, which backpressures the producing transport goroutine.
func (d *Dispatcher) Enqueue(cmd Command) {
	d.queue <- cmd
}

func (d *Dispatcher) runWorker(ctx context.Context, worker int) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-d.queue:
			d.execute(ctx, worker, cmd)
		}
	}
}

// execute runs one command to completion. A failing command is a no-op,
// never the end of the worker.
func (d *Dispatcher) execute(ctx context.Context, worker int, cmd Command) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Errorf("worker %d: recovered from panic in %s command: %v", worker, cmd.name(), r)
		}
	}()

	common.PromCounters[common.CommandsTotal].WithLabelValues(cmd.name()).Inc()

	switch c := cmd.(type) {
	case OpenCommand:
		d.handleOpen(worker, c)
	case CloseCommand:
		d.handleClose(worker, c)
	case LoginCommand:
		d.handleLogin(ctx, c)
	case RegisterCommand:
		d.handleRegister(ctx, c)
	case SendMessageCommand:
		d.handleSendMessage(ctx, c)
	case UpdatePositionCommand:
		d.handleUpdatePosition(ctx, c)
	default:
		d.logger.Warnf("worker %d: unknown command %T", worker, cmd)
	}
}

func (d *Dispatcher) handleOpen(worker int, c OpenCommand) {
	id := d.registry.AllocateID()
	c.Session.setID(id)
	d.registry.Publish(id, c.Session)

	common.PromGauges[common.ActiveConnections].WithLabelValues().Inc()
	d.logger.Infof("worker %d: %d active connections (new connection %d)",
		worker, d.registry.Count(), id)

	c.Reply <- id
}

func (d *Dispatcher) handleClose(worker int, c CloseCommand) {
	if d.registry.Remove(c.ConnectionID) {
		common.PromGauges[common.ActiveConnections].WithLabelValues().Dec()
	}

	d.logger.Infof("worker %d: %d active connections (closed connection %d)",
		worker, d.registry.Count(), c.ConnectionID)
}

func (d *Dispatcher) handleLogin(ctx context.Context, c LoginCommand) {
	sess, ok := d.registry.Get(c.ConnectionID)
	if !ok {
		c.Reply <- false
		return
	}

	if sess.UserID() != 0 {
		d.rejectRebind(sess)
		c.Reply <- false
		return
	}

	userID, err := d.auth.Login(ctx, c.Username, c.Password)
	if err != nil {
		common.PromCounters[common.AuthFailuresTotal].WithLabelValues("login").Inc()
		c.Reply <- false
		return
	}

	if !sess.Bind(userID) {
		d.rejectRebind(sess)
		c.Reply <- false
		return
	}

	c.Reply <- true
}

func (d *Dispatcher) handleRegister(ctx context.Context, c RegisterCommand) {
	sess, ok := d.registry.Get(c.ConnectionID)
	if !ok {
		c.Reply <- false
		return
	}

	if sess.UserID() != 0 {
		d.rejectRebind(sess)
		c.Reply <- false
		return
	}

	userID, err := d.auth.Register(ctx, c.Username, c.Password)
	if err != nil {
		common.PromCounters[common.AuthFailuresTotal].WithLabelValues("register").Inc()
		c.Reply <- false
		return
	}

	if !sess.Bind(userID) {
		d.rejectRebind(sess)
		c.Reply <- false
		return
	}

	c.Reply <- true
}

func (d *Dispatcher) handleSendMessage(ctx context.Context, c SendMessageCommand) {
	sess, ok := d.registry.Get(c.ConnectionID)
	if !ok {
		return
	}

	userID := sess.UserID()
	if userID == 0 {
		return
	}

	d.broadcast(ctx, c.ConnectionID, userID, c.Msg)
}

func (d *Dispatcher) handleUpdatePosition(ctx context.Context, c UpdatePositionCommand) {
	sess, ok := d.registry.Get(c.ConnectionID)
	if !ok {
		return
	}

	userID := sess.UserID()
	if userID == 0 {
		return
	}

	d.users.UpdatePosition(ctx, userID, c.Lat, c.Lon)
}

// rejectRebind tells a client that its connection already carries an
// identity. Re-authentication is rejected rather than overwritten.
func (d *Dispatcher) rejectRebind(sess *Session) {
	payload, err := json.Marshal(model.ServerEvent{
		Error: &model.ErrorEvent{Reason: "connection already authenticated"},
	})
	if err != nil {
		return
	}

	if err := sess.Send(payload); err != nil {
		d.logger.Debugf("cannot deliver rebind rejection to connection %d: %v", sess.ID(), err)
	}
}
