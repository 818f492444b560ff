package domain

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/proxchat/backend/config"
	"github.com/proxchat/backend/internal/common"
	"github.com/proxchat/backend/internal/domain/chat"
	"github.com/proxchat/backend/internal/model"
	"github.com/proxchat/backend/pkg/ws"
	"github.com/proxchat/backend/pkg/xcontext"

	"github.com/gorilla/websocket"
)

// WsChatDomain is the boundary between the websocket transport and the
// worker pool. Every client event becomes a command on the shared queue;
// login and register block this connection's read loop on a one-shot reply
// channel, so a single connection's synchronous requests are naturally
// serialized while the workers stay free.
type WsChatDomain interface {
	Serve(w http.ResponseWriter, r *http.Request)
}

type wsChatDomain struct {
	cfg        config.Configs
	registry   *chat.Registry
	dispatcher *chat.Dispatcher
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func NewWsChatDomain(
	cfg config.Configs,
	registry *chat.Registry,
	dispatcher *chat.Dispatcher,
) WsChatDomain {
	return &wsChatDomain{
		cfg:        cfg,
		registry:   registry,
		dispatcher: dispatcher,
	}
}

func (d *wsChatDomain) Serve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if d.registry.Count() >= d.cfg.Server.MaxConnections {
		common.PromCounters[common.DroppedPayloadsTotal].WithLabelValues("connection_limit").Inc()
		http.Error(w, "Server is full", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		xcontext.Logger(ctx).Debugf("cannot upgrade connection: %v", err)
		return
	}

	client := ws.NewClient(conn, d.cfg.Server.Compression)
	sess := chat.NewSession(client)

	reply := make(chan int64, 1)
	d.dispatcher.Enqueue(chat.OpenCommand{Session: sess, Reply: reply})
	connID := <-reply

	defer func() {
		d.dispatcher.Enqueue(chat.CloseCommand{ConnectionID: connID})
		client.Close()
	}()

	for raw := range client.R {
		d.handleEvent(ctx, connID, raw, client)
	}
}

func (d *wsChatDomain) handleEvent(ctx context.Context, connID int64, raw []byte, client *ws.Client) {
	var event model.ClientEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		common.PromCounters[common.DroppedPayloadsTotal].WithLabelValues("malformed").Inc()
		return
	}

	switch {
	case event.Location != nil:
		d.dispatcher.Enqueue(chat.UpdatePositionCommand{
			ConnectionID: connID,
			Lat:          event.Location.Lat,
			Lon:          event.Location.Lon,
		})

	case event.Login != nil:
		reply := make(chan bool, 1)
		d.dispatcher.Enqueue(chat.LoginCommand{
			ConnectionID: connID,
			Username:     event.Login.Username,
			Password:     event.Login.Password,
			Reply:        reply,
		})
		d.respond(ctx, client, model.ServerEvent{
			LoginResponse: &model.StatusResponse{Status: <-reply},
		})

	case event.Register != nil:
		reply := make(chan bool, 1)
		d.dispatcher.Enqueue(chat.RegisterCommand{
			ConnectionID: connID,
			Username:     event.Register.Username,
			Password:     event.Register.Password,
			Reply:        reply,
		})
		d.respond(ctx, client, model.ServerEvent{
			RegisterResponse: &model.StatusResponse{Status: <-reply},
		})

	case event.SendMessage != nil:
		if len(event.SendMessage.Msg) > d.cfg.Chat.MaxMessageLength {
			common.PromCounters[common.DroppedPayloadsTotal].WithLabelValues("oversized").Inc()
			return
		}

		d.dispatcher.Enqueue(chat.SendMessageCommand{
			ConnectionID: connID,
			Msg:          event.SendMessage.Msg,
		})

	default:
		common.PromCounters[common.DroppedPayloadsTotal].WithLabelValues("unrecognized").Inc()
	}
}

func (d *wsChatDomain) respond(ctx context.Context, client *ws.Client, event model.ServerEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("cannot marshal response: %v", err)
		return
	}

	if err := client.Send(payload); err != nil {
		xcontext.Logger(ctx).Debugf("cannot deliver response: %v", err)
	}
}
