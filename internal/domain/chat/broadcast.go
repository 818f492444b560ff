package chat

import (
	"context"
	"encoding/json"

	"github.com/proxchat/backend/internal/common"
	"github.com/proxchat/backend/internal/model"
	"github.com/proxchat/backend/pkg/geoutil"
)

// broadcast delivers a chat message to every other bound connection whose
// user is in range of the sender. The scan is linear over the registry
// snapshot: a cheap rectangular pre-filter in degrees rejects most pairs
// before the haversine distance runs.
func (d *Dispatcher) broadcast(ctx context.Context, fromConn, fromUser int64, msg string) {
	sender, ok := d.users.GetByID(ctx, fromUser)
	if !ok {
		return
	}

	payload, err := json.Marshal(model.ServerEvent{
		Message: &model.MessageEvent{Username: sender.Name, Msg: msg},
	})
	if err != nil {
		d.logger.Errorf("cannot marshal chat message of user %d: %v", fromUser, err)
		return
	}

	common.PromCounters[common.BroadcastsTotal].WithLabelValues().Inc()

	window := d.cfg.Proximity.DegreeWindow
	radius := d.cfg.Proximity.RadiusKm

	d.registry.Range(func(s *Session) bool {
		if s.ID() == fromConn {
			return true
		}

		otherID := s.UserID()
		if otherID == 0 {
			return true
		}

		other, ok := d.users.GetByID(ctx, otherID)
		if !ok {
			return true
		}

		if !geoutil.WithinBounds(sender.Lat, sender.Lon, other.Lat, other.Lon, window) {
			return true
		}

		if geoutil.Distance(sender.Lat, sender.Lon, other.Lat, other.Lon) >= radius {
			return true
		}

		// The connection may be closing; a failed delivery is not an
		// error for the remaining recipients.
		if err := s.Send(payload); err == nil {
			common.PromCounters[common.DeliveriesTotal].WithLabelValues().Inc()
		}

		return true
	})
}
