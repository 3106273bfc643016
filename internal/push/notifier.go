package push

import (
	"errors"
	"log/slog"

	"github.com/choreboard/choreboard/internal/store"
)

// Notifier fans notifications out to everyone in a household except the
// member who triggered them. Sends are best effort; failures are logged
// and expired subscriptions are pruned.
type Notifier struct {
	service *Service
	subs    *store.PushStore
	logger  *slog.Logger
}

func NewNotifier(service *Service, subs *store.PushStore, logger *slog.Logger) *Notifier {
	return &Notifier{
		service: service,
		subs:    subs,
		logger:  logger.With("component", "push"),
	}
}

// NotifyHousehold sends payload to all household subscriptions except the
// acting member's.
func (n *Notifier) NotifyHousehold(householdID, actingMemberID int64, payload Payload) {
	subs, err := n.subs.ListByHousehold(householdID, actingMemberID)
	if err != nil {
		n.logger.Error("list subscriptions", "error", err, "household_id", householdID)
		return
	}

	for i := range subs {
		sub := &subs[i]
		if err := n.service.Send(sub, payload); err != nil {
			if errors.Is(err, ErrExpired) {
				if err := n.subs.DeleteByEndpoint(sub.Endpoint); err != nil {
					n.logger.Error("prune expired subscription", "error", err)
				}
				continue
			}
			n.logger.Warn("send notification", "error", err, "member_id", sub.MemberID)
		}
	}
}
