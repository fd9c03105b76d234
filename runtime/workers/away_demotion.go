package workers

import (
	"context"
	"log/slog"
	"time"

	"hive-chat/contract"
	"hive-chat/domain"
	"hive-chat/domain/event"
	"hive-chat/repositories"

	"github.com/samber/lo"
)

// AwayDemotion turns online users that stopped interacting into away users.
type AwayDemotion struct {
	log         *slog.Logger
	presence    repositories.IPresenceRepository
	users       repositories.IUserRepository
	broadcaster contract.Broadcaster
	threshold   time.Duration
	now         func() time.Time
}

func NewAwayDemotion(
	log *slog.Logger,
	presence repositories.IPresenceRepository,
	users repositories.IUserRepository,
	broadcaster contract.Broadcaster,
	threshold time.Duration,
	now func() time.Time,
) *AwayDemotion {
	return &AwayDemotion{log: log, presence: presence, users: users, broadcaster: broadcaster, threshold: threshold, now: now}
}

func (a *AwayDemotion) Name() string { return "away_demotion" }

func (a *AwayDemotion) RunOnce(ctx context.Context) error {
	cutoff := a.now().Add(-a.threshold)
	candidates, err := a.presence.List(ctx, domain.StatusOnline)
	if err != nil {
		return err
	}
	for _, candidate := range candidates {
		if !candidate.ShouldDemoteToAway(cutoff) {
			continue
		}
		// The condition is checked again on the stored record: activity
		// since the listing wins over the demotion.
		presence, written, err := a.presence.Upsert(ctx, candidate.UserID, func(p *domain.Presence) bool {
			if !p.ShouldDemoteToAway(cutoff) {
				return false
			}
			p.Status = domain.StatusAway
			return true
		})
		if err != nil {
			a.log.Error("Unable to demote user", "user_id", candidate.UserID, "error", err)
			continue
		}
		if !written {
			continue
		}
		if err = a.users.UpdateOnlineFlags(ctx, presence.UserID, domain.OnlineFlags{Status: lo.ToPtr(domain.StatusAway)}); err != nil {
			a.log.Warn("Unable to mirror away status", "user_id", presence.UserID, "error", err)
		}
		a.log.Debug("User is away", "user_id", presence.UserID)
		if presence.CurrentRoomID != nil {
			a.broadcaster.ToRoom(ctx, *presence.CurrentRoomID, event.New(event.UserStatusChangedType, event.UserStatusChanged{
				UserID: presence.UserID,
				Status: domain.StatusAway,
				RoomID: *presence.CurrentRoomID,
			}), presence.UserID)
		}
	}
	return nil
}
