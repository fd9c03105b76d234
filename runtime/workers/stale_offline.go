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

// SessionLookup tells whether a user still has a live session.
type SessionLookup interface {
	IsConnected(userID string) bool
}

// StaleOfflineSweep puts offline the users whose disconnect was missed:
// shown online or away, silent for too long and without a live session.
type StaleOfflineSweep struct {
	log         *slog.Logger
	presence    repositories.IPresenceRepository
	users       repositories.IUserRepository
	sessions    SessionLookup
	broadcaster contract.Broadcaster
	threshold   time.Duration
	now         func() time.Time
}

func NewStaleOfflineSweep(
	log *slog.Logger,
	presence repositories.IPresenceRepository,
	users repositories.IUserRepository,
	sessions SessionLookup,
	broadcaster contract.Broadcaster,
	threshold time.Duration,
	now func() time.Time,
) *StaleOfflineSweep {
	return &StaleOfflineSweep{
		log:         log,
		presence:    presence,
		users:       users,
		sessions:    sessions,
		broadcaster: broadcaster,
		threshold:   threshold,
		now:         now,
	}
}

func (s *StaleOfflineSweep) Name() string { return "stale_offline_sweep" }

func (s *StaleOfflineSweep) RunOnce(ctx context.Context) error {
	cutoff := s.now().Add(-s.threshold)
	candidates, err := s.presence.List(ctx, domain.StatusOnline, domain.StatusAway)
	if err != nil {
		return err
	}
	for _, candidate := range candidates {
		if !candidate.IsStale(cutoff) || s.sessions.IsConnected(candidate.UserID) {
			continue
		}
		var formerRoom *string
		presence, written, err := s.presence.Upsert(ctx, candidate.UserID, func(p *domain.Presence) bool {
			if !p.IsStale(cutoff) {
				return false
			}
			formerRoom = p.CurrentRoomID
			p.GoOffline(p.LastActivity)
			return true
		})
		if err != nil {
			s.log.Error("Unable to sweep stale presence", "user_id", candidate.UserID, "error", err)
			continue
		}
		if !written {
			continue
		}
		var noRoom *string
		err = s.users.UpdateOnlineFlags(ctx, presence.UserID, domain.OnlineFlags{
			IsOnline:      lo.ToPtr(false),
			Status:        lo.ToPtr(domain.StatusOffline),
			LastSeen:      &presence.LastSeen,
			CurrentRoomID: &noRoom,
		})
		if err != nil {
			s.log.Warn("Unable to mirror offline status", "user_id", presence.UserID, "error", err)
		}
		s.log.Info("Stale presence swept", "user_id", presence.UserID)
		if formerRoom != nil {
			s.broadcaster.ToRoom(ctx, *formerRoom, event.New(event.UserStatusChangedType, event.UserStatusChanged{
				UserID: presence.UserID,
				Status: domain.StatusOffline,
				RoomID: *formerRoom,
			}), presence.UserID)
		}
	}
	return nil
}
