// Package runtime holds the live state of connected users: sessions, open
// rooms and typing indicators. It keeps that state consistent with the
// persisted presence record and routes events to the right audience.
package runtime

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"time"

	"hive-chat/domain"
	"hive-chat/domain/event"
	"hive-chat/errors"
	"hive-chat/repositories"

	"github.com/samber/lo"
)

type TypingInput struct {
	RoomID     string
	ReceiverID string
	IsTyping   bool
}

type MentionInput struct {
	MentionedUserID string
	MessageID       string
	RoomID          string
	RoomName        string
	Message         string
}

// Orchestrator runs the connect, join, leave, typing and disconnect protocol.
// Every handler of one user runs under that user's lock, so a disconnect
// never interleaves with the same user's join or typing broadcast.
type Orchestrator struct {
	log         *slog.Logger
	registry    *Registry
	index       *RoomIndex
	typing      *TypingTracker
	broadcaster *Broadcaster
	users       repositories.IUserRepository
	rooms       repositories.IRoomRepository
	presence    repositories.IPresenceRepository
	userLocks   *KeyedMutex
	roomLocks   *KeyedMutex
	now         func() time.Time
}

func NewOrchestrator(
	log *slog.Logger,
	registry *Registry,
	index *RoomIndex,
	typing *TypingTracker,
	broadcaster *Broadcaster,
	users repositories.IUserRepository,
	rooms repositories.IRoomRepository,
	presence repositories.IPresenceRepository,
	roomLocks *KeyedMutex,
) *Orchestrator {
	return &Orchestrator{
		log:         log,
		registry:    registry,
		index:       index,
		typing:      typing,
		broadcaster: broadcaster,
		users:       users,
		rooms:       rooms,
		presence:    presence,
		userLocks:   NewKeyedMutex(),
		roomLocks:   roomLocks,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Connect registers the session and marks the user online.
// A previous session of the same user is replaced and its sink closed.
func (o *Orchestrator) Connect(ctx context.Context, session Session) error {
	unlock := o.userLocks.Lock(session.UserID)
	defer unlock()

	if replaced := o.registry.Register(session); replaced != nil {
		o.log.Info("Session replaced", "user_id", session.UserID, "transport_id", replaced.TransportID)
		replaced.Sink.Close()
		o.leaveAll(ctx, session.UserID)
	}

	now := o.now()
	_, _, err := o.presence.Upsert(ctx, session.UserID, func(p *domain.Presence) bool {
		p.Status = domain.StatusOnline
		p.Activity = domain.ActivityViewing
		p.CurrentRoomID = nil
		p.TransportID = session.TransportID
		p.LastActivity = now
		return true
	})
	if err != nil {
		o.registry.Unregister(session.UserID, session.TransportID)
		return err
	}
	var noRoom *string
	o.mirror(ctx, session.UserID, domain.OnlineFlags{
		IsOnline:      lo.ToPtr(true),
		Status:        lo.ToPtr(domain.StatusOnline),
		CurrentRoomID: &noRoom,
	})

	o.log.Debug("User connected", "user_id", session.UserID, "transport_id", session.TransportID)
	o.broadcastOnlineUsers(ctx)
	return nil
}

// Disconnect tears the session down. The user leaves every open room and
// stops typing before the presence record goes offline. A transport that
// was already replaced is ignored.
func (o *Orchestrator) Disconnect(ctx context.Context, userID, transportID string) {
	unlock := o.userLocks.Lock(userID)
	defer unlock()

	if !o.registry.MarkClosing(userID, transportID) {
		o.log.Debug("Stale transport disconnected", "user_id", userID, "transport_id", transportID)
		return
	}

	o.leaveAll(ctx, userID)

	now := o.now()
	_, _, err := o.presence.Upsert(ctx, userID, func(p *domain.Presence) bool {
		p.GoOffline(now)
		return true
	})
	if err != nil {
		o.log.Error("Unable to persist offline presence", "user_id", userID, "error", err)
	}
	var noRoom *string
	o.mirror(ctx, userID, domain.OnlineFlags{
		IsOnline:      lo.ToPtr(false),
		Status:        lo.ToPtr(domain.StatusOffline),
		LastSeen:      &now,
		CurrentRoomID: &noRoom,
	})

	o.registry.Unregister(userID, transportID)
	o.log.Debug("User disconnected", "user_id", userID, "transport_id", transportID)
	o.broadcastOnlineUsers(ctx)
}

// JoinRooms joins each room in turn. A room that fails is reported to the
// user and does not stop the others.
func (o *Orchestrator) JoinRooms(ctx context.Context, userID, transportID string, roomIDs []string) error {
	unlock := o.userLocks.Lock(userID)
	defer unlock()

	if !o.registry.IsActive(userID, transportID) {
		return errors.ErrSessionClosing
	}
	var errs []error
	for _, roomID := range lo.Uniq(roomIDs) {
		if err := o.joinRoom(ctx, userID, roomID); err != nil {
			errs = append(errs, err)
		}
	}
	return stdErrors.Join(errs...)
}

func (o *Orchestrator) JoinRoom(ctx context.Context, userID, transportID, roomID string) error {
	unlock := o.userLocks.Lock(userID)
	defer unlock()

	if !o.registry.IsActive(userID, transportID) {
		return errors.ErrSessionClosing
	}
	return o.joinRoom(ctx, userID, roomID)
}

func (o *Orchestrator) joinRoom(ctx context.Context, userID, roomID string) error {
	if _, err := o.rooms.CheckMembership(ctx, roomID, userID); err != nil {
		o.sendError(ctx, userID, "joinRoom", roomID, err)
		return err
	}

	unlockRoom := o.roomLocks.Lock(roomID)
	defer unlockRoom()

	added := o.index.Join(roomID, userID)
	o.touch(ctx, userID, func(p *domain.Presence) {
		p.CurrentRoomID = &roomID
		p.Activity = domain.ActivityViewing
	})

	if !added {
		o.broadcaster.ToUser(ctx, userID, o.roomOnlineUsers(ctx, roomID))
		return nil
	}
	o.broadcaster.ToPresent(ctx, roomID, event.New(event.UserJoinedRoomType, event.UserJoinedRoom{
		UserID: userID,
		RoomID: roomID,
		User:   o.summary(ctx, userID),
	}), userID)
	o.broadcaster.ToPresent(ctx, roomID, o.roomOnlineUsers(ctx, roomID))
	o.log.Debug("User joined room", "user_id", userID, "room_id", roomID)
	return nil
}

// LeaveRoom is a no-op for a room the user does not have open.
func (o *Orchestrator) LeaveRoom(ctx context.Context, userID, transportID, roomID string) error {
	unlock := o.userLocks.Lock(userID)
	defer unlock()

	if !o.registry.IsActive(userID, transportID) {
		return errors.ErrSessionClosing
	}
	if !o.leaveRoom(ctx, userID, roomID) {
		return nil
	}
	o.touch(ctx, userID, func(p *domain.Presence) {
		if p.CurrentRoomID != nil && *p.CurrentRoomID == roomID {
			p.CurrentRoomID = nil
			p.Activity = domain.ActivityIdle
		}
	})
	return nil
}

func (o *Orchestrator) leaveRoom(ctx context.Context, userID, roomID string) bool {
	unlockRoom := o.roomLocks.Lock(roomID)
	defer unlockRoom()

	if !o.index.Leave(roomID, userID) {
		return false
	}
	if changed, typers := o.typing.Set(RoomScope(roomID), userID, false); changed {
		o.broadcastRoomTyping(ctx, roomID, userID, false, typers)
	}
	o.broadcaster.ToPresent(ctx, roomID, event.New(event.UserLeftRoomType, event.UserLeftRoom{
		UserID: userID,
		RoomID: roomID,
		User:   o.summary(ctx, userID),
	}), userID)
	o.broadcaster.ToPresent(ctx, roomID, o.roomOnlineUsers(ctx, roomID), userID)
	o.log.Debug("User left room", "user_id", userID, "room_id", roomID)
	return true
}

// leaveAll removes the user from every open room and every typing scope.
func (o *Orchestrator) leaveAll(ctx context.Context, userID string) {
	for _, roomID := range o.index.RoomsOf(userID) {
		o.leaveRoom(ctx, userID, roomID)
	}
	for _, scope := range o.typing.ClearUser(userID) {
		if scope.IsRoom() {
			o.broadcastRoomTyping(ctx, scope.RoomID, userID, false, o.typing.Typers(scope))
			continue
		}
		o.broadcaster.ToUser(ctx, scope.PeerID, event.New(event.UserTypingType, event.UserTyping{
			UserID: userID,
			User:   o.summary(ctx, userID),
		}))
	}
}

// Typing updates the typing indicator of a room or a direct conversation.
// Room typing is only accepted in a room the user has open.
func (o *Orchestrator) Typing(ctx context.Context, userID, transportID string, input TypingInput) error {
	unlock := o.userLocks.Lock(userID)
	defer unlock()

	if !o.registry.IsActive(userID, transportID) {
		return errors.ErrSessionClosing
	}

	switch {
	case input.RoomID != "" && !o.index.IsPresent(input.RoomID, userID):
		o.sendError(ctx, userID, "typing", input.RoomID, errors.ErrAccessDenied)
		return errors.ErrAccessDenied
	case input.RoomID == "" && (input.ReceiverID == "" || input.ReceiverID == userID):
		return errors.ErrInvalidPayload
	}

	o.touch(ctx, userID, func(p *domain.Presence) {
		p.Activity = lo.Ternary(input.IsTyping, domain.ActivityTyping, domain.ActivityViewing)
	})

	if input.RoomID != "" {
		unlockRoom := o.roomLocks.Lock(input.RoomID)
		defer unlockRoom()
		if changed, typers := o.typing.Set(RoomScope(input.RoomID), userID, input.IsTyping); changed {
			o.broadcastRoomTyping(ctx, input.RoomID, userID, input.IsTyping, typers)
		}
		return nil
	}

	if changed, _ := o.typing.Set(DirectScope(input.ReceiverID), userID, input.IsTyping); changed {
		o.broadcaster.ToUser(ctx, input.ReceiverID, event.New(event.UserTypingType, event.UserTyping{
			UserID:   userID,
			User:     o.summary(ctx, userID),
			IsTyping: input.IsTyping,
		}))
	}
	return nil
}

// Mention relays a mention to the mentioned user when they are connected.
func (o *Orchestrator) Mention(ctx context.Context, userID, transportID string, input MentionInput) error {
	unlock := o.userLocks.Lock(userID)
	defer unlock()

	if !o.registry.IsActive(userID, transportID) {
		return errors.ErrSessionClosing
	}
	if input.MentionedUserID == userID {
		return nil
	}
	o.broadcaster.ToUser(ctx, input.MentionedUserID, event.New(event.MentionedType, event.Mentioned{
		MessageID:   input.MessageID,
		RoomID:      input.RoomID,
		RoomName:    input.RoomName,
		MentionedBy: o.summary(ctx, userID),
		Message:     input.Message,
		Timestamp:   o.now(),
	}))
	return nil
}

// touch applies change to the presence record, refreshes lastActivity and
// brings an away user back online. The user record follows.
func (o *Orchestrator) touch(ctx context.Context, userID string, change func(p *domain.Presence)) {
	now := o.now()
	presence, _, err := o.presence.Upsert(ctx, userID, func(p *domain.Presence) bool {
		change(p)
		p.LastActivity = now
		if p.Status == domain.StatusAway {
			p.Status = domain.StatusOnline
		}
		return true
	})
	if err != nil {
		o.log.Error("Unable to update presence", "user_id", userID, "error", err)
		return
	}
	o.mirror(ctx, userID, domain.OnlineFlags{
		Status:        &presence.Status,
		CurrentRoomID: &presence.CurrentRoomID,
	})
}

func (o *Orchestrator) mirror(ctx context.Context, userID string, flags domain.OnlineFlags) {
	if err := o.users.UpdateOnlineFlags(ctx, userID, flags); err != nil {
		o.log.Warn("Unable to mirror presence on user", "user_id", userID, "error", err)
	}
}

func (o *Orchestrator) broadcastOnlineUsers(ctx context.Context) {
	o.broadcaster.ToAll(ctx, event.New(event.OnlineUsersType, event.OnlineUsers{
		UserIDs: o.registry.OnlineUserIDs(),
	}))
}

func (o *Orchestrator) broadcastRoomTyping(ctx context.Context, roomID, userID string, isTyping bool, typers []string) {
	o.broadcaster.ToPresent(ctx, roomID, event.New(event.UserTypingType, event.UserTyping{
		UserID:      userID,
		User:        o.summary(ctx, userID),
		RoomID:      roomID,
		IsTyping:    isTyping,
		TypingUsers: typers,
	}), userID)
}

func (o *Orchestrator) roomOnlineUsers(ctx context.Context, roomID string) event.Event {
	present := o.index.Present(roomID)
	users, err := o.users.GetMany(ctx, present)
	if err != nil {
		o.log.Warn("Unable to load room users", "room_id", roomID, "error", err)
		users = lo.Map(present, func(id string, _ int) domain.User { return domain.User{ID: id} })
	}
	return event.New(event.RoomOnlineUsersType, event.RoomOnlineUsers{
		RoomID: roomID,
		Users:  lo.Map(users, func(u domain.User, _ int) domain.UserSummary { return u.Summary() }),
	})
}

func (o *Orchestrator) summary(ctx context.Context, userID string) domain.UserSummary {
	user, err := o.users.Get(ctx, userID)
	if err != nil {
		return domain.UserSummary{ID: userID}
	}
	return user.Summary()
}

func (o *Orchestrator) sendError(ctx context.Context, userID, action, roomID string, err error) {
	o.broadcaster.ToUser(ctx, userID, event.New(event.ErrorType, event.Error{
		Action:  action,
		RoomID:  roomID,
		Message: err.Error(),
	}))
}
