//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"hive-chat/contract"
	"hive-chat/domain"
	"hive-chat/domain/event"
	"hive-chat/errors"
	"hive-chat/mention"
	"hive-chat/repositories"
	"hive-chat/runtime"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IChatService interface {
	SendDirectMessage(ctx context.Context, senderID, receiverID, text, image string) (domain.Message, error)
	SendRoomMessage(ctx context.Context, senderID, roomID, text, image string) (domain.Message, error)
	ToggleReaction(ctx context.Context, userID, messageID, emoji string) (domain.Message, error)
	Reply(ctx context.Context, userID, parentID, text string) (domain.Message, error)
	TogglePin(ctx context.Context, userID, messageID string) (domain.Message, error)
	DeleteMessage(ctx context.Context, userID, messageID string) (domain.Message, error)
	MuteMember(ctx context.Context, moderatorID, roomID, targetID string, duration time.Duration) error
	UnmuteMember(ctx context.Context, moderatorID, roomID, targetID string) error
	GetDirectMessages(ctx context.Context, userID, peerID string, cursor *string) ([]domain.Message, *string, error)
	GetRoomMessages(ctx context.Context, userID, roomID string, cursor *string) ([]domain.Message, *string, error)
	GetReplies(ctx context.Context, userID, parentID string) ([]domain.Message, error)
}

// ChatService runs the message actions. Each one persists first and
// broadcasts second, under the lock of the room or conversation it touches,
// so the events of one room leave in the order their writes completed.
type ChatService struct {
	log           *slog.Logger
	users         repositories.IUserRepository
	rooms         repositories.IRoomRepository
	messages      repositories.IMessageRepository
	notifications INotificationService
	broadcaster   contract.Broadcaster
	locks         *runtime.KeyedMutex
	now           func() time.Time
}

func NewChatService(
	log *slog.Logger,
	users repositories.IUserRepository,
	rooms repositories.IRoomRepository,
	messages repositories.IMessageRepository,
	notifications INotificationService,
	broadcaster contract.Broadcaster,
	locks *runtime.KeyedMutex,
) *ChatService {
	return &ChatService{
		log:           log,
		users:         users,
		rooms:         rooms,
		messages:      messages,
		notifications: notifications,
		broadcaster:   broadcaster,
		locks:         locks,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func conversationLock(userID, peerID string) string {
	pair := []string{userID, peerID}
	sort.Strings(pair)
	return "direct:" + strings.Join(pair, "|")
}

func lockKey(m domain.Message) string {
	if m.IsRoom() {
		return m.RoomID
	}
	return conversationLock(m.SenderID, m.ReceiverID)
}

func (s *ChatService) SendDirectMessage(ctx context.Context, senderID, receiverID, text, image string) (domain.Message, error) {
	if strings.TrimSpace(text) == "" && image == "" {
		return domain.Message{}, errors.ErrEmptyMessage
	}
	if receiverID == senderID {
		return domain.Message{}, errors.ErrInvalidPayload
	}
	sender, err := s.users.Get(ctx, senderID)
	if err != nil {
		return domain.Message{}, err
	}
	if _, err = s.users.Get(ctx, receiverID); err != nil {
		return domain.Message{}, fmt.Errorf("receiver %s: %w", receiverID, err)
	}
	candidates, err := s.users.List(ctx)
	if err != nil {
		return domain.Message{}, err
	}
	mentioned := s.resolveMentions(text, senderID, candidates)

	message := domain.Message{
		ID:         uuid.NewString(),
		Kind:       domain.KindDirect,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Image:      image,
		Mentions:   ids(mentioned),
		CreatedAt:  s.now(),
	}
	if err = s.persistAndEmit(ctx, message, func() {
		s.broadcaster.ToUser(ctx, receiverID, event.New(event.NewMessageType, event.NewMessage{Message: message}))
	}); err != nil {
		return domain.Message{}, err
	}

	s.notify(ctx, CreateNotification{
		RecipientID: receiverID,
		SenderID:    senderID,
		Type:        domain.NotificationDirectMessage,
		Title:       "New message",
		Message:     fmt.Sprintf("%s sent you a message", sender.FullName),
		Data:        domain.NotificationData{MessageID: message.ID, SenderID: senderID, SenderName: sender.FullName},
	})
	s.notifyMentions(ctx, sender, message, domain.Room{}, mentioned)
	return message, nil
}

func (s *ChatService) SendRoomMessage(ctx context.Context, senderID, roomID, text, image string) (domain.Message, error) {
	if strings.TrimSpace(text) == "" && image == "" {
		return domain.Message{}, errors.ErrEmptyMessage
	}
	room, err := s.rooms.CheckMembership(ctx, roomID, senderID)
	if err != nil {
		return domain.Message{}, err
	}
	if room.IsMuted(senderID) {
		return domain.Message{}, errors.ErrMuted
	}
	candidates, err := s.users.GetMany(ctx, room.MemberIDs())
	if err != nil {
		return domain.Message{}, err
	}
	sender, _ := lo.Find(candidates, func(u domain.User) bool { return u.ID == senderID })
	mentioned := s.resolveMentions(text, senderID, candidates)

	message := domain.Message{
		ID:        uuid.NewString(),
		Kind:      domain.KindRoom,
		SenderID:  senderID,
		RoomID:    roomID,
		Text:      text,
		Image:     image,
		Mentions:  ids(mentioned),
		CreatedAt: s.now(),
	}
	if err = s.persistAndEmit(ctx, message, func() {
		s.broadcaster.ToRoom(ctx, roomID, event.New(event.NewRoomMessageType, event.NewMessage{Message: message}))
	}); err != nil {
		return domain.Message{}, err
	}
	s.notifyMentions(ctx, sender, message, room, mentioned)
	return message, nil
}

func (s *ChatService) ToggleReaction(ctx context.Context, userID, messageID, emoji string) (domain.Message, error) {
	if emoji == "" {
		return domain.Message{}, errors.ErrInvalidPayload
	}
	message, _, err := s.authorize(ctx, userID, messageID)
	if err != nil {
		return domain.Message{}, err
	}

	var added bool
	message, err = s.mutate(ctx, message, func(m *domain.Message) error {
		m.ToggleReaction(emoji, userID)
		added = lo.ContainsBy(m.Reactions, func(r domain.Reaction) bool {
			return r.Emoji == emoji && lo.Contains(r.Users, userID)
		})
		return nil
	}, func(m domain.Message) {
		s.emit(ctx, m, userID, false, event.New(event.ReactionUpdateType, event.ReactionUpdate{MessageID: m.ID, Reactions: m.Reactions}))
	})
	if err != nil {
		return domain.Message{}, err
	}

	if added && message.SenderID != userID {
		name := s.fullName(ctx, userID)
		s.notify(ctx, CreateNotification{
			RecipientID: message.SenderID,
			SenderID:    userID,
			Type:        domain.NotificationReaction,
			Title:       "New reaction",
			Message:     fmt.Sprintf("%s reacted %s to your message", name, emoji),
			Data:        domain.NotificationData{MessageID: message.ID, RoomID: message.RoomID, SenderID: userID, SenderName: name, Emoji: emoji},
		})
	}
	return message, nil
}

func (s *ChatService) Reply(ctx context.Context, userID, parentID, text string) (domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Message{}, errors.ErrEmptyMessage
	}
	parent, _, err := s.authorize(ctx, userID, parentID)
	if err != nil {
		return domain.Message{}, err
	}
	reply := domain.Message{
		ID:        uuid.NewString(),
		Kind:      parent.Kind,
		SenderID:  userID,
		RoomID:    parent.RoomID,
		Text:      text,
		ParentID:  parent.ID,
		ReplyToID: parent.ID,
		CreatedAt: s.now(),
	}
	if !parent.IsRoom() {
		reply.ReceiverID = parent.Peer(userID)
	}

	_, err = s.mutate(ctx, parent, func(m *domain.Message) error {
		if err := s.messages.Save(ctx, reply); err != nil {
			return err
		}
		m.Replies = append(m.Replies, reply.ID)
		return nil
	}, func(m domain.Message) {
		s.emit(ctx, m, userID, false, event.New(event.NewReplyType, event.NewReply{ParentMessageID: m.ID, Reply: reply}))
	})
	if err != nil {
		return domain.Message{}, err
	}

	if parent.SenderID != userID {
		name := s.fullName(ctx, userID)
		s.notify(ctx, CreateNotification{
			RecipientID: parent.SenderID,
			SenderID:    userID,
			Type:        domain.NotificationReply,
			Title:       "New reply",
			Message:     fmt.Sprintf("%s replied to your message", name),
			Data:        domain.NotificationData{MessageID: reply.ID, RoomID: reply.RoomID, SenderID: userID, SenderName: name},
		})
	}
	return reply, nil
}

// TogglePin is reserved to the owner in a room and open to both participants
// of a direct conversation.
func (s *ChatService) TogglePin(ctx context.Context, userID, messageID string) (domain.Message, error) {
	message, room, err := s.authorize(ctx, userID, messageID)
	if err != nil {
		return domain.Message{}, err
	}
	if message.IsRoom() && !room.IsOwner(userID) {
		return domain.Message{}, errors.ErrAccessDenied
	}

	message, err = s.mutate(ctx, message, func(m *domain.Message) error {
		m.IsPinned = !m.IsPinned
		if m.IsRoom() {
			return s.rooms.SetPinned(ctx, m.RoomID, m.ID, m.IsPinned)
		}
		return nil
	}, func(m domain.Message) {
		s.emit(ctx, m, userID, true, event.New(event.MessagePinnedType, event.MessagePinned{MessageID: m.ID, IsPinned: m.IsPinned}))
	})
	if err != nil {
		return domain.Message{}, err
	}

	if message.IsPinned && message.SenderID != userID {
		name := s.fullName(ctx, userID)
		s.notify(ctx, CreateNotification{
			RecipientID: message.SenderID,
			SenderID:    userID,
			Type:        domain.NotificationMessagePin,
			Title:       "Message pinned",
			Message:     fmt.Sprintf("%s pinned your message", name),
			Data:        domain.NotificationData{MessageID: message.ID, RoomID: message.RoomID, RoomName: room.Name, SenderID: userID, SenderName: name},
		})
	}
	return message, nil
}

// DeleteMessage soft deletes a message. The sender may delete it, and so may
// the owner of the room it was posted in.
func (s *ChatService) DeleteMessage(ctx context.Context, userID, messageID string) (domain.Message, error) {
	message, room, err := s.authorize(ctx, userID, messageID)
	if err != nil {
		return domain.Message{}, err
	}
	if message.SenderID != userID && !(message.IsRoom() && room.IsOwner(userID)) {
		return domain.Message{}, errors.ErrAccessDenied
	}
	return s.mutate(ctx, message, func(m *domain.Message) error {
		m.SoftDelete()
		return nil
	}, func(m domain.Message) {
		s.emit(ctx, m, userID, true, event.New(event.MessageDeletedType, event.MessageDeleted{MessageID: m.ID, Text: m.Text}))
	})
}

// MuteMember mutes targetID in the room. A zero duration mutes until an
// explicit unmute. The owner can't be muted.
func (s *ChatService) MuteMember(ctx context.Context, moderatorID, roomID, targetID string, duration time.Duration) error {
	room, err := s.moderate(ctx, moderatorID, roomID, targetID)
	if err != nil {
		return err
	}
	var until *time.Time
	if duration > 0 {
		until = lo.ToPtr(s.now().Add(duration))
	}

	unlock := s.locks.Lock(roomID)
	if err = s.rooms.SetMute(ctx, roomID, targetID, true, until); err != nil {
		unlock()
		return err
	}
	s.broadcaster.ToRoom(ctx, roomID, event.New(event.UserMutedType, event.UserMuted{UserID: targetID, RoomID: roomID, MutedUntil: until}))
	unlock()

	s.notify(ctx, CreateNotification{
		RecipientID: targetID,
		SenderID:    moderatorID,
		Type:        domain.NotificationUserMuted,
		Title:       "You were muted",
		Message:     fmt.Sprintf("You were muted in %s", room.Name),
		Data:        domain.NotificationData{RoomID: roomID, RoomName: room.Name, SenderID: moderatorID},
	})
	return nil
}

func (s *ChatService) UnmuteMember(ctx context.Context, moderatorID, roomID, targetID string) error {
	if _, err := s.moderate(ctx, moderatorID, roomID, targetID); err != nil {
		return err
	}
	unlock := s.locks.Lock(roomID)
	defer unlock()
	if err := s.rooms.SetMute(ctx, roomID, targetID, false, nil); err != nil {
		return err
	}
	s.broadcaster.ToRoom(ctx, roomID, event.New(event.UserUnmutedType, event.UserUnmuted{UserID: targetID, RoomID: roomID}))
	return nil
}

func (s *ChatService) GetDirectMessages(ctx context.Context, userID, peerID string, cursor *string) ([]domain.Message, *string, error) {
	return s.messages.ListDirect(ctx, userID, peerID, cursor)
}

func (s *ChatService) GetRoomMessages(ctx context.Context, userID, roomID string, cursor *string) ([]domain.Message, *string, error) {
	if _, err := s.rooms.CheckMembership(ctx, roomID, userID); err != nil {
		return nil, nil, err
	}
	return s.messages.ListRoom(ctx, roomID, cursor)
}

func (s *ChatService) GetReplies(ctx context.Context, userID, parentID string) ([]domain.Message, error) {
	if _, _, err := s.authorize(ctx, userID, parentID); err != nil {
		return nil, err
	}
	return s.messages.ListReplies(ctx, parentID)
}

// authorize loads a message the user is allowed to see: a member of its
// room, or a participant of its direct conversation.
func (s *ChatService) authorize(ctx context.Context, userID, messageID string) (domain.Message, domain.Room, error) {
	message, err := s.messages.Get(ctx, messageID)
	if err != nil {
		return domain.Message{}, domain.Room{}, err
	}
	if message.IsDeleted {
		return domain.Message{}, domain.Room{}, errors.ErrNotFound
	}
	if !message.IsRoom() {
		if !message.IsParticipant(userID) {
			return domain.Message{}, domain.Room{}, errors.ErrAccessDenied
		}
		return message, domain.Room{}, nil
	}
	room, err := s.rooms.CheckMembership(ctx, message.RoomID, userID)
	if err != nil {
		return domain.Message{}, domain.Room{}, err
	}
	return message, room, nil
}

func (s *ChatService) moderate(ctx context.Context, moderatorID, roomID, targetID string) (domain.Room, error) {
	room, err := s.rooms.CheckMembership(ctx, roomID, moderatorID)
	if err != nil {
		return domain.Room{}, err
	}
	if !room.CanModerate(moderatorID) || room.IsOwner(targetID) || moderatorID == targetID {
		return domain.Room{}, errors.ErrAccessDenied
	}
	if !room.IsMember(targetID) {
		return domain.Room{}, fmt.Errorf("member %s: %w", targetID, errors.ErrNotFound)
	}
	return room, nil
}

func (s *ChatService) persistAndEmit(ctx context.Context, message domain.Message, emit func()) error {
	unlock := s.locks.Lock(lockKey(message))
	defer unlock()
	if err := s.messages.Save(ctx, message); err != nil {
		return err
	}
	emit()
	return nil
}

// mutate reloads the message under its lock, applies change, saves it and emits.
func (s *ChatService) mutate(ctx context.Context, message domain.Message, change func(m *domain.Message) error, emit func(m domain.Message)) (domain.Message, error) {
	unlock := s.locks.Lock(lockKey(message))
	defer unlock()

	current, err := s.messages.Get(ctx, message.ID)
	if err != nil {
		return domain.Message{}, err
	}
	if err = change(&current); err != nil {
		return domain.Message{}, err
	}
	if err = s.messages.Save(ctx, current); err != nil {
		return domain.Message{}, err
	}
	emit(current)
	return current, nil
}

// emit sends a message event to its room, or to the direct peer. withActor
// also delivers a direct event to the acting participant.
func (s *ChatService) emit(ctx context.Context, m domain.Message, actorID string, withActor bool, evt event.Event) {
	if m.IsRoom() {
		s.broadcaster.ToRoom(ctx, m.RoomID, evt)
		return
	}
	if withActor {
		s.broadcaster.ToUsers(ctx, []string{m.SenderID, m.ReceiverID}, evt)
		return
	}
	s.broadcaster.ToUser(ctx, m.Peer(actorID), evt)
}

func (s *ChatService) resolveMentions(text, senderID string, candidates []domain.User) []domain.User {
	mentioned, err := mention.Resolve(text, senderID, candidates)
	if err != nil {
		s.log.Warn("Unable to resolve mentions", "user_id", senderID, "error", err)
		return nil
	}
	return mentioned
}

// notifyMentions stores a mention notification for each mentioned user and
// relays a live mentioned event to those connected.
func (s *ChatService) notifyMentions(ctx context.Context, sender domain.User, message domain.Message, room domain.Room, mentioned []domain.User) {
	where := "a message"
	if room.ID != "" {
		where = room.Name
	}
	for _, user := range mentioned {
		s.notify(ctx, CreateNotification{
			RecipientID: user.ID,
			SenderID:    sender.ID,
			Type:        domain.NotificationMention,
			Title:       "New mention",
			Message:     fmt.Sprintf("%s mentioned you in %s", sender.FullName, where),
			Data: domain.NotificationData{
				MessageID:  message.ID,
				RoomID:     room.ID,
				RoomName:   room.Name,
				SenderID:   sender.ID,
				SenderName: sender.FullName,
			},
		})
		s.broadcaster.ToUser(ctx, user.ID, event.New(event.MentionedType, event.Mentioned{
			MessageID:   message.ID,
			RoomID:      room.ID,
			RoomName:    room.Name,
			MentionedBy: sender.Summary(),
			Message:     message.Text,
			Timestamp:   message.CreatedAt,
		}))
	}
}

func (s *ChatService) notify(ctx context.Context, input CreateNotification) {
	if _, err := s.notifications.Create(ctx, input); err != nil {
		s.log.Error("Unable to create notification", "user_id", input.RecipientID, "type", input.Type, "error", err)
	}
}

func (s *ChatService) fullName(ctx context.Context, userID string) string {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return userID
	}
	return user.FullName
}

func ids(users []domain.User) []string {
	return lo.Map(users, func(u domain.User, _ int) string { return u.ID })
}
