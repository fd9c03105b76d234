package websocket

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"

	"hive-chat/auth"
	"hive-chat/domain/event"
	"hive-chat/errors"
	"hive-chat/runtime"
	"hive-chat/services"

	"github.com/go-playground/validator/v10"
)

// Presence is the part of the orchestrator driven by inbound frames.
type Presence interface {
	Connect(ctx context.Context, session runtime.Session) error
	Disconnect(ctx context.Context, userID, transportID string)
	JoinRooms(ctx context.Context, userID, transportID string, roomIDs []string) error
	JoinRoom(ctx context.Context, userID, transportID, roomID string) error
	LeaveRoom(ctx context.Context, userID, transportID, roomID string) error
	Typing(ctx context.Context, userID, transportID string, input runtime.TypingInput) error
	Mention(ctx context.Context, userID, transportID string, input runtime.MentionInput) error
}

var _ Presence = (*runtime.Orchestrator)(nil)

const (
	JoinRoomsEvent     = "joinRooms"
	JoinRoomEvent      = "joinRoom"
	LeaveRoomEvent     = "leaveRoom"
	TypingEvent        = "typing"
	MentionEvent       = "mention"
	SendMessageEvent   = "sendMessage"
	ReactEvent         = "react"
	ReplyEvent         = "reply"
	PinEvent           = "pin"
	DeleteMessageEvent = "deleteMessage"
	MuteUserEvent      = "muteUser"
	UnmuteUserEvent    = "unmuteUser"

	GetMessagesEvent              = "getMessages"
	GetRepliesEvent               = "getReplies"
	GetNotificationsEvent         = "getNotifications"
	MarkNotificationReadEvent     = "markNotificationRead"
	MarkAllNotificationsReadEvent = "markAllNotificationsRead"
	DeleteNotificationEvent       = "deleteNotification"
)

// Dispatcher routes decoded frames to the presence protocol, the chat commands
// and the notification inbox. Presence handlers report their own access
// failures to the session, the dispatcher reports malformed frames and failed
// commands. Queries are answered on the asking session only.
type Dispatcher struct {
	log           *slog.Logger
	presence      Presence
	chat          services.IChatService
	notifications services.INotificationService
	validate      *validator.Validate
}

func NewDispatcher(log *slog.Logger, presence Presence, chat services.IChatService, notifications services.INotificationService) *Dispatcher {
	return &Dispatcher{
		log:           log,
		presence:      presence,
		chat:          chat,
		notifications: notifications,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, session runtime.Session, frame Frame) error {
	err := d.dispatch(ctx, session, frame)
	if err == nil {
		return nil
	}
	if d.reported(frame.Event, err) {
		return err
	}
	d.log.Debug("Command failed",
		"user_id", session.UserID,
		"event", frame.Event,
		"error", err)
	errorEvent := event.New(event.ErrorType, event.Error{Action: frame.Event, Message: err.Error()})
	if sinkErr := session.Sink.Consume(ctx, errorEvent); sinkErr != nil {
		d.log.Debug("Unable to report error", "user_id", session.UserID, "error", sinkErr)
	}
	return err
}

// reported tells whether the presence protocol already sent the error event itself.
func (d *Dispatcher) reported(name string, err error) bool {
	switch name {
	case JoinRoomsEvent, JoinRoomEvent, TypingEvent:
		return stdErrors.Is(err, errors.ErrAccessDenied) || stdErrors.Is(err, errors.ErrNotFound)
	}
	return false
}

func (d *Dispatcher) dispatch(ctx context.Context, session runtime.Session, frame Frame) error {
	userID, transportID := session.UserID, session.TransportID
	if authenticated, ok := auth.UserIDFromContext(ctx); ok && authenticated != userID {
		return errors.ErrAccessDenied
	}
	switch frame.Event {
	case JoinRoomsEvent:
		p, err := decode[JoinRoomsPayload](d.validate, frame.Data)
		if err != nil {
			return err
		}
		return d.presence.JoinRooms(ctx, userID, transportID, p.RoomIDs)
	case JoinRoomEvent:
		p, err := decode[RoomPayload](d.validate, frame.Data)
		if err != nil {
			return err
		}
		return d.presence.JoinRoom(ctx, userID, transportID, p.RoomID)
	case LeaveRoomEvent:
		p, err := decode[RoomPayload](d.validate, frame.Data)
		if err != nil {
			return err
		}
		return d.presence.LeaveRoom(ctx, userID, transportID, p.RoomID)
	case TypingEvent:
		p, err := decode[TypingPayload](d.validate, frame.Data)
		if err != nil {
			return err
		}
		return d.presence.Typing(ctx, userID, transportID, runtime.TypingInput{
			RoomID:     p.RoomID,
			ReceiverID: p.ReceiverID,
			IsTyping:   p.IsTyping,
		})
	case MentionEvent:
		p, err := decode[MentionPayload](d.validate, frame.Data)
		if err != nil {
			return err
		}
		return d.presence.Mention(ctx, userID, transportID, runtime.MentionInput{
			MentionedUserID: p.MentionedUserID,
			MessageID:       p.MessageID,
			RoomID:          p.RoomID,
			RoomName:        p.RoomName,
			Message:         p.Message,
		})
	case SendMessageEvent:
		p, err := decode[SendMessagePayload](d.validate, frame.Data)
		if err != nil {
			return err
		}
		if p.RoomID != "" {
			_, err = d.chat.SendRoomMessage(ctx, userID, p.RoomID, p.Text, p.Image)
		} else {
			_, err = d.chat.SendDirectMessage(ctx, userID, p.ReceiverID, p.Text, p.Image)
		}
		return err
	case ReactEvent:
		p, err := decode[ReactPayload](d.validate, frame.Data)
		if err != nil {
			return err
		}
		_, err = d.chat.ToggleReaction(ctx, userID, p.MessageID, p.Emoji)
		return err
	case ReplyEvent:
		p, err := decode[ReplyPayload](d.validate, frame.Data)
		if err != nil {
			return err
		}
		_, err = d.chat.Reply(ctx, userID, p.ParentID, p.Text)
		return err
	case PinEvent:
		p, err := decode[MessagePayload](d.validate, frame.Data)
		if err != nil {
			return err
		}
		_, err = d.chat.TogglePin(ctx, userID, p.MessageID)
		return err
	case DeleteMessageEvent:
		p, err := decode[MessagePayload](d.validate, frame.Data)
		if err != nil {
			return err
		}
		_, err = d.chat.DeleteMessage(ctx, userID, p.MessageID)
		return err
	case MuteUserEvent:
		p, err := decode[MutePayload](d.validate, frame.Data)
		if err != nil {
			return err
		}
		return d.chat.MuteMember(ctx, userID, p.RoomID, p.UserID, p.Duration())
	case UnmuteUserEvent:
		p, err := decode[MemberPayload](d.validate, frame.Data)
		if err != nil {
			return err
		}
		return d.chat.UnmuteMember(ctx, userID, p.RoomID, p.UserID)
	case GetMessagesEvent:
		p, err := decode[GetMessagesPayload](d.validate, frame.Data)
		if err != nil {
			return err
		}
		var page event.Messages
		if p.RoomID != "" {
			page.RoomID = p.RoomID
			page.Messages, page.NextCursor, err = d.chat.GetRoomMessages(ctx, userID, p.RoomID, p.Cursor)
		} else {
			page.PeerID = p.ReceiverID
			page.Messages, page.NextCursor, err = d.chat.GetDirectMessages(ctx, userID, p.ReceiverID, p.Cursor)
		}
		if err != nil {
			return err
		}
		return d.answer(ctx, session, event.New(event.MessagesType, page))
	case GetRepliesEvent:
		p, err := decode[GetRepliesPayload](d.validate, frame.Data)
		if err != nil {
			return err
		}
		replies, err := d.chat.GetReplies(ctx, userID, p.ParentID)
		if err != nil {
			return err
		}
		return d.answer(ctx, session, event.New(event.RepliesType, event.Replies{ParentMessageID: p.ParentID, Replies: replies}))
	case GetNotificationsEvent:
		p := GetNotificationsPayload{}
		if len(frame.Data) > 0 {
			var err error
			if p, err = decode[GetNotificationsPayload](d.validate, frame.Data); err != nil {
				return err
			}
		}
		page, err := d.notifications.List(ctx, userID, p.Page, p.Limit)
		if err != nil {
			return err
		}
		return d.answer(ctx, session, event.New(event.NotificationsType, event.Notifications{NotificationPage: page}))
	case MarkNotificationReadEvent:
		p, err := decode[NotificationPayload](d.validate, frame.Data)
		if err != nil {
			return err
		}
		notification, err := d.notifications.MarkAsRead(ctx, userID, p.NotificationID)
		if err != nil {
			return err
		}
		return d.answer(ctx, session, event.New(event.NotificationReadType, event.NotificationRead{Notification: notification}))
	case MarkAllNotificationsReadEvent:
		count, err := d.notifications.MarkAllAsRead(ctx, userID)
		if err != nil {
			return err
		}
		return d.answer(ctx, session, event.New(event.AllNotificationsReadType, event.AllNotificationsRead{Count: count}))
	case DeleteNotificationEvent:
		p, err := decode[NotificationPayload](d.validate, frame.Data)
		if err != nil {
			return err
		}
		if err = d.notifications.Delete(ctx, userID, p.NotificationID); err != nil {
			return err
		}
		return d.answer(ctx, session, event.New(event.NotificationDeletedType, event.NotificationDeleted{NotificationID: p.NotificationID}))
	default:
		return fmt.Errorf("%w: %q", errors.ErrUnknownEvent, frame.Event)
	}
}

func (d *Dispatcher) answer(ctx context.Context, session runtime.Session, evt event.Event) error {
	if err := session.Sink.Consume(ctx, evt); err != nil {
		return fmt.Errorf("unable to answer %s: %w", evt.Type, err)
	}
	return nil
}
