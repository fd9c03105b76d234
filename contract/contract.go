//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"hive-chat/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	if named, ok := w.(interface{ Name() string }); ok {
		return named.Name()
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is the outbound side of one transport session.
// Consume must not block the caller for longer than ctx allows.
type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
	Close()
}

// Broadcaster routes events to connected users. Every method is best effort
// and reports how many sessions the event reached.
type Broadcaster interface {
	ToUser(ctx context.Context, userID string, evt event.Event) bool
	ToUsers(ctx context.Context, userIDs []string, evt event.Event) int
	ToRoom(ctx context.Context, roomID string, evt event.Event, exclude ...string) int
	ToAll(ctx context.Context, evt event.Event) int
}
