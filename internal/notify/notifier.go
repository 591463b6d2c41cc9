package notify

import (
	"context"

	"go.uber.org/zap"
)

// Kind identifies what happened to a hand-off.
type Kind string

const (
	KindDocumentSent      Kind = "document.sent"
	KindDocumentReplied   Kind = "document.replied"
	KindDocumentForwarded Kind = "document.forwarded"
	KindStatusChanged     Kind = "document.status_changed"
)

// Event is one notification to be delivered to a recipient. Payload content
// is opaque to the dispatcher.
type Event struct {
	RecipientID string
	Kind        Kind
	Payload     map[string]any
}

// Queue accepts events for asynchronous delivery. Satisfied by Dispatcher;
// kept as an interface so services can be tested with an in-memory recorder.
type Queue interface {
	Enqueue(ev Event)
}

// Notifier delivers a single notification. Implementations are external
// collaborators (email, push); delivery is best-effort and the engine never
// retries or blocks on it.
type Notifier interface {
	Notify(ctx context.Context, recipientID string, kind Kind, payload map[string]any) error
}

// LogNotifier writes notifications to the application log. It is the default
// backend for environments without a delivery collaborator configured.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

var _ Notifier = (*LogNotifier)(nil)

func (n *LogNotifier) Notify(_ context.Context, recipientID string, kind Kind, payload map[string]any) error {
	n.log.Info("notification",
		zap.String("recipient_id", recipientID),
		zap.String("kind", string(kind)),
		zap.Any("payload", payload),
	)
	return nil
}
