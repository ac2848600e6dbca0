// FilePath: internal/audit/audit.go
package audit

import (
	nuts "github.com/vaudience/go-nuts"
)

// Event names emitted by the hub service on security-relevant actions.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
	EventLoginFailed = "login.failed"
)

// Service is an in-process event registry for audit-worthy actions.
// Mutations and failed logins are emitted here and picked up by whatever
// handlers the server registers (monitoring, log forwarding).
type Service struct {
	events *nuts.EventEmitter
}

// New creates a new audit Service
func New() *Service {
	return &Service{
		events: nuts.NewEventEmitter(),
	}
}

// Record emits an audit event for the given subject id or email.
func (s *Service) Record(event, subject string) {
	s.events.Emit(event, subject)
}

// OnEvent registers a callback for an audit event
func (s *Service) OnEvent(event string, handler func(subject string)) {
	s.events.On(event, "audit_handler", func(args ...interface{}) {
		if len(args) > 0 {
			if subject, ok := args[0].(string); ok {
				handler(subject)
			}
		}
	})
}
