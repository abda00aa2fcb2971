package bootstrap

import "context"

// AuditEvent is an operational event that must reach the logs
// regardless of log level. Money movement stays in the ledger tables;
// this covers process lifecycle and administrative actions.
type AuditEvent struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditEvent)
}
