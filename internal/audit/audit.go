package audit

import (
	"context"

	"github.com/stationv/relay/internal/log"
)

// Audit actions for the relay.
const (
	ActionRegister   = "relay.register"
	ActionJoin       = "relay.join"
	ActionPart       = "relay.part"
	ActionMessage    = "relay.message"
	ActionNick       = "relay.nick"
	ActionTopic      = "relay.topic"
	ActionDisconnect = "relay.disconnect"
)

// Field constants for audit entries.
const (
	FieldAction = "action"
	FieldDetail = "detail"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action string, nickname string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldNickname, nickname).
		Msg(msg)
}

// LogWithDetail emits an audit log with extra detail field.
func LogWithDetail(ctx context.Context, action string, nickname string, detail string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldNickname, nickname).
		Str(FieldDetail, detail).
		Msg(msg)
}
