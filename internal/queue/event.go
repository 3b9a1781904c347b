// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

import (
	"fmt"
	"time"
)

// Action names a mutation recorded on the audit bus.
type Action string

const (
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionDeleteAll Action = "delete_all"
	ActionLogin     Action = "login"
)

// AuditEvent is published after every successful mutation.  Count is set
// for bulk deletes only.
type AuditEvent struct {
	Resource  string    `json:"resource"`
	Action    Action    `json:"action"`
	ID        string    `json:"id,omitempty"`
	ActorID   string    `json:"actor_id,omitempty"`
	ActorRole string    `json:"actor_role,omitempty"`
	Count     int64     `json:"count,omitempty"`
	At        time.Time `json:"at"`
}

// Line renders the event the way it is appended to audit.log.
func (ev AuditEvent) Line() string {
	actor := ev.ActorID
	if actor == "" {
		actor = "anonymous"
	}
	line := fmt.Sprintf("[%s] %s %s | actor=%s", ev.At.UTC().Format(time.RFC3339), ev.Resource, ev.Action, actor)
	if ev.ActorRole != "" {
		line += " role=" + ev.ActorRole
	}
	if ev.ID != "" {
		line += " | id=" + ev.ID
	}
	if ev.Action == ActionDeleteAll {
		line += fmt.Sprintf(" | count=%d", ev.Count)
	}
	return line + "\n"
}
