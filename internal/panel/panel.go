// Package panel renders persisted notifications into the display entries the
// in-app notification panel shows. Rendering dispatches on the payload's
// type tag through a registry, so adding a type never touches shared logic.
package panel

import (
	"fmt"
	"regexp"
	"time"

	"github.com/nexscholar/backend/internal/models"
	"github.com/nexscholar/backend/internal/notify"
)

// Entry is one human-readable line in the notification panel
type Entry struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// Renderer turns a notification payload into display text
type Renderer func(data models.JSONMap) string

var renderers = map[string]Renderer{}

// Register binds a renderer to a notification type tag. Later registrations
// replace earlier ones.
func Register(notificationType string, r Renderer) {
	renderers[notificationType] = r
}

func init() {
	Register(notify.TypeTaskAssigned, func(data models.JSONMap) string {
		return fmt.Sprintf("%s assigned you the task \"%s\"",
			data.String("assigner_name", "Someone"), data.String("task_title", "Unknown Task"))
	})
	Register(notify.TypeTaskDueDateChanged, func(data models.JSONMap) string {
		return fmt.Sprintf("%s changed the due date of \"%s\" from %s to %s",
			data.String("changed_by", "Someone"), data.String("task_title", "Unknown Task"),
			data.String("old_due_date", "not set"), data.String("new_due_date", "not set"))
	})
	Register(notify.TypeTaskCompleted, func(data models.JSONMap) string {
		return fmt.Sprintf("%s completed the task \"%s\"",
			data.String("completed_by", "Someone"), data.String("task_title", "Unknown Task"))
	})
	Register(notify.TypeWorkspaceDeleted, func(data models.JSONMap) string {
		return fmt.Sprintf("%s deleted the workspace \"%s\"",
			data.String("deleted_by", "Administrator"), data.String("workspace_name", "Unknown Workspace"))
	})
	Register(notify.TypeWorkspaceRoleChanged, func(data models.JSONMap) string {
		return fmt.Sprintf("Your role in \"%s\" is now %s",
			data.String("workspace_name", "Unknown Workspace"), data.String("new_role", "member"))
	})
	Register(notify.TypeWorkspaceInvitation, func(data models.JSONMap) string {
		return fmt.Sprintf("%s added you to the workspace \"%s\"",
			data.String("invited_by", "Administrator"), data.String("workspace_name", "Unknown Workspace"))
	})
	Register(notify.TypeConnectionRequest, func(data models.JSONMap) string {
		return fmt.Sprintf("%s sent you a connection request",
			data.String("requester_name", "A Nexscholar user"))
	})
	Register(notify.TypeConnectionAccepted, func(data models.JSONMap) string {
		return fmt.Sprintf("%s accepted your connection request",
			data.String("accepter_name", "A Nexscholar user"))
	})
}

// Render produces the display text for one notification. Unrecognized types
// fall back to the payload's own message field.
func Render(n models.Notification) string {
	if r, ok := renderers[n.Type]; ok && n.Data != nil {
		return r(n.Data)
	}
	if n.Data != nil {
		if msg := n.Data.String("message", ""); msg != "" {
			return msg
		}
	}
	return "You have a new notification."
}

// Legacy untyped connection-request records predate the typed taxonomy. They
// are recognized by their message phrasing plus a requester_id field.
var legacyConnectionPattern = regexp.MustCompile(`(?i)connection request`)

func isLegacyConnectionRequest(n models.Notification) bool {
	if n.Type == notify.TypeConnectionRequest || n.Data == nil {
		return false
	}
	if _, ok := n.Data["requester_id"]; !ok {
		return false
	}
	return legacyConnectionPattern.MatchString(n.Data.String("message", ""))
}

func requesterKey(data models.JSONMap) (string, bool) {
	v, ok := data["requester_id"]
	if !ok || v == nil {
		return "", false
	}
	return fmt.Sprint(v), true
}

// BuildEntries renders the given notifications into panel entries, in input
// order. A legacy untyped connection-request record is suppressed when a
// typed one with the same requester is present in the same set. This is a
// display-time heuristic only; persisted records are never touched.
func BuildEntries(notifications []models.Notification) []Entry {
	typedRequesters := make(map[string]bool)
	for _, n := range notifications {
		if n.Type != notify.TypeConnectionRequest || n.Data == nil {
			continue
		}
		if key, ok := requesterKey(n.Data); ok {
			typedRequesters[key] = true
		}
	}

	entries := make([]Entry, 0, len(notifications))
	for _, n := range notifications {
		if isLegacyConnectionRequest(n) {
			if key, ok := requesterKey(n.Data); ok && typedRequesters[key] {
				continue
			}
		}
		entries = append(entries, Entry{
			ID:        n.ID,
			Type:      n.Type,
			Message:   Render(n),
			ReadAt:    n.ReadAt,
			CreatedAt: n.CreatedAt,
		})
	}
	return entries
}
