package notify

import (
	"strings"
	"time"

	"github.com/nexscholar/backend/internal/models"
)

// Channel is a delivery mechanism for a notification.
type Channel string

const (
	ChannelDatabase Channel = "database" // persisted, shown in-app
	ChannelMail     Channel = "mail"     // email
)

// Mode is the mail delivery mode of a notification type.
type Mode string

const (
	ModeSync   Mode = "sync"   // mail sent inside the dispatch call
	ModeQueued Mode = "queued" // mail handed to the background worker, fire-and-forget
)

// Notification type tags. The backend builders and the panel renderers
// switch on the same taxonomy.
const (
	TypeTaskAssigned         = "task_assigned"
	TypeTaskDueDateChanged   = "task_due_date_changed"
	TypeTaskCompleted        = "task_completed"
	TypeWorkspaceDeleted     = "workspace_deleted"
	TypeWorkspaceRoleChanged = "workspace_role_changed"
	TypeWorkspaceInvitation  = "workspace_invitation"
	TypeConnectionRequest    = "connection_request"
	TypeConnectionAccepted   = "connection_accepted"
)

// Types lists every known notification type tag.
func Types() []string {
	return []string{
		TypeTaskAssigned,
		TypeTaskDueDateChanged,
		TypeTaskCompleted,
		TypeWorkspaceDeleted,
		TypeWorkspaceRoleChanged,
		TypeWorkspaceInvitation,
		TypeConnectionRequest,
		TypeConnectionAccepted,
	}
}

// Builder produces the deliverable representations of one notification type.
// Builders never return errors: a missing relation or failed link resolution
// degrades the output to labeled defaults instead of failing the dispatch.
type Builder interface {
	// Type returns the notification type tag.
	Type() string
	// Via returns the channels this type is declared on, a non-empty
	// subset of {database, mail}. User preference intersects with this.
	Via() []Channel
	// Mode returns how the mail channel is delivered for this type.
	Mode() Mode
	// ToMail renders the mail representation for the recipient.
	ToMail(recipient *models.User) MailMessage
	// ToRecord renders the persisted payload for the recipient. It always
	// contains a non-empty "message" field.
	ToRecord(recipient *models.User) models.JSONMap
}

// MailMessage is the mail representation of a notification. Degraded marks
// that some detail could not be resolved and generic copy was substituted.
type MailMessage struct {
	Subject    string
	Greeting   string
	Lines      []string
	ActionText string
	ActionURL  string
	Degraded   bool
}

// Body renders the plain-text mail body.
func (m MailMessage) Body() string {
	var b strings.Builder
	b.WriteString(m.Greeting)
	b.WriteString(",\n\n")
	for _, line := range m.Lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.ActionText != "" && m.ActionURL != "" {
		b.WriteString("\n")
		b.WriteString(m.ActionText)
		b.WriteString(": ")
		b.WriteString(m.ActionURL)
		b.WriteString("\n")
	}
	b.WriteString("\nRegards,\nThe Nexscholar Team\n")
	return b.String()
}

// degrade substitutes the action link with the app root after a resolution
// failure. The mail still goes out with whatever copy survived.
func (m *MailMessage) degrade() {
	m.Degraded = true
	m.ActionText = "Open Nexscholar"
	m.ActionURL = BaseURL()
}

func hasChannel(channels []Channel, c Channel) bool {
	for _, ch := range channels {
		if ch == c {
			return true
		}
	}
	return false
}

// userName returns the display name of a possibly-missing user.
func userName(u *models.User, fallback string) string {
	if u == nil || u.Name == "" {
		return fallback
	}
	return u.Name
}

// formatDate renders a nullable date for notification copy.
func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "not set"
	}
	return t.Format("Jan 2, 2006")
}
