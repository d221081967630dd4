package notify

import (
	"fmt"

	"github.com/nexscholar/backend/internal/models"
)

// ConnectionRequest notifies a user that another scholar wants to connect.
type ConnectionRequest struct {
	Requester *models.User
}

func NewConnectionRequest(requester *models.User) *ConnectionRequest {
	return &ConnectionRequest{Requester: requester}
}

func (n *ConnectionRequest) Type() string   { return TypeConnectionRequest }
func (n *ConnectionRequest) Via() []Channel { return []Channel{ChannelMail, ChannelDatabase} }
func (n *ConnectionRequest) Mode() Mode     { return ModeSync }

func (n *ConnectionRequest) ToMail(recipient *models.User) MailMessage {
	m := MailMessage{
		Subject:  "New Connection Request",
		Greeting: "Hello " + recipient.DisplayName(),
		Lines: []string{
			fmt.Sprintf("%s sent you a connection request.", userName(n.Requester, "A Nexscholar user")),
		},
		ActionText: "View Requests",
	}
	if url, ok := actionLink("connections.requests"); ok {
		m.ActionURL = url
	} else {
		m.degrade()
	}
	return m
}

func (n *ConnectionRequest) ToRecord(recipient *models.User) models.JSONMap {
	requester := userName(n.Requester, "A Nexscholar user")
	record := models.JSONMap{
		"requester_name": requester,
		"message":        fmt.Sprintf("%s sent you a connection request", requester),
	}
	if n.Requester != nil {
		record["requester_id"] = n.Requester.ID
	}
	return record
}

// ConnectionAccepted notifies the original sender that their request was accepted.
type ConnectionAccepted struct {
	Accepter *models.User
}

func NewConnectionAccepted(accepter *models.User) *ConnectionAccepted {
	return &ConnectionAccepted{Accepter: accepter}
}

func (n *ConnectionAccepted) Type() string   { return TypeConnectionAccepted }
func (n *ConnectionAccepted) Via() []Channel { return []Channel{ChannelMail, ChannelDatabase} }
func (n *ConnectionAccepted) Mode() Mode     { return ModeSync }

func (n *ConnectionAccepted) ToMail(recipient *models.User) MailMessage {
	m := MailMessage{
		Subject:  "Connection Request Accepted",
		Greeting: "Hello " + recipient.DisplayName(),
		Lines: []string{
			fmt.Sprintf("%s accepted your connection request.", userName(n.Accepter, "A Nexscholar user")),
		},
		ActionText: "Open Nexscholar",
		ActionURL:  BaseURL(),
	}
	return m
}

func (n *ConnectionAccepted) ToRecord(recipient *models.User) models.JSONMap {
	accepter := userName(n.Accepter, "A Nexscholar user")
	record := models.JSONMap{
		"accepter_name": accepter,
		"message":       fmt.Sprintf("%s accepted your connection request", accepter),
	}
	if n.Accepter != nil {
		record["accepter_id"] = n.Accepter.ID
	}
	return record
}
