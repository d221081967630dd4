package notify

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/nexscholar/backend/internal/mailer"
	"github.com/nexscholar/backend/internal/models"
	"github.com/nexscholar/backend/internal/realtime"
	"github.com/nexscholar/backend/internal/repositories"
	"github.com/nexscholar/backend/pkg/logger"
)

type queuedMail struct {
	to      string
	subject string
	body    string
}

// Dispatcher delivers notifications over the channels that remain after
// intersecting a type's declared channels with the recipient's stored
// preference. Delivery is best-effort: every internal failure is logged and
// swallowed so that the triggering action never fails or rolls back because
// a notification could not be sent.
type Dispatcher struct {
	notifications repositories.NotificationRepository
	preferences   repositories.PreferenceRepository
	deliveryLog   repositories.DeliveryLogRepository // optional
	sender        mailer.Sender
	hub           *realtime.Hub // optional
	log           *logrus.Logger

	queue chan queuedMail
	wg    sync.WaitGroup
}

// NewDispatcher creates a Dispatcher and starts its queued-mail worker.
// deliveryLog and hub may be nil.
func NewDispatcher(
	notifications repositories.NotificationRepository,
	preferences repositories.PreferenceRepository,
	deliveryLog repositories.DeliveryLogRepository,
	sender mailer.Sender,
	hub *realtime.Hub,
) *Dispatcher {
	d := &Dispatcher{
		notifications: notifications,
		preferences:   preferences,
		deliveryLog:   deliveryLog,
		sender:        sender,
		hub:           hub,
		log:           logger.L,
		queue:         make(chan queuedMail, 64),
	}
	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for m := range d.queue {
		if err := d.sender.Send(m.to, m.subject, m.body); err != nil {
			d.log.WithError(err).WithField("to", m.to).Warn("queued mail send failed")
		}
	}
}

// Close stops accepting queued mail and waits for the worker to drain.
func (d *Dispatcher) Close() {
	close(d.queue)
	d.wg.Wait()
}

// Send dispatches the notification to each recipient.
func (d *Dispatcher) Send(b Builder, recipients ...*models.User) {
	for _, recipient := range recipients {
		if recipient == nil || recipient.ID == 0 {
			continue
		}
		d.sendOne(b, recipient)
	}
}

func (d *Dispatcher) sendOne(b Builder, recipient *models.User) {
	defer func() {
		if r := recover(); r != nil {
			d.log.WithFields(logrus.Fields{
				"type":      b.Type(),
				"recipient": recipient.ID,
			}).Errorf("notification dispatch panicked: %v", r)
		}
	}()

	databaseEnabled, emailEnabled, err := d.preferences.Resolve(recipient.ID, b.Type())
	if err != nil {
		// Resolve already fell back to the both-enabled default.
		d.log.WithError(err).WithField("recipient", recipient.ID).Warn("preference lookup failed, using defaults")
	}

	via := b.Via()
	var notificationID string

	if hasChannel(via, ChannelDatabase) {
		if databaseEnabled {
			notificationID = d.deliverDatabase(b, recipient)
		} else {
			d.logDelivery("", recipient.ID, b.Type(), ChannelDatabase, models.DeliverySkipped, "disabled by preference")
		}
	}

	if hasChannel(via, ChannelMail) {
		switch {
		case !emailEnabled:
			d.logDelivery(notificationID, recipient.ID, b.Type(), ChannelMail, models.DeliverySkipped, "disabled by preference")
		case recipient.Email == "":
			d.logDelivery(notificationID, recipient.ID, b.Type(), ChannelMail, models.DeliverySkipped, "recipient has no email address")
		default:
			d.deliverMail(b, recipient, notificationID)
		}
	}
}

func (d *Dispatcher) deliverDatabase(b Builder, recipient *models.User) string {
	data := b.ToRecord(recipient)
	if data == nil {
		data = models.JSONMap{}
	}
	data["type"] = b.Type()

	notification := &models.Notification{
		RecipientID: recipient.ID,
		Type:        b.Type(),
		Data:        data,
	}
	if err := d.notifications.CreateNotification(notification); err != nil {
		d.log.WithError(err).WithFields(logrus.Fields{
			"type":      b.Type(),
			"recipient": recipient.ID,
		}).Error("failed to persist notification")
		d.logDelivery("", recipient.ID, b.Type(), ChannelDatabase, models.DeliveryFailed, err.Error())
		return ""
	}

	d.logDelivery(notification.ID, recipient.ID, b.Type(), ChannelDatabase, models.DeliverySent, "")
	if d.hub != nil {
		d.hub.Push(recipient.ID, realtime.EventNotificationSent, data)
	}
	return notification.ID
}

func (d *Dispatcher) deliverMail(b Builder, recipient *models.User, notificationID string) {
	msg := b.ToMail(recipient)

	if b.Mode() == ModeQueued {
		select {
		case d.queue <- queuedMail{to: recipient.Email, subject: msg.Subject, body: msg.Body()}:
			d.logDelivery(notificationID, recipient.ID, b.Type(), ChannelMail, models.DeliverySent, "queued")
		default:
			d.log.WithField("recipient", recipient.ID).Warn("mail queue full, dropping message")
			d.logDelivery(notificationID, recipient.ID, b.Type(), ChannelMail, models.DeliveryFailed, "mail queue full")
		}
		return
	}

	if err := d.sender.Send(recipient.Email, msg.Subject, msg.Body()); err != nil {
		d.log.WithError(err).WithFields(logrus.Fields{
			"type":      b.Type(),
			"recipient": recipient.ID,
		}).Warn("mail send failed")
		d.logDelivery(notificationID, recipient.ID, b.Type(), ChannelMail, models.DeliveryFailed, err.Error())
		return
	}
	d.logDelivery(notificationID, recipient.ID, b.Type(), ChannelMail, models.DeliverySent, "")
}

func (d *Dispatcher) logDelivery(notificationID string, recipientID uint, notificationType string, channel Channel, status, detail string) {
	if d.deliveryLog == nil {
		return
	}
	entry := &models.DeliveryLog{
		NotificationID: notificationID,
		RecipientID:    recipientID,
		Type:           notificationType,
		Channel:        string(channel),
		Status:         status,
		Detail:         detail,
	}
	if err := d.deliveryLog.Append(entry); err != nil {
		d.log.WithError(err).Debug("delivery log append failed")
	}
}
