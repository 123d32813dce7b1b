// internal/services/notification_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/sirupsen/logrus"

	"github.com/lebem/lebem-backend/internal/queue"
)

type NotificationKind string

const (
	NotificationReview  NotificationKind = "review"
	NotificationContact NotificationKind = "contact"
)

// Notifier hands submissions to the background dispatcher. It never fails
// the caller.
type Notifier interface {
	Notify(ctx context.Context, kind NotificationKind, payload map[string]string)
}

// NotificationService renders review and contact events and delivers them
// from a worker pool. Delivery is at most once.
type NotificationService struct {
	queue     queue.Queue
	sender    MessageSender
	templates map[NotificationKind]*template.Template
}

var messageTemplates = map[NotificationKind]string{
	NotificationReview: `🌟 <b>Yangi sharh keldi!</b>

👤 <b>Ism:</b> {{.name}}
📱 <b>Telefon:</b> {{.phone}}
🛒 <b>Mahsulot:</b> {{.product}}
⭐ <b>Baho:</b> {{.rating}}/5
💬 <b>Izoh:</b> {{.comment}}

📅 <i>Lebem.uz mebel do'koni</i>`,
	NotificationContact: `📩 <b>Yangi aloqa xabari!</b>

👤 <b>Ism:</b> {{.name}}
📱 <b>Telefon:</b> {{.phone}}
📧 <b>Email:</b> {{with .email}}{{.}}{{else}}Ko'rsatilmagan{{end}}
📝 <b>Mavzu:</b> {{.subject}}
💬 <b>Xabar:</b> {{.message}}

📅 <i>Lebem.uz mebel do'koni</i>`,
}

func NewNotificationService(q queue.Queue, sender MessageSender) *NotificationService {
	templates := make(map[NotificationKind]*template.Template, len(messageTemplates))
	for kind, body := range messageTemplates {
		templates[kind] = template.Must(template.New(string(kind)).Option("missingkey=zero").Parse(body))
	}

	return &NotificationService{
		queue:     q,
		sender:    sender,
		templates: templates,
	}
}

func (s *NotificationService) Notify(ctx context.Context, kind NotificationKind, payload map[string]string) {
	job := queue.NewJob(string(kind), payload)

	// Detached so a finished request does not cancel a Redis push
	if err := s.queue.Enqueue(context.WithoutCancel(ctx), job); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"kind":   kind,
			"job_id": job.ID,
		}).Warn("Failed to enqueue notification")
	}
}

// Deliver is the worker handler. Failures are logged and the job dropped.
func (s *NotificationService) Deliver(ctx context.Context, job queue.Job) error {
	text, err := s.Render(NotificationKind(job.Kind), job.Payload)
	if err != nil {
		logrus.WithError(err).WithField("kind", job.Kind).Error("Failed to render notification")
		return nil
	}

	if err := s.sender.Send(ctx, text); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"kind":   job.Kind,
			"job_id": job.ID,
		}).Warn("Notification delivery failed")
		return nil
	}

	logrus.WithFields(logrus.Fields{"kind": job.Kind, "job_id": job.ID}).Debug("Notification delivered")
	return nil
}

func (s *NotificationService) Render(kind NotificationKind, payload map[string]string) (string, error) {
	tmpl, ok := s.templates[kind]
	if !ok {
		return "", fmt.Errorf("unknown notification kind %q", kind)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, payload); err != nil {
		return "", err
	}
	return buf.String(), nil
}
