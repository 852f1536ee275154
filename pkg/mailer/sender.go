package mailer

import (
	"context"

	"github.com/gearguard/gearguard-api/pkg/helpers"
)

// Sender is the narrow mail collaborator consumed by application services.
// The production implementation enqueues jobs for the email worker; tests
// substitute a fake.
type Sender interface {
	SendOTP(ctx context.Context, to, name, code string) error
	SendResetCode(ctx context.Context, to, name, code string) error
	SendAssignment(ctx context.Context, to, name, subject, equipment string) error
}

// QueueSender publishes EmailJobs to RabbitMQ for asynchronous delivery.
type QueueSender struct {
	Pub     *helpers.RabbitPublisher
	AppName string
	Enabled bool
}

func NewQueueSender(pub *helpers.RabbitPublisher, appName string, enabled bool) *QueueSender {
	return &QueueSender{Pub: pub, AppName: appName, Enabled: enabled}
}

func (s *QueueSender) publish(ctx context.Context, job EmailJob) error {
	if !s.Enabled || s.Pub == nil {
		return nil
	}
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	job.Data["AppName"] = s.AppName
	return s.Pub.PublishJSON(ctx, job)
}

func (s *QueueSender) SendOTP(ctx context.Context, to, name, code string) error {
	return s.publish(ctx, EmailJob{
		To:       to,
		Template: "login_otp",
		Data:     map[string]any{"Name": name, "Code": code},
	})
}

func (s *QueueSender) SendResetCode(ctx context.Context, to, name, code string) error {
	return s.publish(ctx, EmailJob{
		To:       to,
		Template: "reset_password",
		Data:     map[string]any{"Name": name, "Code": code},
	})
}

func (s *QueueSender) SendAssignment(ctx context.Context, to, name, subject, equipment string) error {
	return s.publish(ctx, EmailJob{
		To:       to,
		Template: "request_assigned",
		Data:     map[string]any{"Name": name, "Subject": subject, "Equipment": equipment},
	})
}
