package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"theaterbook/internal/shared/config"
	"theaterbook/pkg/logger"

	"github.com/wneessen/go-mail"
	"github.com/yeqown/go-qrcode"
)

// Sender delivers one notification to its recipient.
type Sender interface {
	Send(ctx context.Context, n *Notification) error
}

// MailSender sends notifications over SMTP. Booking confirmations carry a QR
// code of the booking id.
type MailSender struct {
	client   *mail.Client
	from     string
	fromName string
}

func NewMailSender(cfg config.EmailConfig) (*MailSender, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUsername),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}
	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not initialize smtp client: %w", err)
	}
	return &MailSender{client: client, from: cfg.FromEmail, fromName: cfg.FromName}, nil
}

func (s *MailSender) Send(ctx context.Context, n *Notification) error {
	subject, body, err := Render(n)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.from); err != nil {
		return fmt.Errorf("failed to set From address: %w", err)
	}
	if err := msg.To(n.RecipientEmail); err != nil {
		return fmt.Errorf("failed to set To address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	if ref := n.Data["booking_id"]; n.Type == TypeBookingConfirmed && ref != "" {
		path, cleanup, err := writeQR(ref)
		if err != nil {
			return err
		}
		defer cleanup()
		msg.AttachFile(path, mail.WithFileName("ticket-"+ref+".jpeg"))
	}

	return s.client.DialAndSendWithContext(ctx, msg)
}

// writeQR renders content to a temporary image file.
func writeQR(content string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "theaterbook-qr-")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	qrc, err := qrcode.New(content)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("qr encode: %w", err)
	}
	path := filepath.Join(dir, "ticket.jpeg")
	if err := qrc.Save(path); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("qr save: %w", err)
	}
	return path, cleanup, nil
}

// LogSender renders and logs instead of sending. Used when SMTP is not
// configured.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender() *LogSender {
	return &LogSender{log: logger.GetDefault()}
}

func (s *LogSender) Send(ctx context.Context, n *Notification) error {
	subject, _, err := Render(n)
	if err != nil {
		return err
	}
	s.log.InfoContext(ctx, "notification (mail disabled)",
		slog.String("type", string(n.Type)),
		slog.String("to", n.RecipientEmail),
		slog.String("subject", subject),
	)
	return nil
}
