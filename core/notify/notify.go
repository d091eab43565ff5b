package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"path"
	"strings"

	"catalog-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// Subject is the subject line of run log mails.
const Subject = "Catalog retrieval"

// Message is one run log delivery.
type Message struct {
	// Subject is a short description of the run outcome.
	Subject string
	// LogName is the file name of the run log.
	LogName string
	// LogText is the complete run log.
	LogText string
}

// Notifier delivers the run log of a finished (or failed) sync.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Multi fans a message out to several notifiers and joins their errors.
type Multi []Notifier

// Notify delivers to every notifier, even when an earlier one fails.
func (m Multi) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SendMailFunc matches smtp.SendMail.
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier mails the run log as a plain text and HTML alternative.
type SMTPNotifier struct {
	cfg      Config
	sendMail SendMailFunc
}

// NewSMTPNotifier creates a mail notifier.
func NewSMTPNotifier(cfg Config) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, sendMail: smtp.SendMail}
}

// Notify sends the mail.
func (n *SMTPNotifier) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := buildMail(n.cfg.From, n.cfg.Recipients(), msg)
	if err != nil {
		return fmt.Errorf("failed to build mail: %w", err)
	}

	var auth smtp.Auth
	if n.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", n.cfg.SMTPUser, n.cfg.SMTPPassword, n.cfg.SMTPHost)
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.SMTPHost, n.cfg.SMTPPort)
	if err := n.sendMail(addr, auth, n.cfg.From, n.cfg.Recipients(), body); err != nil {
		return fmt.Errorf("failed to send run log mail: %w", err)
	}
	return nil
}

// buildMail renders a multipart/alternative message.
func buildMail(from string, to []string, msg Message) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	subject := Subject
	if msg.Subject != "" {
		subject = Subject + ": " + msg.Subject
	}

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", mw.Boundary())

	text := "CATALOG SYNC\n\nHere is the log from your catalog retrieval:\n\n" + msg.LogText
	part, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/plain; charset=utf-8"}})
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(text)); err != nil {
		return nil, err
	}

	html := `<h1 style="font-family: sans-serif; font-weight: 100; text-align: center;">Catalog Sync</h1>` +
		`<p style="font-family: sans-serif;">Here is the log from your catalog retrieval:</p>` +
		`<pre style="font-family: monospace; margin-left: 32px">` + htmlEscaper.Replace(msg.LogText) + `</pre>`
	part, err = mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/html; charset=utf-8"}})
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(html)); err != nil {
		return nil, err
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// BucketNotifier archives the run log as an object in the configured bucket.
type BucketNotifier struct {
	client storage.Client
	bucket string
	prefix string
}

// NewBucketNotifier creates a notifier writing to <prefix>/<log name>.
func NewBucketNotifier(client storage.Client, bucket, prefix string) *BucketNotifier {
	return &BucketNotifier{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Notify uploads the run log.
func (n *BucketNotifier) Notify(ctx context.Context, msg Message) error {
	objectName := path.Join(n.prefix, msg.LogName)
	data := []byte(msg.LogText)

	_, err := n.client.PutObject(ctx, n.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return fmt.Errorf("failed to upload run log %s: %w", objectName, err)
	}
	return nil
}

// FromConfig builds the notifiers enabled by cfg. Client may be nil when no
// object storage is configured. It returns nil when nothing is enabled.
func FromConfig(cfg Config, client storage.Client, bucket string) Notifier {
	var multi Multi
	if cfg.MailEnabled() {
		multi = append(multi, NewSMTPNotifier(cfg))
	}
	if cfg.BucketPrefix != "" && client != nil {
		multi = append(multi, NewBucketNotifier(client, bucket, cfg.BucketPrefix))
	}
	if len(multi) == 0 {
		return nil
	}
	return multi
}
