// Package mailer renders account emails and hands them to a transport
// (SMTP, an S3 outbox bucket or the log).
package mailer

import (
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*
var templateFS embed.FS

// Template names a message layout.
type Template string

const (
	TemplateVerification  Template = "verification"
	TemplatePasswordReset Template = "password_reset"
)

// TemplateData is what every layout can reference.
type TemplateData struct {
	Name      string
	Link      string
	ExpiresIn string
}

// Notifier sends a templated message to a single address. Failures wrap
// common.ErrorNotificationFailed and may be transient.
type Notifier interface {
	Send(ctx context.Context, to, subject string, tmpl Template, data TemplateData) error
}

// Transport delivers a fully built message.
type Transport interface {
	Deliver(ctx context.Context, msg *mail.Msg) error
}

// Mailer is the Notifier used in production: it renders HTML with a plain
// text alternative and passes the result to its Transport.
type Mailer struct {
	from      string
	transport Transport
	html      *htmltemplate.Template
	text      *texttemplate.Template
}

func NewMailer(from string, transport Transport) (*Mailer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}

	return &Mailer{from: from, transport: transport, html: html, text: text}, nil
}

// Build renders the message without sending it.
func (m *Mailer) Build(to, subject string, tmpl Template, data TemplateData) (*mail.Msg, error) {
	html := m.html.Lookup(string(tmpl) + ".html")
	text := m.text.Lookup(string(tmpl) + ".txt")
	if html == nil || text == nil {
		return nil, fmt.Errorf("unknown template %q", tmpl)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetDate()

	if err := msg.SetBodyHTMLTemplate(html, data); err != nil {
		return nil, err
	}
	if err := msg.AddAlternativeTextTemplate(text, data); err != nil {
		return nil, err
	}

	return msg, nil
}

func (m *Mailer) Send(ctx context.Context, to, subject string, tmpl Template, data TemplateData) error {
	msg, err := m.Build(to, subject, tmpl, data)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorNotificationFailed, err)
	}

	if err := m.transport.Deliver(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorNotificationFailed, err)
	}

	return nil
}

// HumanDuration renders d for message bodies, e.g. "24 hours" or "30 minutes".
func HumanDuration(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "1 hour"
	case d%time.Hour == 0:
		return fmt.Sprintf("%d hours", d/time.Hour)
	case d == time.Minute:
		return "1 minute"
	default:
		return fmt.Sprintf("%d minutes", d/time.Minute)
	}
}
