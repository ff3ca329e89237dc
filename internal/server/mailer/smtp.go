package mailer

import (
	"context"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

type smtpSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// newSMTPClient is a seam for tests.
var newSMTPClient = func(host string, opts ...mail.Option) (smtpSender, error) {
	c, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// SMTPConfig describes the relay. Auth is only attempted when Username is set.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	TLSPolicy string // "mandatory", "opportunistic" or "none"
	Timeout   time.Duration
}

// SMTPTransport opens a connection per message.
type SMTPTransport struct {
	client smtpSender
}

func NewSMTPTransport(c SMTPConfig) (*SMTPTransport, error) {
	opts := []mail.Option{
		mail.WithPort(c.Port),
		mail.WithTLSPolicy(tlsPolicy(c.TLSPolicy)),
	}
	if c.Port == 465 {
		opts = append(opts, mail.WithSSL())
	}
	if c.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(c.Username),
			mail.WithPassword(c.Password),
		)
	}
	if c.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(c.Timeout))
	}

	client, err := newSMTPClient(c.Host, opts...)
	if err != nil {
		return nil, err
	}

	return &SMTPTransport{client: client}, nil
}

func (t *SMTPTransport) Deliver(ctx context.Context, msg *mail.Msg) error {
	return t.client.DialAndSendWithContext(ctx, msg)
}

func tlsPolicy(s string) mail.TLSPolicy {
	switch strings.ToLower(s) {
	case "mandatory":
		return mail.TLSMandatory
	case "none", "notls":
		return mail.NoTLS
	default:
		return mail.TLSOpportunistic
	}
}
