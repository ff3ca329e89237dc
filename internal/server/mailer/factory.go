package mailer

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
)

// New builds the Notifier selected by cfg.MailTransport.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (Notifier, error) {
	var (
		t   Transport
		err error
	)

	switch cfg.MailTransport {
	case config.MailTransportSMTP:
		t, err = NewSMTPTransport(SMTPConfig{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUser,
			Password:  cfg.SMTPPassword,
			TLSPolicy: cfg.SMTPTLSPolicy,
			Timeout:   15 * time.Second,
		})
	case config.MailTransportS3:
		t, err = NewS3Outbox(ctx, S3Config{
			AccessKey:    cfg.S3RootUser,
			SecretKey:    cfg.S3RootPassword,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			Bucket:       cfg.S3Bucket,
		})
	case config.MailTransportLog, "":
		t = NewLogTransport(logger, os.Stderr)
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.MailTransport)
	}
	if err != nil {
		return nil, fmt.Errorf("mail transport %s: %w", cfg.MailTransport, err)
	}

	return NewMailer(cfg.SenderAddress(), t)
}
