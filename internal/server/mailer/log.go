package mailer

import (
	"context"
	"io"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/wneessen/go-mail"
)

// LogTransport is for development: it records the envelope in the log and
// dumps the whole message, links included, to out.
type LogTransport struct {
	logger logging.Logger
	out    io.Writer
}

func NewLogTransport(logger logging.Logger, out io.Writer) *LogTransport {
	return &LogTransport{logger: logger, out: out}
}

func (t *LogTransport) Deliver(ctx context.Context, msg *mail.Msg) error {
	rcpts, err := msg.GetRecipients()
	if err != nil {
		return err
	}

	t.logger.Info(ctx, "mail not sent, log transport in use", "to", rcpts, "subject", msg.GetGenHeader(mail.HeaderSubject))

	if t.out == nil {
		return nil
	}
	_, err = msg.WriteTo(t.out)
	return err
}
