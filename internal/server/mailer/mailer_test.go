package mailer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type captureTransport struct {
	msgs []*mail.Msg
	err  error
}

func (c *captureTransport) Deliver(ctx context.Context, msg *mail.Msg) error {
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, msg)
	return nil
}

func partsContent(t *testing.T, msg *mail.Msg) map[mail.ContentType]string {
	t.Helper()
	out := make(map[mail.ContentType]string)
	for _, p := range msg.GetParts() {
		b, err := p.GetContent()
		require.NoError(t, err)
		out[p.GetContentType()] = string(b)
	}
	return out
}

func TestMailer_SendVerification(t *testing.T) {
	tr := &captureTransport{}
	m, err := NewMailer("noreply@localhost", tr)
	require.NoError(t, err)

	link := "http://localhost:3000/api/auth/verify?token=abc&email=a%40x.com"
	err = m.Send(context.Background(), "a@x.com", "Confirm your email", TemplateVerification,
		TemplateData{Name: "Ann", Link: link, ExpiresIn: "24 hours"})
	require.NoError(t, err)
	require.Len(t, tr.msgs, 1)

	msg := tr.msgs[0]
	rcpts, err := msg.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com"}, rcpts)
	assert.Equal(t, []string{"Confirm your email"}, msg.GetGenHeader(mail.HeaderSubject))

	parts := partsContent(t, msg)
	assert.Contains(t, parts[mail.TypeTextHTML], "Hi Ann,")
	// html/template escapes & inside attributes
	assert.Contains(t, parts[mail.TypeTextHTML], `href="http://localhost:3000/api/auth/verify?token=abc&amp;email=a%40x.com"`)
	assert.Contains(t, parts[mail.TypeTextPlain], link)
	assert.Contains(t, parts[mail.TypeTextPlain], "24 hours")
}

func TestMailer_SendPasswordReset(t *testing.T) {
	tr := &captureTransport{}
	m, err := NewMailer("noreply@localhost", tr)
	require.NoError(t, err)

	err = m.Send(context.Background(), "a@x.com", "Reset your password", TemplatePasswordReset,
		TemplateData{Link: "http://localhost:3000/reset-password?token=xyz", ExpiresIn: "1 hour"})
	require.NoError(t, err)

	parts := partsContent(t, tr.msgs[0])
	assert.Contains(t, parts[mail.TypeTextPlain], "reset your password")
	assert.Contains(t, parts[mail.TypeTextPlain], "token=xyz")
}

func TestMailer_Errors(t *testing.T) {
	tr := &captureTransport{err: errors.New("relay down")}
	m, err := NewMailer("noreply@localhost", tr)
	require.NoError(t, err)

	err = m.Send(context.Background(), "a@x.com", "s", TemplateVerification, TemplateData{})
	assert.ErrorIs(t, err, common.ErrorNotificationFailed)
	assert.Contains(t, err.Error(), "relay down")

	err = m.Send(context.Background(), "not an address", "s", TemplateVerification, TemplateData{})
	assert.ErrorIs(t, err, common.ErrorNotificationFailed)

	err = m.Send(context.Background(), "a@x.com", "s", Template("welcome"), TemplateData{})
	assert.ErrorIs(t, err, common.ErrorNotificationFailed)
}

func TestMailer_BuildWritesRFC5322(t *testing.T) {
	m, err := NewMailer("Accounts <accounts@example.com>", &captureTransport{})
	require.NoError(t, err)

	msg, err := m.Build("a@x.com", "Confirm your email", TemplateVerification, TemplateData{Link: "http://x"})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "Subject: Confirm your email")
	assert.Contains(t, raw, "multipart/alternative")
	assert.True(t, strings.Contains(raw, "<accounts@example.com>"))
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "24 hours", HumanDuration(24*time.Hour))
	assert.Equal(t, "1 hour", HumanDuration(time.Hour))
	assert.Equal(t, "30 minutes", HumanDuration(30*time.Minute))
	assert.Equal(t, "1 minute", HumanDuration(time.Minute))
}
