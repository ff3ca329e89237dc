package mailer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	sc "github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func testMsg(t *testing.T) *mail.Msg {
	t.Helper()
	m, err := NewMailer("noreply@localhost", &captureTransport{})
	require.NoError(t, err)
	msg, err := m.Build("a@x.com", "Confirm your email", TemplateVerification, TemplateData{Link: "http://x/verify"})
	require.NoError(t, err)
	return msg
}

type fakeSMTP struct {
	host string
	opts int
	sent []*mail.Msg
	err  error
}

func (f *fakeSMTP) DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error {
	f.sent = append(f.sent, messages...)
	return f.err
}

func TestSMTPTransport(t *testing.T) {
	fake := &fakeSMTP{}
	orig := newSMTPClient
	newSMTPClient = func(host string, opts ...mail.Option) (smtpSender, error) {
		fake.host = host
		fake.opts = len(opts)
		return fake, nil
	}
	defer func() { newSMTPClient = orig }()

	tr, err := NewSMTPTransport(SMTPConfig{Host: "smtp.example", Port: 587, Username: "u", Password: "p", Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "smtp.example", fake.host)
	// port, tls policy, 3 auth options, timeout
	assert.Equal(t, 6, fake.opts)

	require.NoError(t, tr.Deliver(context.Background(), testMsg(t)))
	assert.Len(t, fake.sent, 1)

	fake.err = errors.New("554 rejected")
	assert.Error(t, tr.Deliver(context.Background(), testMsg(t)))
}

func TestSMTPTransport_ClientError(t *testing.T) {
	orig := newSMTPClient
	newSMTPClient = func(host string, opts ...mail.Option) (smtpSender, error) {
		return nil, errors.New("bad host")
	}
	defer func() { newSMTPClient = orig }()

	_, err := NewSMTPTransport(SMTPConfig{Host: ""})
	assert.Error(t, err)
}

func TestTLSPolicy(t *testing.T) {
	assert.Equal(t, mail.TLSMandatory, tlsPolicy("mandatory"))
	assert.Equal(t, mail.NoTLS, tlsPolicy("none"))
	assert.Equal(t, mail.TLSOpportunistic, tlsPolicy(""))
}

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Outbox_Deliver(t *testing.T) {
	fake := &fakePutter{}
	now := time.Date(2025, 4, 7, 12, 0, 0, 0, time.UTC)
	tr := &S3Outbox{client: fake, bucket: "outbox", now: func() time.Time { return now }}

	require.NoError(t, tr.Deliver(context.Background(), testMsg(t)))

	assert.Equal(t, "outbox", aws.ToString(fake.in.Bucket))
	assert.Regexp(t, `^outbox/2025/04/07/[0-9a-f-]{36}\.eml$`, aws.ToString(fake.in.Key))
	assert.Equal(t, "message/rfc822", aws.ToString(fake.in.ContentType))
	assert.Contains(t, string(fake.body), "Subject: Confirm your email")
}

func TestNewS3Outbox_UsesSeams(t *testing.T) {
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	defer func() { loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew }()

	var gotOpts s3.Options
	fake := &fakePutter{}
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		for _, fn := range optFns {
			fn(&gotOpts)
		}
		return fake
	}

	tr, err := NewS3Outbox(context.Background(), S3Config{BaseEndpoint: "http://minio:9000", Bucket: "outbox"})
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000", aws.ToString(gotOpts.BaseEndpoint))
	assert.True(t, gotOpts.UsePathStyle)
	assert.Same(t, fake, tr.client)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no creds")
	}
	_, err = NewS3Outbox(context.Background(), S3Config{})
	assert.Error(t, err)
}

func TestLogTransport(t *testing.T) {
	var out bytes.Buffer
	tr := NewLogTransport(logging.Nop{}, &out)

	require.NoError(t, tr.Deliver(context.Background(), testMsg(t)))
	assert.Contains(t, out.String(), "To: <a@x.com>")
}

func TestNew_SelectsTransport(t *testing.T) {
	cfg := &sc.Config{}
	cfg.LoadDefaults()

	n, err := New(context.Background(), cfg, logging.Nop{})
	require.NoError(t, err)
	m, ok := n.(*Mailer)
	require.True(t, ok)
	assert.IsType(t, &LogTransport{}, m.transport)
	assert.Equal(t, "noreply@localhost", m.from)

	cfg.MailTransport = "pigeon"
	_, err = New(context.Background(), cfg, logging.Nop{})
	assert.Error(t, err)
}
