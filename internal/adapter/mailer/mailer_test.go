package mailer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/gomail.v2"
)

type captureSender struct {
	msgs []*gomail.Message
	err  error
}

func (s *captureSender) DialAndSend(m ...*gomail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, m...)
	return nil
}

func render(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestSMTPNotifier_VerificationEmail(t *testing.T) {
	sender := &captureSender{}
	n := NewSMTPNotifier("no-reply@skip2love.local", sender, logger.NewNop())

	require.NoError(t, n.SendVerificationEmail("alice@example.com", "ABCD1234"))
	require.Len(t, sender.msgs, 1)

	m := sender.msgs[0]
	assert.Equal(t, []string{"alice@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"no-reply@skip2love.local"}, m.GetHeader("From"))
	assert.Contains(t, render(t, m), "ABCD1234")
}

func TestSMTPNotifier_ListingCreatedEmail(t *testing.T) {
	sender := &captureSender{}
	n := NewSMTPNotifier("no-reply@skip2love.local", sender, logger.NewNop())

	require.NoError(t, n.SendListingCreatedEmail("alice@example.com", "Coffee chat"))
	require.Len(t, sender.msgs, 1)
	assert.Equal(t, []string{"New Listing Created"}, sender.msgs[0].GetHeader("Subject"))
	assert.Contains(t, render(t, sender.msgs[0]), "Coffee chat")
}

func TestSMTPNotifier_SendError(t *testing.T) {
	sender := &captureSender{err: errors.New("dial tcp: connection refused")}
	n := NewSMTPNotifier("no-reply@skip2love.local", sender, logger.NewNop())

	err := n.SendListingCreatedEmail("alice@example.com", "Coffee chat")
	assert.ErrorIs(t, err, sender.err)
}

func TestNew_WithoutHostLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := New(Config{}, logger.New(zap.New(core)))

	_, ok := n.(*LogNotifier)
	require.True(t, ok)
	require.NoError(t, n.SendVerificationEmail("alice@example.com", "ABCD1234"))
	entries := logs.FilterMessage("verification email").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ABCD1234", entries[0].ContextMap()["code"])
}

func TestNew_WithHostUsesSMTP(t *testing.T) {
	n := New(Config{Host: "smtp.example.com", Port: 587, From: "a@b.c"}, logger.NewNop())
	_, ok := n.(*SMTPNotifier)
	assert.True(t, ok)
}
