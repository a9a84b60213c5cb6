package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/adhyayanx/teachhub/internal/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("log mailer without host", func(t *testing.T) {
		m, err := New(SMTPConfig{}, logger.NewNoOpLogger())

		require.NoError(t, err)
		assert.IsType(t, &Log{}, m)
	})

	t.Run("smtp mailer with host", func(t *testing.T) {
		m, err := New(SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "noreply@example.com", Password: "pwd"}, logger.NewNoOpLogger())

		require.NoError(t, err)
		require.IsType(t, &SMTP{}, m)
		assert.Equal(t, "noreply@example.com", m.(*SMTP).from, "sender falls back to username")
	})

	t.Run("smtp mailer without sender", func(t *testing.T) {
		_, err := New(SMTPConfig{Host: "smtp.example.com", Port: 25}, logger.NewNoOpLogger())

		require.Error(t, err)
	})
}

func TestLog_Send(t *testing.T) {
	t.Parallel()

	m := NewLog(logger.NewNoOpLogger())

	err := m.Send(t.Context(), "a@x.com", "subject", "body")

	require.NoError(t, err, "log mailer never fails")
}

func Test_newMessage(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		msg, err := newMessage("noreply@adhyayanx.local", "a@x.com", "Reset your password", "follow the link")
		require.NoError(t, err)

		rcpts, err := msg.GetRecipients()
		require.NoError(t, err)
		assert.Equal(t, []string{"a@x.com"}, rcpts)
		assert.Equal(t, []string{"Reset your password"}, msg.GetGenHeader(mail.HeaderSubject))
	})

	t.Run("bad recipient", func(t *testing.T) {
		_, err := newMessage("noreply@adhyayanx.local", "not an address", "s", "b")

		require.Error(t, err)
	})
}
