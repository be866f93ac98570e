package mailer

import (
	"context"
	"testing"

	"gastronauta/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestEnvelopeFrom(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Gastronauta <no-reply@gastronauta.dev>", "no-reply@gastronauta.dev"},
		{"no-reply@gastronauta.dev", "no-reply@gastronauta.dev"},
		{"Weird <a@b.c> <d@e.f>", "d@e.f"},
		{"Broken <no-close", "Broken <no-close"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, envelopeFrom(tc.in), "input %q", tc.in)
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Run("No SMTP host falls back to logging", func(t *testing.T) {
		m := NewFromConfig(&config.Config{})
		_, ok := m.(LogMailer)
		assert.True(t, ok)
	})

	t.Run("SMTP host selects SMTP delivery", func(t *testing.T) {
		m := NewFromConfig(&config.Config{SMTPHost: "smtp.example.com", SMTPPort: "587"})
		_, ok := m.(*SMTPMailer)
		assert.True(t, ok)
	})
}

func TestLogMailerNeverFails(t *testing.T) {
	err := LogMailer{}.SendResetLink(context.Background(), "a@b.c", "alice", "http://localhost/reset?token=x")
	assert.NoError(t, err)
}
