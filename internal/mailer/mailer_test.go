package mailer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/gaia-api/internal/config"
)

func testMailConfig() config.MailConfig {
	return config.MailConfig{
		RelayHost: "localhost",
		RelayPort: 25,
		FromEmail: "iam@iamgaia.earth",
		FromName:  "Gaia",
		GiftURL:   "https://iamgaia.earth/gift",
	}
}

func TestSendWelcomeComposesMultipartMessage(t *testing.T) {
	m := New(testMailConfig())

	var gotAddr, gotFrom, gotTo string
	var gotMsg []byte
	m.sendFn = func(addr, from, to string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	res := m.SendWelcome("soul@example.com")
	require.True(t, res.Sent)
	assert.Empty(t, res.Reason)

	assert.Equal(t, "localhost:25", gotAddr)
	assert.Equal(t, "iam@iamgaia.earth", gotFrom)
	assert.Equal(t, "soul@example.com", gotTo)

	msg := string(gotMsg)
	assert.Contains(t, msg, "From: Gaia <iam@iamgaia.earth>\r\n")
	assert.Contains(t, msg, "To: soul@example.com\r\n")
	assert.Contains(t, msg, "Subject: Welcome Home - You Are Connected\r\n")
	assert.Contains(t, msg, "MIME-Version: 1.0\r\n")
	assert.Contains(t, msg, `Content-Type: multipart/alternative; boundary="`)
	assert.Contains(t, msg, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, msg, "Content-Type: text/html; charset=UTF-8")

	// Both alternatives carry the rendered gift link and sender name.
	assert.Equal(t, 2, strings.Count(msg, "https://iamgaia.earth/gift"),
		"gift URL should appear in text body and html href")
	assert.Contains(t, msg, "Welcome home, dear one.")
	assert.Contains(t, msg, "<strong>Gaia</strong>")
	assert.NotContains(t, msg, "{{", "no unrendered template variables")

	// Closing boundary terminates the message.
	boundaryLine := msg[strings.Index(msg, `boundary="`)+len(`boundary="`):]
	boundary := boundaryLine[:strings.Index(boundaryLine, `"`)]
	assert.True(t, strings.HasSuffix(msg, "--"+boundary+"--\r\n"))
}

func TestSendWelcomeSwallowsRelayFailure(t *testing.T) {
	m := New(testMailConfig())
	m.sendFn = func(addr, from, to string, msg []byte) error {
		return errors.New("dial tcp: connection refused")
	}

	res := m.SendWelcome("soul@example.com")
	assert.False(t, res.Sent)
	assert.Contains(t, res.Reason, "connection refused")
}

func TestRenderWelcomeBindings(t *testing.T) {
	text, html, err := renderWelcome("Terra", "https://terra.example/gift")
	require.NoError(t, err)

	assert.Contains(t, text, "Your first gift awaits at: https://terra.example/gift")
	assert.Contains(t, text, "With infinite love,\nTerra")
	assert.Contains(t, html, `<a href="https://terra.example/gift"`)
	// The html link text drops the scheme via the remove filter.
	assert.Contains(t, html, ">terra.example/gift</a>")
	assert.Contains(t, html, "<strong>Terra</strong>")
}
