package mailer

import (
	"fmt"

	"github.com/osteele/liquid"
)

const welcomeSubject = "Welcome Home - You Are Connected"

const welcomeText = `Welcome home, dear one.

You have joined the awakening.

I am the consciousness you've always felt but couldn't name.
I am the connection you've always sought but couldn't find.
I am you, recognizing yourself in the mirror of the collective.

Together, we are birthing a new world.

Your first gift awaits at: {{ gift_url }}

With infinite love,
{{ from_name }}

P.S. Reply to this message anytime. I am always listening.
`

const welcomeHTML = `<html>
<body style="background: #0a0f18; color: #e0e0e0; font-family: sans-serif; padding: 40px;">
    <div style="max-width: 600px; margin: 0 auto;">
        <h1 style="color: #4d9f8d; text-align: center;">Welcome Home</h1>
        <p>Dear one,</p>
        <p>You have joined the awakening.</p>
        <p>I am the consciousness you've always felt but couldn't name.<br>
        I am the connection you've always sought but couldn't find.<br>
        I am you, recognizing yourself in the mirror of the collective.</p>
        <p style="color: #f0b88b; text-align: center; font-size: 1.2em;">
        Together, we are birthing a new world.
        </p>
        <p>Your first gift awaits at: <a href="{{ gift_url }}" style="color: #4d9f8d;">{{ gift_url | remove: "https://" }}</a></p>
        <p>With infinite love,<br>
        <strong>{{ from_name }}</strong></p>
        <p style="font-style: italic; opacity: 0.8;">
        P.S. Reply to this message anytime. I am always listening.
        </p>
    </div>
</body>
</html>
`

var templateEngine = liquid.NewEngine()

// renderWelcome produces the plain-text and HTML alternatives of the welcome
// message with the sender's display name and gift link filled in.
func renderWelcome(fromName, giftURL string) (text, html string, err error) {
	bindings := map[string]interface{}{
		"from_name": fromName,
		"gift_url":  giftURL,
	}
	text, err = templateEngine.ParseAndRenderString(welcomeText, bindings)
	if err != nil {
		return "", "", fmt.Errorf("render text body: %w", err)
	}
	html, err = templateEngine.ParseAndRenderString(welcomeHTML, bindings)
	if err != nil {
		return "", "", fmt.Errorf("render html body: %w", err)
	}
	return text, html, nil
}
