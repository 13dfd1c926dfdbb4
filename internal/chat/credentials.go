package chat

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Credentials authenticate a chat connection. The zero value logs in
// anonymously, which is enough to read a public channel.
type Credentials struct {
	User  string
	Token string
}

// Anonymous reports whether no login is configured.
func (c Credentials) Anonymous() bool {
	return c.User == "" || c.Token == ""
}

// login returns the NICK and PASS to send. Twitch accepts any password for
// the read-only justinfan nicks.
func (c Credentials) login() (nick, pass string) {
	if c.Anonymous() {
		return fmt.Sprintf("justinfan%05d", rand.IntN(100000)), "SCHMOOPIIE"
	}

	token := c.Token
	if !strings.HasPrefix(token, "oauth:") {
		token = "oauth:" + token
	}

	return strings.ToLower(c.User), token
}

// channelName normalises a channel to Twitch's lower-case #name form.
func channelName(channel string) string {
	return "#" + strings.ToLower(strings.TrimPrefix(strings.TrimSpace(channel), "#"))
}

// loginFailed reports whether a NOTICE text is Twitch rejecting the login.
func loginFailed(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "login authentication failed") ||
		strings.Contains(lower, "improperly formatted auth")
}
