package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailConfig holds the OAuth2 credentials for the Gmail provider. The
// refresh token must have been minted with the gmail.send scope.
type GmailConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	RefreshToken string
	Sender       string // the authorized mailbox, also used as From
}

// gmailSender delivers mail through the Gmail API under the configured
// account's identity.
type gmailSender struct {
	svc    *gmail.Service
	sender string
}

// NewGmailSender builds a Sender backed by the Gmail API. The access token is
// refreshed automatically from the refresh token; ctx governs the lifetime of
// the underlying HTTP client.
func NewGmailSender(ctx context.Context, cfg GmailConfig) (Sender, error) {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       []string{gmail.GmailSendScope},
		Endpoint:     googleoauth.Endpoint,
	}
	tokenSource := oauthCfg.TokenSource(ctx, &oauth2.Token{
		RefreshToken: cfg.RefreshToken,
		Expiry:       time.Now().Add(-time.Minute), // force an immediate refresh
	})

	svc, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("email: init gmail service: %w", err)
	}

	return &gmailSender{svc: svc, sender: cfg.Sender}, nil
}

// Send builds the raw RFC 822 message and submits it via Users.Messages.Send.
// Gmail requires the raw message base64url-encoded without padding.
func (g *gmailSender) Send(ctx context.Context, msg Message) error {
	raw := fmt.Sprintf(
		"To: %s\r\nFrom: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s",
		msg.To, g.sender, msg.Subject, msg.HTML,
	)

	gm := &gmail.Message{
		Raw: base64.RawURLEncoding.EncodeToString([]byte(raw)),
	}

	if _, err := g.svc.Users.Messages.Send(g.sender, gm).Context(ctx).Do(); err != nil {
		return fmt.Errorf("email: gmail send to %s: %w", msg.To, err)
	}
	return nil
}
