// Package mail wraps the Gmail API for reading digest emails and
// sending rendered newsletters.
package mail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// DefaultCredentialsPath is where the OAuth client secret is expected
// when no explicit path is configured.
const DefaultCredentialsPath = "credentials.json"

// DefaultTokenPath is where the cached user token is stored after the
// first interactive authorization.
const DefaultTokenPath = "token.json"

// Client wraps an authenticated Gmail service.
type Client struct {
	svc *gmail.Service
}

// AuthError indicates the OAuth credentials or token could not be used.
type AuthError struct {
	Path    string
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gmail auth failed (%s): %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("gmail auth failed (%s): %s", e.Path, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// NewClient builds a Gmail client from an OAuth client secret file and a
// cached token file. When the token file is missing or expired beyond
// refresh, the user is walked through the standard out-of-band consent
// flow on the terminal and the new token is cached for next time.
func NewClient(ctx context.Context, credentialsPath, tokenPath string) (*Client, error) {
	if credentialsPath == "" {
		credentialsPath = DefaultCredentialsPath
	}
	if tokenPath == "" {
		tokenPath = DefaultTokenPath
	}

	secret, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, &AuthError{Path: credentialsPath, Message: "unable to read client secret file", Cause: err}
	}

	cfg, err := google.ConfigFromJSON(secret, gmail.GmailReadonlyScope, gmail.GmailSendScope)
	if err != nil {
		return nil, &AuthError{Path: credentialsPath, Message: "unable to parse client secret file", Cause: err}
	}

	tok, err := tokenFromFile(tokenPath)
	if err != nil {
		tok, err = tokenFromWeb(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenPath, tok); err != nil {
			return nil, &AuthError{Path: tokenPath, Message: "unable to cache oauth token", Cause: err}
		}
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &Client{svc: svc}, nil
}

// ProfileEmail returns the authenticated user's email address.
func (c *Client) ProfileEmail() (string, error) {
	profile, err := c.svc.Users.GetProfile("me").Do()
	if err != nil {
		return "", fmt.Errorf("failed to fetch gmail profile: %w", err)
	}
	return profile.EmailAddress, nil
}

// SearchMessages returns the IDs of messages matching a Gmail search
// query, newest first, up to maxResults.
func (c *Client) SearchMessages(query string, maxResults int64) ([]string, error) {
	call := c.svc.Users.Messages.List("me").Q(query)
	if maxResults > 0 {
		call = call.MaxResults(maxResults)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("gmail search %q failed: %w", query, err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

// MessageHTML fetches a message and returns its HTML body. Multipart
// messages are walked depth first for the first text/html part; a plain
// text body is returned as a fallback when no HTML part exists.
func (c *Client) MessageHTML(id string) (string, error) {
	msg, err := c.svc.Users.Messages.Get("me", id).Format("full").Do()
	if err != nil {
		return "", fmt.Errorf("failed to fetch message %s: %w", id, err)
	}
	if msg.Payload == nil {
		return "", fmt.Errorf("message %s has no payload", id)
	}

	if html := findPart(msg.Payload, "text/html"); html != "" {
		return html, nil
	}
	if plain := findPart(msg.Payload, "text/plain"); plain != "" {
		return plain, nil
	}
	return "", fmt.Errorf("message %s has no readable body", id)
}

// Send delivers an HTML email from the authenticated account.
func (c *Client) Send(to, subject, htmlBody string) error {
	raw := encodeMessage(buildMIMEMessage(to, subject, htmlBody))
	_, err := c.svc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Do()
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// findPart walks a message part tree and returns the first decoded body
// with the requested MIME type.
func findPart(part *gmail.MessagePart, mimeType string) string {
	if part == nil {
		return ""
	}
	if part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
		decoded, err := decodeBody(part.Body.Data)
		if err == nil {
			return decoded
		}
	}
	for _, p := range part.Parts {
		if body := findPart(p, mimeType); body != "" {
			return body
		}
	}
	return ""
}

// decodeBody decodes Gmail's base64url body encoding, which may arrive
// with or without padding.
func decodeBody(data string) (string, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return "", fmt.Errorf("failed to decode message body: %w", err)
	}
	return string(decoded), nil
}

// buildMIMEMessage assembles an RFC 2822 message with an HTML body.
func buildMIMEMessage(to, subject, htmlBody string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("To: %s\r\n", to))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)
	return sb.String()
}

// encodeMessage produces the base64url form the Gmail API expects.
func encodeMessage(msg string) string {
	return base64.URLEncoding.EncodeToString([]byte(msg))
}

// tokenFromFile reads a cached oauth token.
func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to parse token file %s: %w", path, err)
	}
	return tok, nil
}

// tokenFromWeb runs the interactive consent flow on the terminal.
func tokenFromWeb(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open the following link in your browser, then paste the authorization code:\n%v\n> ", authURL)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return nil, &AuthError{Message: "unable to read authorization code", Cause: err}
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, &AuthError{Message: "unable to exchange authorization code", Cause: err}
	}
	return tok, nil
}

// saveToken caches an oauth token for future runs.
func saveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}
