package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailMailer sends as a shared counselor mailbox through the Gmail API.
type GmailMailer struct {
	srv    *gmail.Service
	sender string
}

// NewGmailMailer authorizes with a long-lived refresh token for the sender
// mailbox. Extra client options are appended, which lets tests point the
// service at a fake endpoint.
func NewGmailMailer(ctx context.Context, clientID, clientSecret, refreshToken, sender string, opts ...option.ClientOption) (*GmailMailer, error) {
	if len(opts) == 0 {
		conf := &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       []string{gmail.GmailSendScope},
			Endpoint:     google.Endpoint,
		}
		token := &oauth2.Token{RefreshToken: refreshToken, TokenType: "Bearer"}
		opts = []option.ClientOption{option.WithTokenSource(conf.TokenSource(ctx, token))}
	}

	srv, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GmailMailer{srv: srv, sender: sender}, nil
}

func (m *GmailMailer) Name() string { return "gmail" }

func (m *GmailMailer) Send(ctx context.Context, msg Message) error {
	raw, err := buildMIME(m.sender, msg)
	if err != nil {
		return err
	}

	message := &gmail.Message{Raw: base64.URLEncoding.EncodeToString(raw)}
	if _, err := m.srv.Users.Messages.Send("me", message).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gmail send: %w", err)
	}
	return nil
}

// buildMIME renders msg as an RFC 5322 message. A message with HTML becomes
// multipart/alternative with the text part first.
func buildMIME(from string, msg Message) ([]byte, error) {
	var buf bytes.Buffer
	header := func(k, v string) { fmt.Fprintf(&buf, "%s: %s\r\n", k, v) }

	if from != "" {
		header("From", from)
	}
	header("To", msg.To)
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("MIME-Version", "1.0")

	if msg.HTML == "" {
		header("Content-Type", `text/plain; charset="UTF-8"`)
		header("Content-Transfer-Encoding", "base64")
		buf.WriteString("\r\n")
		buf.WriteString(base64.StdEncoding.EncodeToString([]byte(msg.Text)))
		return buf.Bytes(), nil
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header("Content-Type", "multipart/alternative; boundary="+mw.Boundary())
	buf.WriteString("\r\n")

	parts := []struct{ contentType, content string }{
		{"text/plain", msg.Text},
		{"text/html", msg.HTML},
	}
	for _, p := range parts {
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.contentType + `; charset="UTF-8"`},
			"Content-Transfer-Encoding": {"base64"},
		})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(wrapBase64(p.content))); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	buf.Write(body.Bytes())
	return buf.Bytes(), nil
}

// wrapBase64 encodes s in 76 column lines.
func wrapBase64(s string) string {
	enc := base64.StdEncoding.EncodeToString([]byte(s))
	var b strings.Builder
	for len(enc) > 76 {
		b.WriteString(enc[:76])
		b.WriteString("\r\n")
		enc = enc[76:]
	}
	b.WriteString(enc)
	return b.String()
}
