package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"strings"
	"testing"

	"undergraduation-admin/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

func TestNewMailer(t *testing.T) {
	m, err := NewMailer(&config.Config{MailProvider: "log"})
	require.NoError(t, err)
	assert.Equal(t, "log", m.Name())

	m, err = NewMailer(&config.Config{MailProvider: "customerio", CustomerIORegion: "eu"})
	require.NoError(t, err)
	require.IsType(t, &CustomerIOMailer{}, m)
	assert.Equal(t, customerIOTrackEU, m.(*CustomerIOMailer).baseURL)

	m, err = NewMailer(&config.Config{MailProvider: "sendgrid"})
	require.NoError(t, err)
	assert.Equal(t, "sendgrid", m.Name())

	m, err = NewMailer(&config.Config{MailProvider: "gmail", GoogleClientID: "client", GmailRefreshToken: "refresh"})
	require.NoError(t, err)
	require.IsType(t, &GmailMailer{}, m)

	_, err = NewMailer(&config.Config{MailProvider: "pigeon"})
	assert.Error(t, err)
}

func TestCustomerIOMailer_Send(t *testing.T) {
	var got []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "site", user)
		assert.Equal(t, "key", pass)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		got = append(got, recordedRequest{Method: r.Method, Path: r.URL.EscapedPath(), Body: body})
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewCustomerIOMailer("site", "key", "us")
	m.baseURL = srv.URL

	err := m.Send(context.Background(), Message{
		CustomerID: "stu/1",
		To:         "ana@example.com",
		Subject:    "Hello",
		Text:       "plain",
		HTML:       "<p>rich</p>",
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, http.MethodPut, got[0].Method)
	assert.Equal(t, "/api/v1/customers/stu%2F1", got[0].Path)
	assert.Equal(t, "ana@example.com", got[0].Body["email"])

	assert.Equal(t, http.MethodPost, got[1].Method)
	assert.Equal(t, "/api/v1/customers/stu%2F1/messages", got[1].Path)
	data := got[1].Body["message_data"].(map[string]interface{})
	assert.Equal(t, "Hello", data["subject"])
	assert.Equal(t, "<p>rich</p>", data["body"])
}

func TestCustomerIOMailer_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, "bad credentials\n")
	}))
	defer srv.Close()

	m := NewCustomerIOMailer("site", "key", "us")
	m.baseURL = srv.URL
	err := m.Send(context.Background(), Message{CustomerID: "s1", To: "a@example.com", Text: "x"})
	require.Error(t, err)
	assert.Equal(t, "customer.io API error (status 401): bad credentials", err.Error())

	err = NewCustomerIOMailer("", "", "us").Send(context.Background(), Message{CustomerID: "s1"})
	assert.Error(t, err)

	err = NewCustomerIOMailer("site", "key", "us").Send(context.Background(), Message{})
	assert.Error(t, err)
}

func TestSendGridMailer_Send(t *testing.T) {
	var auth string
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewSendGridMailer("sg-key", "team@example.com", "")
	m.baseURL = srv.URL + "/v3/mail/send"

	err := m.Send(context.Background(), Message{To: "ana@example.com", Subject: "Hello", Text: "plain"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer sg-key", auth)
	assert.Equal(t, "Hello", body["subject"])

	from := body["from"].(map[string]interface{})
	assert.Equal(t, "team@example.com", from["email"])
	assert.Equal(t, "Undergraduation", from["name"])
}

func TestSendGridMailer_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"errors":[{"message":"invalid from"}]}`)
	}))
	defer srv.Close()

	m := NewSendGridMailer("sg-key", "team@example.com", "Team")
	m.baseURL = srv.URL

	err := m.Send(context.Background(), Message{To: "ana@example.com", Subject: "Hello", Text: "plain"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sendgrid API error (status 400)")

	err = NewSendGridMailer("", "team@example.com", "").Send(context.Background(), Message{To: "a@example.com"})
	assert.Error(t, err)
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, LogMailer{}.Send(context.Background(), Message{To: "a@example.com"}))
}

func TestGmailMailer_Send(t *testing.T) {
	var path string
	var raw []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		var body struct {
			Raw string `json:"raw"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		decoded, err := base64.URLEncoding.DecodeString(body.Raw)
		require.NoError(t, err)
		raw = decoded
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"msg-1"}`)
	}))
	defer srv.Close()

	m, err := NewGmailMailer(context.Background(), "", "", "", "counselors@example.com",
		option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)
	assert.Equal(t, "gmail", m.Name())

	err = m.Send(context.Background(), Message{To: "ana@example.com", Subject: "Hello", Text: "plain", HTML: "<p>plain</p>"})
	require.NoError(t, err)
	assert.Equal(t, "/gmail/v1/users/me/messages/send", path)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "counselors@example.com", msg.Header.Get("From"))
	assert.Equal(t, "ana@example.com", msg.Header.Get("To"))
	assert.Equal(t, "Hello", msg.Header.Get("Subject"))

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/alternative", mediaType)

	mr := multipart.NewReader(msg.Body, params["boundary"])
	var types []string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		types = append(types, part.Header.Get("Content-Type"))
	}
	assert.Equal(t, []string{`text/plain; charset="UTF-8"`, `text/html; charset="UTF-8"`}, types)
}

func TestGmailMailer_PlainText(t *testing.T) {
	raw, err := buildMIME("", Message{To: "ana@example.com", Subject: "Café visit", Text: "See you soon"})
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Empty(t, msg.Header.Get("From"))
	subject, err := new(mime.WordDecoder).DecodeHeader(msg.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "Café visit", subject)

	body, err := io.ReadAll(msg.Body)
	require.NoError(t, err)
	text, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(body)))
	require.NoError(t, err)
	assert.Equal(t, "See you soon", string(text))
}

func TestGmailMailer_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"insufficient scope"}}`)
	}))
	defer srv.Close()

	m, err := NewGmailMailer(context.Background(), "", "", "", "",
		option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)

	err = m.Send(context.Background(), Message{To: "ana@example.com", Subject: "Hello", Text: "plain"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gmail send")
}
