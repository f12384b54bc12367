package notify

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/lestrrat-go/slack"
	"github.com/lestrrat-go/slack/objects"

	"github.com/linyows/tagver/logging"
)

var (
	defaultSlackChannel = "general"
	// SlackUsername variable.
	SlackUsername = "Tagver"
	// SlackFooter variable.
	SlackFooter = "tagver notify/slack"
)

// Slack posts tag announcements to a channel.
type Slack struct {
	Channel  string `schema:"-"`
	Title    string `schema:"title"`
	TitleURL string `schema:"url"`
	token    string
	logger   *logging.Logger
}

// NewSlack parses a slack://channel?title=...&url=... scheme URL. The
// token always comes from SLACK_TOKEN, never from the URL.
func NewSlack(urlstr string, log *logging.Logger) (*Slack, error) {
	u, err := url.Parse(urlstr)
	if err != nil {
		return nil, err
	}

	s := &Slack{Channel: u.Host, logger: log}
	if err := decoder.Decode(s, u.Query()); err != nil {
		return nil, err
	}

	if s.Channel == "" {
		s.Channel = defaultSlackChannel
	}
	if t := os.Getenv("SLACK_TOKEN"); t != "" {
		s.token = t
	}
	if s.token == "" {
		return nil, fmt.Errorf("slack token is required")
	}

	return s, nil
}

// Send posts message to the configured channel.
func (s *Slack) Send(ctx context.Context, message string) {
	cl := slack.New(s.token)
	at := s.buildAttachment(message)

	_, err := cl.Chat().PostMessage(s.Channel).Username(SlackUsername).
		Attachment(&at).Text("").Do(ctx)
	if err != nil {
		s.logger.Error("slack postMessage failure", "error", err)
	}
}

func (s *Slack) buildAttachment(message string) objects.Attachment {
	var at objects.Attachment
	at.Color = "#36a64f"
	at.Text = message
	at.Footer = SlackFooter
	at.Timestamp = objects.Timestamp(time.Now().Unix())

	if s.Title != "" {
		at.Title = s.Title
		at.TitleLink = s.TitleURL
	}
	if host, err := os.Hostname(); err == nil {
		at.Fields.Append(&objects.AttachmentField{
			Title: "Host", Value: strings.TrimSpace(host), Short: true,
		})
	}

	return at
}
