package mirror

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// SlackNotifier mirrors exchanges to a Slack channel.
type SlackNotifier struct {
	client    *slack.Client
	channelID string
	agentName string
}

func NewSlackNotifier(token, channelID, agentName string) *SlackNotifier {
	return &SlackNotifier{
		client:    slack.New(token),
		channelID: channelID,
		agentName: agentName,
	}
}

func (s *SlackNotifier) Name() string { return "slack" }

func (s *SlackNotifier) Notify(ctx context.Context, human, agent string) error {
	text := fmt.Sprintf("*Human:* %s\n*%s:* %s", human, s.agentName, agent)
	_, _, err := s.client.PostMessageContext(ctx, s.channelID,
		slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("posting to slack channel %s: %w", s.channelID, err)
	}
	return nil
}
