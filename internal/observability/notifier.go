package observability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Notifier sends alerts and reminders to an external channel.
type Notifier interface {
	Notify(alerts []Alert) error
}

type slackNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewSlackNotifier creates a Notifier posting to a Slack incoming webhook.
func NewSlackNotifier(webhookURL string) Notifier {
	return &slackNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type slackMessage struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Notify posts one Block Kit message with warnings first and starting-soon
// reminders after them. Nothing is sent for an empty list.
func (s *slackNotifier) Notify(alerts []Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	msg := s.buildMessage(alerts)

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling slack message: %w", err)
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("posting to slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}

	return nil
}

func (s *slackNotifier) buildMessage(alerts []Alert) slackMessage {
	var warnings, reminders []Alert
	latest := alerts[0].TriggeredAt
	for _, a := range alerts {
		if a.Condition == ConditionStartingSoon {
			reminders = append(reminders, a)
		} else {
			warnings = append(warnings, a)
		}
		if a.TriggeredAt.After(latest) {
			latest = a.TriggeredAt
		}
	}
	sort.SliceStable(warnings, func(i, j int) bool {
		return severityRank(warnings[i].Severity) < severityRank(warnings[j].Severity)
	})

	msg := slackMessage{
		Text: fmt.Sprintf("Focus Flow: %d ogohlantirish, %d eslatma", len(warnings), len(reminders)),
		Blocks: []slackBlock{
			{Type: "header", Text: &slackText{Type: "plain_text", Text: "Focus Flow"}},
		},
	}
	if len(warnings) > 0 {
		var b strings.Builder
		b.WriteString("*Ogohlantirishlar*")
		for _, a := range warnings {
			fmt.Fprintf(&b, "\n%s %s", severityEmoji(a.Severity), a.Message)
		}
		msg.Blocks = append(msg.Blocks, markdownSection(b.String()))
	}
	if len(reminders) > 0 {
		if len(warnings) > 0 {
			msg.Blocks = append(msg.Blocks, slackBlock{Type: "divider"})
		}
		var b strings.Builder
		b.WriteString("*Tez orada boshlanadi*")
		for _, a := range reminders {
			fmt.Fprintf(&b, "\n\u23f0 %s", a.Message)
		}
		msg.Blocks = append(msg.Blocks, markdownSection(b.String()))
	}
	msg.Blocks = append(msg.Blocks, slackBlock{
		Type:     "context",
		Elements: []slackText{{Type: "mrkdwn", Text: latest.Format("2006-01-02 15:04")}},
	})
	return msg
}

func markdownSection(text string) slackBlock {
	return slackBlock{Type: "section", Text: &slackText{Type: "mrkdwn", Text: text}}
}

func severityRank(severity AlertSeverity) int {
	switch severity {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

func severityEmoji(severity AlertSeverity) string {
	switch severity {
	case SeverityHigh:
		return "\U0001f534"
	case SeverityMedium:
		return "\U0001f7e1"
	case SeverityLow:
		return "\U0001f535"
	default:
		return "\u2753"
	}
}
