// internal/notify/notifier.go
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"

	awsclients "fantasy-research/internal/common/aws"
	apperrors "fantasy-research/internal/common/errors"
	"fantasy-research/internal/common/logger"
	"fantasy-research/internal/research"
)

// maxSummaryRunes bounds the answer excerpt carried in alerts.
const maxSummaryRunes = 280

type Config struct {
	SNSEnabled  bool
	TopicARN    string
	SESEnabled  bool
	FromAddress string
	ToAddresses []string
}

// InsightNotifier alerts subscribers about actionable insights over SNS and SES.
// Non-actionable insights are ignored.
type InsightNotifier struct {
	cfg    Config
	sns    awsclients.SNSAPI
	ses    awsclients.SESAPI
	logger logger.Logger
}

func NewInsightNotifier(cfg Config, snsClient awsclients.SNSAPI, sesClient awsclients.SESAPI, log logger.Logger) *InsightNotifier {
	return &InsightNotifier{
		cfg:    cfg,
		sns:    snsClient,
		ses:    sesClient,
		logger: logger.ForComponent(log, "insight-notifier"),
	}
}

func (n *InsightNotifier) Name() string {
	return "notifier"
}

// Publish sends alerts on every configured channel. Each channel failure is a
// NOTIFICATION_SEND_FAILED StandardError; they are joined and a failure on one
// channel does not stop the other.
func (n *InsightNotifier) Publish(ctx context.Context, insight *research.Insight) error {
	if insight == nil || !insight.IsActionable {
		return nil
	}

	subject := fmt.Sprintf("Actionable %s insight (week %d, confidence %.0f%%)",
		strings.ReplaceAll(string(insight.QueryType), "_", "/"), insight.Week, insight.Confidence*100)
	summary := summarize(insight)

	var errs []error
	if n.cfg.SNSEnabled && n.sns != nil && n.cfg.TopicARN != "" {
		if err := n.publishTopic(ctx, insight, subject, summary); err != nil {
			errs = append(errs, n.channelFailed("sns", insight, err))
		}
	}
	if n.cfg.SESEnabled && n.ses != nil && n.cfg.FromAddress != "" && len(n.cfg.ToAddresses) > 0 {
		if err := n.sendEmail(ctx, subject, summary); err != nil {
			errs = append(errs, n.channelFailed("ses", insight, err))
		}
	}

	if len(errs) == 0 {
		n.logger.Info("actionable insight notified", map[string]interface{}{
			"insightId": insight.ID,
			"category":  string(insight.QueryType),
		})
	}
	return errors.Join(errs...)
}

func (n *InsightNotifier) channelFailed(channel string, insight *research.Insight, err error) error {
	n.logger.Warn("notification channel failed", map[string]interface{}{
		"channel":   channel,
		"insightId": insight.ID,
		"error":     err.Error(),
	})
	return apperrors.NewNotificationSendFailedError(channel, err)
}

func (n *InsightNotifier) publishTopic(ctx context.Context, insight *research.Insight, subject, summary string) error {
	_, err := n.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.cfg.TopicARN),
		Subject:  aws.String(truncate(subject, 100)),
		Message:  aws.String(summary),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"category": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(insight.QueryType)),
			},
			"insightId": {
				DataType:    aws.String("String"),
				StringValue: aws.String(insight.ID),
			},
		},
	})
	return err
}

func (n *InsightNotifier) sendEmail(ctx context.Context, subject, body string) error {
	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: n.cfg.ToAddresses,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.cfg.FromAddress),
	})
	return err
}

func summarize(insight *research.Insight) string {
	var r research.Result
	content := ""
	if err := json.Unmarshal([]byte(insight.ResponseJSON), &r); err == nil {
		content = r.Content
	}

	var parts []string
	parts = append(parts, "Question: "+truncate(insight.QueryText, maxSummaryRunes))
	if content != "" {
		parts = append(parts, "Answer: "+truncate(content, maxSummaryRunes))
	}
	if len(r.Citations) > 0 {
		parts = append(parts, "Sources: "+strings.Join(r.Citations, ", "))
	}
	return strings.Join(parts, "\n\n")
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
