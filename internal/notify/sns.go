// Package notify is the notification collaborator. The service emits
// discrete lifecycle events here after a successful commit; delivery is
// best-effort and never retried.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dayronponce94/designer-platform-sub000/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

const (
	EventAssigned      = "engagement.assigned"
	EventStatusChanged = "engagement.status_changed"
	EventNewMessage    = "engagement.new_message"
)

// SNSNotifier publishes engagement events as JSON messages to a single topic.
// Downstream consumers fan out to email, push, whatever.
type SNSNotifier struct {
	client   *sns.Client
	topicARN string
}

func NewSNSNotifier(client *sns.Client, topicARN string) *SNSNotifier {
	return &SNSNotifier{client: client, topicARN: topicARN}
}

func (n *SNSNotifier) Assigned(ctx context.Context, fulfillerID, engagementID string) error {
	return n.publish(ctx, map[string]any{
		"type":         EventAssigned,
		"fulfillerId":  fulfillerID,
		"engagementId": engagementID,
	})
}

func (n *SNSNotifier) StatusChanged(ctx context.Context, requesterID, engagementID string, from, to types.EngagementStatus) error {
	return n.publish(ctx, map[string]any{
		"type":         EventStatusChanged,
		"requesterId":  requesterID,
		"engagementId": engagementID,
		"from":         from,
		"to":           to,
	})
}

func (n *SNSNotifier) NewMessage(ctx context.Context, recipientID, senderID, engagementID string) error {
	return n.publish(ctx, map[string]any{
		"type":         EventNewMessage,
		"recipientId":  recipientID,
		"senderId":     senderID,
		"engagementId": engagementID,
	})
}

func (n *SNSNotifier) publish(ctx context.Context, payload map[string]any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}

	_, err = n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Message:  aws.String(string(data)),
	})
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	return nil
}
