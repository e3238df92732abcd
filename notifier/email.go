package notifier

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Mailer sends customer-facing notification email. The order service treats
// it as fire-and-forget: a failed send is logged and never fails the order.
type Mailer interface {
	SendOrderReceipt(ctx context.Context, to string, orderID uint, total float64) error
}

// SESMailer sends through AWS SES.
type SESMailer struct {
	client *ses.Client
	sender string
}

func NewSESMailer(client *ses.Client, sender string) *SESMailer {
	return &SESMailer{client: client, sender: sender}
}

func (m *SESMailer) SendOrderReceipt(ctx context.Context, to string, orderID uint, total float64) error {
	if m.sender == "" {
		return fmt.Errorf("sender email address is not configured")
	}
	if to == "" {
		return fmt.Errorf("recipient email address is empty")
	}

	totalStr := strconv.FormatFloat(total, 'f', 2, 64)
	subject := fmt.Sprintf("Order #%d received", orderID)
	body := fmt.Sprintf(
		"Thanks for your order!\n\nOrder ID: %d\nTotal: $%s\n\n"+
			"We'll let you know when the restaurant starts cooking.",
		orderID, totalStr)

	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := m.client.SendEmail(sendCtx, &ses.SendEmailInput{
		Source: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(body),
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send order receipt for order %d: %w", orderID, err)
	}
	return nil
}
