// internal/common/aws/notifier.go
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SESAPI is the subset of the SES client used for report emails.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SNSAPI is the subset of the SNS client used for SMS.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier delivers plain-text email through SES and SMS through SNS.
type Notifier struct {
	ses SESAPI
	sns SNSAPI
}

// NewNotifier loads the default AWS credential chain for region.
func NewNotifier(ctx context.Context, region string) (*Notifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewNotifierWithClients(ses.NewFromConfig(cfg), sns.NewFromConfig(cfg)), nil
}

func NewNotifierWithClients(sesClient SESAPI, snsClient SNSAPI) *Notifier {
	return &Notifier{ses: sesClient, sns: snsClient}
}

// SendEmail returns the SES message id.
func (n *Notifier) SendEmail(ctx context.Context, from, to, subject, body string) (string, error) {
	out, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(from),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}

// SendSMS returns the SNS message id.
func (n *Notifier) SendSMS(ctx context.Context, phone, message string) (string, error) {
	out, err := n.sns.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(message),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}
