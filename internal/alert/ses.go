package alert

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/aws/smithy-go"
)

const (
	errCodeMessageRejected   = "MessageRejected"
	errCodeDomainNotVerified = "MailFromDomainNotVerifiedException"
	errCodeAccountSuspended  = "AccountSuspendedException"
	errCodeSendingPaused     = "SendingPausedException"
	errCodeTooManyRequests   = "TooManyRequestsException"
	errCodeLimitExceeded     = "LimitExceededException"
	errCodeNotFound          = "NotFoundException"
	errCodeBadRequest        = "BadRequestException"
)

var (
	ErrMessageRejected   = errors.New("alert message rejected")
	ErrSenderNotVerified = errors.New("alert sender identity not verified")
	ErrSendingDisabled   = errors.New("alert sending disabled for account")
	ErrThrottled         = errors.New("alert delivery throttled")
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type SESConfig struct {
	Region string
	From   string
	To     string
}

// SESChannel sends alerts through Amazon SES v2 using the default
// credential chain.
type SESChannel struct {
	client sesAPI
	cfg    SESConfig
}

func NewSESChannel(ctx context.Context, cfg SESConfig) (*SESChannel, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newSESChannelWithClient(sesv2.NewFromConfig(awsCfg), cfg), nil
}

func newSESChannelWithClient(client sesAPI, cfg SESConfig) *SESChannel {
	return &SESChannel{client: client, cfg: cfg}
}

func (c *SESChannel) Name() string {
	return ChannelSES
}

func (c *SESChannel) Send(ctx context.Context, msg Message) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(c.cfg.From),
		Destination: &types.Destination{
			ToAddresses: []string{c.cfg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(msg.Body),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := c.client.SendEmail(ctx, input); err != nil {
		return parseSESError(err)
	}
	return nil
}

func parseSESError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case errCodeMessageRejected, errCodeBadRequest:
			return fmt.Errorf("%w: %s", ErrMessageRejected, apiErr.ErrorMessage())
		case errCodeDomainNotVerified, errCodeNotFound:
			return fmt.Errorf("%w: %s", ErrSenderNotVerified, apiErr.ErrorMessage())
		case errCodeAccountSuspended, errCodeSendingPaused:
			return fmt.Errorf("%w: %s", ErrSendingDisabled, apiErr.ErrorMessage())
		case errCodeTooManyRequests, errCodeLimitExceeded:
			return fmt.Errorf("%w: %s", ErrThrottled, apiErr.ErrorMessage())
		}
	}
	return fmt.Errorf("ses send email: %w", err)
}
