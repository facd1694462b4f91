package sqsconsumer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

//go:generate moq -out mock_client_test.go -pkg sqsconsumer_test . QueueClient

// QueueClient is the subset of *sqs.Client the consumer depends on.
type QueueClient interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

var _ QueueClient = (*sqs.Client)(nil)

// NewClient builds an SQS client for region using the default credential
// chain. A non-empty endpoint overrides the resolved service endpoint, which
// is how local stand-ins such as ElasticMQ or LocalStack are reached.
func NewClient(ctx context.Context, region, endpoint string) (*sqs.Client, error) {
	if region == "" {
		return nil, ErrMissingRegion
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}
