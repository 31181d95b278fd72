package sns

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer"
)

// Config options for the SNS notifier
type Config struct {
	TopicARN        string // SNS topic to publish to
	Region          string // AWS region
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for SNS-compatible services
}

// Notifier publishes processing results to an SNS topic. Publishing is
// best-effort; callers treat errors as advisory.
type Notifier struct {
	client   *sns.Client
	topicARN string
}

// New creates a new SNS notifier
func New(config Config) (*Notifier, error) {
	if config.TopicARN == "" {
		return nil, errors.New("topic ARN is required")
	}

	if config.Region == "" {
		config.Region = "us-east-1"
	}

	var awsCfg aws.Config
	var err error

	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			)),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
		)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var snsOptions []func(*sns.Options)
	if config.Endpoint != "" {
		snsOptions = append(snsOptions, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
		})
	}

	return &Notifier{
		client:   sns.NewFromConfig(awsCfg, snsOptions...),
		topicARN: config.TopicARN,
	}, nil
}

// Publish sends a processing summary to the configured topic
func (n *Notifier) Publish(ctx context.Context, event thumbnailer.NotificationEvent) error {
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(subjectFor(event.Result)),
		Message:  aws.String(messageFor(event.Result)),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}
	return nil
}

// subjectFor returns the notification subject line for a result
func subjectFor(result thumbnailer.ProcessingResult) string {
	if result.Status == thumbnailer.StatusSuccess {
		return "Image Processing Successful"
	}
	return "Image Processing Failed"
}

// messageFor returns the notification body for a result
func messageFor(result thumbnailer.ProcessingResult) string {
	if result.Status == thumbnailer.StatusSuccess && len(result.DerivedObjects) > 0 {
		derived := result.DerivedObjects[0]
		return fmt.Sprintf("Image %s was successfully processed and saved to %s/%s",
			result.Source.Key, derived.StoreID, derived.Key)
	}
	return fmt.Sprintf("Error processing image %s: %s", result.Source.Key, result.Error)
}
