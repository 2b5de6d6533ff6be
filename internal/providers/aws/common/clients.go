package common

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// The interfaces below list only the SDK operations the tools call. Tests
// satisfy them with small fakes.

// STSClient confirms credentials in LoadProfile.
type STSClient interface {
	GetCallerIdentity(
		ctx context.Context,
		params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options),
	) (*sts.GetCallerIdentityOutput, error)
}

// EC2Client covers instance discovery for live telemetry. It embeds the SDK
// paginator interface so ec2.NewDescribeInstancesPaginator can drive it.
type EC2Client interface {
	ec2.DescribeInstancesAPIClient
}

// IAMClient covers the IAM operations used to read customer managed policy
// documents.
type IAMClient interface {
	iam.ListPoliciesAPIClient
	GetPolicyVersion(
		ctx context.Context,
		params *iam.GetPolicyVersionInput,
		optFns ...func(*iam.Options),
	) (*iam.GetPolicyVersionOutput, error)
}

// CloudWatchClient covers the metric queries used to build telemetry
// tables.
type CloudWatchClient interface {
	GetMetricStatistics(
		ctx context.Context,
		params *cloudwatch.GetMetricStatisticsInput,
		optFns ...func(*cloudwatch.Options),
	) (*cloudwatch.GetMetricStatisticsOutput, error)
}

// S3Client covers report upload.
type S3Client interface {
	PutObject(
		ctx context.Context,
		params *s3.PutObjectInput,
		optFns ...func(*s3.Options),
	) (*s3.PutObjectOutput, error)
}

// ClientSet holds the service clients of one profile and region.
type ClientSet struct {
	STS        STSClient
	EC2        EC2Client
	IAM        IAMClient
	CloudWatch CloudWatchClient
	S3         S3Client
}

// ClientFactory builds a ClientSet from a loaded SDK config.
type ClientFactory func(cfg aws.Config) *ClientSet

// NewClientSet builds real SDK clients.
func NewClientSet(cfg aws.Config) *ClientSet {
	return &ClientSet{
		STS:        sts.NewFromConfig(cfg),
		EC2:        ec2.NewFromConfig(cfg),
		IAM:        iam.NewFromConfig(cfg),
		CloudWatch: cloudwatch.NewFromConfig(cfg),
		S3:         s3.NewFromConfig(cfg),
	}
}
