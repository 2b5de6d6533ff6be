package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// DefaultRegion is used when neither the flag nor the profile names one.
const DefaultRegion = "us-east-1"

// ProfileConfig is one AWS identity ready for use: the SDK config, the
// account it resolves to and clients scoped to a single region.
type ProfileConfig struct {
	ProfileName string
	AccountID   string
	Region      string
	Config      aws.Config
	Clients     *ClientSet
}

// AWSClientProvider resolves a profile and region into a ProfileConfig.
// An empty profile selects the SDK default chain; an empty region keeps the
// profile's own region.
type AWSClientProvider interface {
	LoadProfile(ctx context.Context, profile, region string) (*ProfileConfig, error)
}

type configLoader func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error)

// DefaultAWSClientProvider loads profiles from the shared config and
// credentials files through the SDK.
type DefaultAWSClientProvider struct {
	factory ClientFactory
	load    configLoader
}

// NewDefaultAWSClientProvider returns a provider backed by real SDK clients.
func NewDefaultAWSClientProvider() *DefaultAWSClientProvider {
	return NewDefaultAWSClientProviderWithFactory(NewClientSet)
}

// NewDefaultAWSClientProviderWithFactory builds clients with f instead of
// NewClientSet.
func NewDefaultAWSClientProviderWithFactory(f ClientFactory) *DefaultAWSClientProvider {
	return &DefaultAWSClientProvider{factory: f, load: awsconfig.LoadDefaultConfig}
}

// LoadProfile loads the SDK config, builds the client set and confirms the
// credentials with STS GetCallerIdentity.
func (p *DefaultAWSClientProvider) LoadProfile(ctx context.Context, profile, region string) (*ProfileConfig, error) {
	name := profile
	if name == "" {
		name = "default"
	}

	var opts []func(*awsconfig.LoadOptions) error
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := p.load(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS profile %q: %w", name, err)
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	pc := &ProfileConfig{ProfileName: name, Region: cfg.Region, Config: cfg, Clients: p.factory(cfg)}
	if pc.AccountID, err = callerAccount(ctx, pc.Clients.STS); err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}
	return pc, nil
}

func callerAccount(ctx context.Context, c STSClient) (string, error) {
	out, err := c.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("STS GetCallerIdentity: %w", err)
	}
	if out.Account == nil {
		return "", errors.New("STS GetCallerIdentity returned no account")
	}
	return *out.Account, nil
}
