// Package iampolicy reads customer managed IAM policy documents from a live
// AWS account so they can be analyzed like policy files.
package iampolicy

import (
	"context"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	iamsvc "github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/providers/files"
)

// Source lists the customer managed policies of the account behind Profile
// and returns the default version document of each.
type Source struct {
	Provider common.AWSClientProvider
	Profile  string
	Region   string

	// OnlyAttached limits the listing to policies attached to at least one
	// user, group or role.
	OnlyAttached bool

	// AccountID is filled by LoadPolicies.
	AccountID string
}

// LoadPolicies implements the IAM policy source used by the IAM collector.
// Documents are returned in listing order, qualified by policy ARN.
func (s *Source) LoadPolicies(ctx context.Context) ([]*models.PolicyDocument, error) {
	profile, err := s.Provider.LoadProfile(ctx, s.Profile, s.Region)
	if err != nil {
		return nil, err
	}
	s.AccountID = profile.AccountID
	return collectPolicies(ctx, profile.Clients.IAM, s.OnlyAttached)
}

// Describe returns the input description for report metadata.
func (s *Source) Describe() []string {
	name := s.Profile
	if name == "" {
		name = "default"
	}
	return []string{"aws:iam:profile/" + name}
}

func collectPolicies(ctx context.Context, client common.IAMClient, onlyAttached bool) ([]*models.PolicyDocument, error) {
	paginator := iamsvc.NewListPoliciesPaginator(client, &iamsvc.ListPoliciesInput{
		Scope:        iamtypes.PolicyScopeTypeLocal,
		OnlyAttached: onlyAttached,
	})

	var docs []*models.PolicyDocument
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list IAM policies: %w", err)
		}
		for _, p := range page.Policies {
			doc, err := fetchDefaultVersion(ctx, client, p)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// fetchDefaultVersion downloads and decodes the default version document of
// p. IAM returns policy documents URL-encoded.
func fetchDefaultVersion(ctx context.Context, client common.IAMClient, p iamtypes.Policy) (*models.PolicyDocument, error) {
	arn := aws.ToString(p.Arn)
	out, err := client.GetPolicyVersion(ctx, &iamsvc.GetPolicyVersionInput{
		PolicyArn: p.Arn,
		VersionId: p.DefaultVersionId,
	})
	if err != nil {
		return nil, fmt.Errorf("get policy version %s of %s: %w", aws.ToString(p.DefaultVersionId), arn, err)
	}
	if out.PolicyVersion == nil || out.PolicyVersion.Document == nil {
		return nil, fmt.Errorf("policy %s: empty policy version", arn)
	}
	raw, err := url.QueryUnescape(aws.ToString(out.PolicyVersion.Document))
	if err != nil {
		return nil, fmt.Errorf("decode policy %s: %w", arn, err)
	}
	doc, err := files.ParsePolicyJSON(arn, []byte(raw))
	if err != nil {
		return nil, fmt.Errorf("parse policy %s: %w", arn, err)
	}
	doc.Qualified = true
	return doc, nil
}
