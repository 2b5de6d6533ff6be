package iampolicy

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	iamsvc "github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/providers/aws/common"
)

type fakeIAM struct {
	pages      [][]iamtypes.Policy
	documents  map[string]string
	scope      iamtypes.PolicyScopeType
	versionErr error
}

func (f *fakeIAM) ListPolicies(_ context.Context, in *iamsvc.ListPoliciesInput, _ ...func(*iamsvc.Options)) (*iamsvc.ListPoliciesOutput, error) {
	f.scope = in.Scope
	page := 0
	if in.Marker != nil {
		page = 1
	}
	out := &iamsvc.ListPoliciesOutput{Policies: f.pages[page]}
	if page+1 < len(f.pages) {
		out.IsTruncated = true
		out.Marker = aws.String("next")
	}
	return out, nil
}

func (f *fakeIAM) GetPolicyVersion(_ context.Context, in *iamsvc.GetPolicyVersionInput, _ ...func(*iamsvc.Options)) (*iamsvc.GetPolicyVersionOutput, error) {
	if f.versionErr != nil {
		return nil, f.versionErr
	}
	doc := url.QueryEscape(f.documents[aws.ToString(in.PolicyArn)])
	return &iamsvc.GetPolicyVersionOutput{PolicyVersion: &iamtypes.PolicyVersion{Document: aws.String(doc)}}, nil
}

type fakeSTS struct{}

func (fakeSTS) GetCallerIdentity(_ context.Context, _ *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	return &sts.GetCallerIdentityOutput{Account: aws.String("123456789012")}, nil
}

type fakeProvider struct{ clients *common.ClientSet }

func (p fakeProvider) LoadProfile(_ context.Context, profile, region string) (*common.ProfileConfig, error) {
	return &common.ProfileConfig{ProfileName: profile, AccountID: "123456789012", Region: region, Clients: p.clients}, nil
}

func policy(arn string) iamtypes.Policy {
	return iamtypes.Policy{Arn: aws.String(arn), DefaultVersionId: aws.String("v1")}
}

func TestSource_LoadPoliciesAcrossPages(t *testing.T) {
	const a, b = "arn:aws:iam::123456789012:policy/admin", "arn:aws:iam::123456789012:policy/reader"
	iam := &fakeIAM{
		pages: [][]iamtypes.Policy{{policy(a)}, {policy(b)}},
		documents: map[string]string{
			a: `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Action":"*","Resource":"*"}]}`,
			b: `{"Statement":[{"Effect":"Allow","Action":["s3:GetObject"],"Resource":"arn:aws:s3:::r/*"}]}`,
		},
	}
	src := &Source{Provider: fakeProvider{clients: &common.ClientSet{IAM: iam, STS: fakeSTS{}}}}
	docs, err := src.LoadPolicies(context.Background())
	if err != nil {
		t.Fatalf("LoadPolicies: %v", err)
	}
	if iam.scope != iamtypes.PolicyScopeTypeLocal {
		t.Errorf("scope: got %q; want Local", iam.scope)
	}
	if len(docs) != 2 {
		t.Fatalf("want 2 documents, got %d", len(docs))
	}
	if docs[0].Source != a || !docs[0].Qualified {
		t.Errorf("first document: source %q qualified %v", docs[0].Source, docs[0].Qualified)
	}
	if got := docs[0].Statement[0].Action; len(got) != 1 || got[0] != "*" {
		t.Errorf("decoded actions: %v", got)
	}
	if src.AccountID != "123456789012" {
		t.Errorf("AccountID: got %q", src.AccountID)
	}
}

func TestSource_GetPolicyVersionError(t *testing.T) {
	iam := &fakeIAM{
		pages:      [][]iamtypes.Policy{{policy("arn:x")}},
		versionErr: errors.New("AccessDenied"),
	}
	src := &Source{Provider: fakeProvider{clients: &common.ClientSet{IAM: iam}}}
	if _, err := src.LoadPolicies(context.Background()); err == nil {
		t.Error("expected error")
	}
}

func TestSource_Describe(t *testing.T) {
	if got := (&Source{}).Describe(); got[0] != "aws:iam:profile/default" {
		t.Errorf("got %v", got)
	}
}
