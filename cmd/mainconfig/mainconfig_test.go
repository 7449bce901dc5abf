package mainconfig

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"

	appconfig "github.com/wolfman30/mindmate-ai/internal/config"
)

func TestLoadAWSConfigStaticCredentialsAndEndpoint(t *testing.T) {
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	cfg := &appconfig.Config{
		AWSRegion:           "ap-northeast-2",
		AWSAccessKeyID:      "test",
		AWSSecretAccessKey:  "secret",
		AWSEndpointOverride: "http://localhost:4566",
	}

	awsCfg, err := LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if awsCfg.Region != "ap-northeast-2" {
		t.Errorf("expected region ap-northeast-2, got %q", awsCfg.Region)
	}
	if got := aws.ToString(awsCfg.BaseEndpoint); got != "http://localhost:4566" {
		t.Errorf("expected endpoint override, got %q", got)
	}
	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("retrieve credentials: %v", err)
	}
	if creds.AccessKeyID != "test" {
		t.Errorf("expected static access key, got %q", creds.AccessKeyID)
	}
}

func TestLoadAWSConfigNoOverride(t *testing.T) {
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	awsCfg, err := LoadAWSConfig(context.Background(), &appconfig.Config{AWSRegion: "us-east-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if awsCfg.BaseEndpoint != nil {
		t.Errorf("expected no endpoint override, got %q", aws.ToString(awsCfg.BaseEndpoint))
	}
}
