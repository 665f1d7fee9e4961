package secret

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// GetParameterAPI is the subset of the SSM client used by [SSMSource].
type GetParameterAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SSMSource fetches secrets from SSM Parameter Store by parameter name.
type SSMSource struct {
	client GetParameterAPI
}

var _ Source = (*SSMSource)(nil)

// NewSSMSource creates a source from an AWS configuration.
func NewSSMSource(cfg aws.Config) *SSMSource {
	return &SSMSource{client: ssm.NewFromConfig(cfg)}
}

// NewSSMSourceFromClient creates a source from an existing client.
func NewSSMSourceFromClient(client GetParameterAPI) *SSMSource {
	return &SSMSource{client: client}
}

// GetSecret implements [Source].
func (s *SSMSource) GetSecret(ctx context.Context, ref string) (string, error) {
	response, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(ref),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", err
	}
	if response.Parameter == nil || response.Parameter.Value == nil {
		return "", nil
	}
	return *response.Parameter.Value, nil
}
