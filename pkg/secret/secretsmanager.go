package secret

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// GetSecretValueAPI is the subset of the Secrets Manager client used by
// [SecretsManagerSource].
type GetSecretValueAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerSource fetches secrets from AWS Secrets Manager by ARN.
type SecretsManagerSource struct {
	client GetSecretValueAPI
}

var _ Source = (*SecretsManagerSource)(nil)

// NewSecretsManagerSource creates a source from an AWS configuration.
func NewSecretsManagerSource(cfg aws.Config) *SecretsManagerSource {
	return &SecretsManagerSource{client: secretsmanager.NewFromConfig(cfg)}
}

// NewSecretsManagerSourceFromClient creates a source from an existing client.
func NewSecretsManagerSourceFromClient(client GetSecretValueAPI) *SecretsManagerSource {
	return &SecretsManagerSource{client: client}
}

// GetSecret implements [Source].
func (s *SecretsManagerSource) GetSecret(ctx context.Context, ref string) (string, error) {
	response, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(ref),
	})
	if err != nil {
		return "", err
	}
	if response.SecretString == nil {
		return "", nil
	}
	return *response.SecretString, nil
}
