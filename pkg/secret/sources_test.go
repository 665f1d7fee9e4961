package secret

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/require"
)

type mockSecretsManager struct {
	output *secretsmanager.GetSecretValueOutput
	err    error
	lastID string
}

func (m *mockSecretsManager) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	m.lastID = aws.ToString(params.SecretId)
	return m.output, m.err
}

type mockSSM struct {
	output *ssm.GetParameterOutput
	err    error
}

func (m *mockSSM) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	if !aws.ToBool(params.WithDecryption) {
		return nil, errors.New("expected decryption to be requested")
	}
	return m.output, m.err
}

func TestSecretsManagerSource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the secret string", func(t *testing.T) {
		mock := &mockSecretsManager{output: &secretsmanager.GetSecretValueOutput{SecretString: aws.String("secret_token_123")}}
		source := NewSecretsManagerSourceFromClient(mock)

		value, err := source.GetSecret(ctx, "arn:aws:secretsmanager:us-east-1:123456789012:secret:notion")
		require.NoError(t, err)
		require.Equal(t, "secret_token_123", value)
		require.Equal(t, "arn:aws:secretsmanager:us-east-1:123456789012:secret:notion", mock.lastID)
	})

	t.Run("propagates backend errors", func(t *testing.T) {
		mock := &mockSecretsManager{err: errors.New("access denied")}
		source := NewSecretsManagerSourceFromClient(mock)

		_, err := source.GetSecret(ctx, "arn:aws:secretsmanager:us-east-1:123456789012:secret:notion")
		require.EqualError(t, err, "access denied")
	})

	t.Run("empty on missing secret string", func(t *testing.T) {
		mock := &mockSecretsManager{output: &secretsmanager.GetSecretValueOutput{}}
		source := NewSecretsManagerSourceFromClient(mock)

		value, err := source.GetSecret(ctx, "arn:aws:secretsmanager:us-east-1:123456789012:secret:notion")
		require.NoError(t, err)
		require.Empty(t, value)
	})
}

func TestSSMSource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the decrypted parameter", func(t *testing.T) {
		mock := &mockSSM{output: &ssm.GetParameterOutput{Parameter: &ssmtypes.Parameter{Value: aws.String("secret_token_123")}}}
		source := NewSSMSourceFromClient(mock)

		value, err := source.GetSecret(ctx, "/notion/api-token")
		require.NoError(t, err)
		require.Equal(t, "secret_token_123", value)
	})

	t.Run("empty on missing parameter", func(t *testing.T) {
		mock := &mockSSM{output: &ssm.GetParameterOutput{}}
		source := NewSSMSourceFromClient(mock)

		value, err := source.GetSecret(ctx, "/notion/api-token")
		require.NoError(t, err)
		require.Empty(t, value)
	})
}

func TestFromConfig(t *testing.T) {
	t.Run("secrets manager for ARNs", func(t *testing.T) {
		resolver := FromConfig(aws.Config{}, "arn:aws:secretsmanager:us-east-1:123456789012:secret:notion")
		require.IsType(t, (*SecretsManagerSource)(nil), resolver.source)
	})

	t.Run("parameter store otherwise", func(t *testing.T) {
		resolver := FromConfig(aws.Config{}, "/notion/api-token")
		require.IsType(t, (*SSMSource)(nil), resolver.source)
	})
}
