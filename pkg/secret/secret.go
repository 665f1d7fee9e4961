package secret

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// ErrMissingSecretRef means no secret reference was configured for the
// resolver, typically because the required environment variable is unset.
var ErrMissingSecretRef = errors.New("no secret reference configured")

// ErrEmptySecret means the backend returned an empty value for the reference.
var ErrEmptySecret = errors.New("no value for secret")

// Source fetches secret material from an external backend by reference.
type Source interface {
	GetSecret(ctx context.Context, ref string) (string, error)
}

// Resolver resolves the upstream API credential from a configured backend.
// The credential is re-fetched on every call: it may rotate in the backend,
// and this layer deliberately does no caching.
type Resolver struct {
	source Source
	ref    string
}

// NewResolver creates a resolver fetching the secret at ref from source.
func NewResolver(source Source, ref string) *Resolver {
	return &Resolver{source: source, ref: ref}
}

// Resolve fetches the credential. It fails with [ErrMissingSecretRef] when
// no reference is configured and wraps backend failures without retrying.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if r.ref == "" {
		return "", ErrMissingSecretRef
	}
	value, err := r.source.GetSecret(ctx, r.ref)
	if err != nil {
		return "", fmt.Errorf("retrieving secret: %w", err)
	}
	if value == "" {
		return "", ErrEmptySecret
	}
	return value, nil
}

// FromConfig builds a resolver for ref backed by Secrets Manager when ref is
// a Secrets Manager ARN, and by SSM Parameter Store otherwise.
func FromConfig(cfg aws.Config, ref string) *Resolver {
	if strings.HasPrefix(ref, "arn:aws:secretsmanager:") {
		return NewResolver(NewSecretsManagerSource(cfg), ref)
	}
	return NewResolver(NewSSMSource(cfg), ref)
}

// StaticSource returns a fixed secret value for any reference. It is used
// for local development, where the credential is supplied directly.
type StaticSource string

// GetSecret implements [Source].
func (s StaticSource) GetSecret(ctx context.Context, ref string) (string, error) {
	return string(s), nil
}
