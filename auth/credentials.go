// Package auth loads Google API credentials and builds the authorised HTTP client used by the
// Sheets and Drive services.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"

	"github.com/tutorqa/sheets-sync/log"
)

// SecretsManager is the prefix for credentials stored in AWS Secrets Manager, e.g.
// aws-secretsmanager://sheets-sync/service-account.
const SecretsManager = "aws-secretsmanager://"

// Environment variables checked, in order, for a credentials JSON blob.
var Environment = []string{"SHEETS_SYNC_CREDENTIALS", "GCP_SERVICE_ACCOUNT"}

var ErrNoCredentials = errors.New("no credentials")

// SecretsAPI is the subset of the AWS Secrets Manager client used to retrieve credentials.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Credentials locates the credentials JSON. The source is, in order of precedence:
//   - an aws-secretsmanager://<secret> reference
//   - a file path
//   - the SHEETS_SYNC_CREDENTIALS or GCP_SERVICE_ACCOUNT environment variables (if source is "")
type Credentials struct {
	Source  string
	Secrets SecretsAPI
}

func (c Credentials) Load(ctx context.Context) ([]byte, error) {
	source := strings.TrimSpace(c.Source)

	switch {
	case source == "":
		for _, v := range Environment {
			if blob := strings.TrimSpace(os.Getenv(v)); blob != "" {
				log.Debugf("using credentials from $%v", v)
				return []byte(blob), nil
			}
		}

		return nil, fmt.Errorf("%w: --credentials not set and none of $%v defined", ErrNoCredentials, strings.Join(Environment, ", $"))

	case strings.HasPrefix(source, SecretsManager):
		return c.secret(ctx, strings.TrimPrefix(source, SecretsManager))

	default:
		b, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("unable to read credentials file %v (%w)", source, err)
		}

		return b, nil
	}
}

func (c Credentials) secret(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: missing secret name in %v", ErrNoCredentials, c.Source)
	}

	api := c.Secrets
	if api == nil {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to load AWS configuration (%w)", err)
		}

		api = secretsmanager.NewFromConfig(cfg)
	}

	rq := secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	}

	response, err := api.GetSecretValue(ctx, &rq)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException" {
			return nil, fmt.Errorf("%w: secret %v not found", ErrNoCredentials, name)
		}

		return nil, fmt.Errorf("unable to retrieve secret %v (%w)", name, err)
	}

	log.Debugf("using credentials from AWS secret %v", name)

	switch {
	case response.SecretString != nil:
		return []byte(*response.SecretString), nil

	case len(response.SecretBinary) > 0:
		return response.SecretBinary, nil

	default:
		return nil, fmt.Errorf("%w: secret %v is empty", ErrNoCredentials, name)
	}
}
