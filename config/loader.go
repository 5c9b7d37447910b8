package config

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// ParameterSource returns secrets stored under a hierarchical path, keyed by
// the last path segment (e.g. /portfolio/prod/GEMINI_API_KEY -> GEMINI_API_KEY).
type ParameterSource interface {
	Parameters(ctx context.Context, path string) (map[string]string, error)
}

// Load reads .env (if any) and the process environment, then fills in any key
// still missing from the parameter store when SSM_PARAMETER_PATH is set.
// Variables already present in the environment take precedence.
func Load(ctx context.Context) (map[string]string, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded, using process environment")
	}

	cfg := New()
	parameterPath := GetString(cfg, "SSM_PARAMETER_PATH", "")
	if parameterPath == "" {
		return cfg, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(GetString(cfg, "AWS_REGION", "us-east-1")))
	if err != nil {
		return nil, fmt.Errorf("load aws config for parameter store: %w", err)
	}
	source := NewSSMSource(ssm.NewFromConfig(awsCfg))
	if err := Overlay(ctx, cfg, source, parameterPath); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overlay copies parameters from source into cfg for keys cfg does not define.
func Overlay(ctx context.Context, cfg map[string]string, source ParameterSource, parameterPath string) error {
	params, err := source.Parameters(ctx, parameterPath)
	if err != nil {
		return fmt.Errorf("read parameters under %s: %w", parameterPath, err)
	}

	applied := 0
	for key, value := range params {
		if existing, ok := cfg[key]; ok && existing != "" {
			continue
		}
		cfg[key] = value
		applied++
	}
	log.Info().Str("path", parameterPath).Int("applied", applied).Msg("loaded parameters from SSM")
	return nil
}

type ssmAPI interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// SSMSource reads SecureString/String parameters from AWS Systems Manager.
type SSMSource struct {
	client ssmAPI
}

func NewSSMSource(client ssmAPI) *SSMSource {
	return &SSMSource{client: client}
}

func (s *SSMSource) Parameters(ctx context.Context, parameterPath string) (map[string]string, error) {
	out := make(map[string]string)
	paginator := ssm.NewGetParametersByPathPaginator(s.client, &ssm.GetParametersByPathInput{
		Path:           aws.String(parameterPath),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range page.Parameters {
			if p.Name == nil || p.Value == nil {
				continue
			}
			out[path.Base(*p.Name)] = *p.Value
		}
	}
	return out, nil
}
