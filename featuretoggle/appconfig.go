// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package featuretoggle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/appconfigdata"
	"github.com/aws/smithy-go"
)

const (
	// DefaultAttempts is the number of requests made before giving up.
	DefaultAttempts = 2

	// DefaultConnectTimeout and DefaultReadTimeout bound each attempt.
	DefaultConnectTimeout = 5 * time.Second
	DefaultReadTimeout    = 25 * time.Second
)

// AppConfigProvider fetches the configuration from the AWS AppConfig
// Data service. Failures are logged and produce an empty configuration.
type AppConfigProvider struct {
	Application string
	Environment string
	Profile     string

	// Region selects the service region. Empty uses the SDK's default
	// resolution.
	Region string
	// Endpoint overrides the service endpoint.
	Endpoint string

	// Attempts is the number of requests made before giving up.
	Attempts int
	// RetryDelay is the pause before a retry.
	RetryDelay     time.Duration
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration

	loadOptions []func(*config.LoadOptions) error
	logger      *slog.Logger
}

// NewAppConfigProvider returns a provider for the given AppConfig
// application, environment and configuration profile. loadOptions are
// applied when the AWS configuration is loaded, after the provider's
// own. A nil logger discards log output.
func NewAppConfigProvider(application, environment, profile string, logger *slog.Logger,
	loadOptions ...func(*config.LoadOptions) error) *AppConfigProvider {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &AppConfigProvider{
		Application:    application,
		Environment:    environment,
		Profile:        profile,
		Attempts:       DefaultAttempts,
		RetryDelay:     100 * time.Millisecond,
		ConnectTimeout: DefaultConnectTimeout,
		ReadTimeout:    DefaultReadTimeout,
		loadOptions:    loadOptions,
		logger:         logger,
	}
}

// Config fetches the configuration, or returns an empty one if that
// fails.
func (p *AppConfigProvider) Config() map[string]any {
	p.logger.Info("loading feature toggle config from AppConfig",
		"application", p.Application, "environment", p.Environment, "profile", p.Profile)
	cfg, err := p.Fetch(context.Background())
	if err != nil {
		attrs := []any{
			"application", p.Application,
			"environment", p.Environment,
			"profile", p.Profile,
			"error", err,
		}
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			attrs = append(attrs, "code", apiErr.ErrorCode())
		}
		p.logger.Error("failed to fetch feature toggle config, using empty config", attrs...)
		return map[string]any{}
	}
	p.logger.Info("finished loading feature toggle config from AppConfig")
	return cfg
}

// Fetch starts a configuration session and reads the latest
// configuration. Throttling, network and server errors are retried.
func (p *AppConfigProvider) Fetch(ctx context.Context) (map[string]any, error) {
	client, err := p.client(ctx)
	if err != nil {
		return nil, err
	}
	session, err := client.StartConfigurationSession(ctx, &appconfigdata.StartConfigurationSessionInput{
		ApplicationIdentifier:          aws.String(p.Application),
		EnvironmentIdentifier:          aws.String(p.Environment),
		ConfigurationProfileIdentifier: aws.String(p.Profile),
	})
	if err != nil {
		return nil, fmt.Errorf("starting configuration session: %w", err)
	}
	latest, err := client.GetLatestConfiguration(ctx, &appconfigdata.GetLatestConfigurationInput{
		ConfigurationToken: session.InitialConfigurationToken,
	})
	if err != nil {
		return nil, fmt.Errorf("getting configuration: %w", err)
	}
	return ParseConfig(latest.Configuration, ".json")
}

func (p *AppConfigProvider) client(ctx context.Context) (*appconfigdata.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithHTTPClient(p.httpClient()),
		config.WithRetryer(p.retryer),
	}
	if p.Region != "" {
		opts = append(opts, config.WithRegion(p.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, append(opts, p.loadOptions...)...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return appconfigdata.NewFromConfig(cfg, func(o *appconfigdata.Options) {
		if p.Endpoint != "" {
			o.BaseEndpoint = aws.String(p.Endpoint)
		}
	}), nil
}

func (p *AppConfigProvider) httpClient() *awshttp.BuildableClient {
	return awshttp.NewBuildableClient().
		WithDialerOptions(func(d *net.Dialer) {
			d.Timeout = p.ConnectTimeout
		}).
		WithTransportOptions(func(tr *http.Transport) {
			tr.ResponseHeaderTimeout = p.ReadTimeout
		})
}

func (p *AppConfigProvider) retryer() aws.Retryer {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	std := retry.NewStandard(func(o *retry.StandardOptions) {
		o.Backoff = retry.BackoffDelayerFunc(func(attempt int, err error) (time.Duration, error) {
			p.logger.Debug("Retrying request", "attempt", attempt, "error", err)
			return p.RetryDelay, nil
		})
	})
	return retry.AddWithMaxAttempts(std, attempts)
}
