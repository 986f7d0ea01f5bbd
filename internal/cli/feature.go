// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aristanetworks/py27dict/featuretoggle"
	"github.com/aristanetworks/py27dict/internal/config"
)

// FeatureResult is the json output of the feature command.
type FeatureResult struct {
	Feature   string `json:"feature"`
	Stage     string `json:"stage"`
	Region    string `json:"region,omitempty"`
	AccountID string `json:"accountId,omitempty"`
	Enabled   bool   `json:"enabled"`
}

type featureOptions struct {
	ConfigPath string
	Stage      string
	Region     string
	AccountID  string
}

// NewFeatureCommand creates the feature command.
func NewFeatureCommand(rootOpts *RootOptions) *cobra.Command {
	fOpts := &featureOptions{}
	cmd := &cobra.Command{
		Use:   "feature <name>",
		Short: "Evaluate a feature toggle",
		Long: `Report whether a feature is enabled for a stage and region, and for an
account when one is given.

The toggle configuration comes from --config-path, the featureToggle
section of the configuration file, or AWS AppConfig when an application
is configured. Without any source every feature is disabled.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeature(rootOpts, fOpts, cmd, args[0])
		},
	}
	cmd.Flags().StringVar(&fOpts.ConfigPath, "config-path", "", "local feature toggle config (json, yaml or toml)")
	cmd.Flags().StringVar(&fOpts.Stage, "stage", "", "deployment stage")
	cmd.Flags().StringVar(&fOpts.Region, "region", "", "region")
	cmd.Flags().StringVar(&fOpts.AccountID, "account-id", "", "account id")
	return cmd
}

func runFeature(opts *RootOptions, fOpts *featureOptions, cmd *cobra.Command, name string) error {
	ftc := opts.config().FeatureToggle
	for _, o := range []struct{ flag, dst *string }{
		{&fOpts.ConfigPath, &ftc.ConfigPath},
		{&fOpts.Stage, &ftc.Stage},
		{&fOpts.Region, &ftc.Region},
		{&fOpts.AccountID, &ftc.AccountID},
	} {
		if *o.flag != "" {
			*o.dst = *o.flag
		}
	}

	p, err := newProvider(ftc, opts.logger())
	if err != nil {
		return err
	}
	ft := featuretoggle.New(p, ftc.Stage, ftc.AccountID, ftc.Region, opts.logger())

	res := FeatureResult{Feature: name, Stage: ftc.Stage, Region: ftc.Region, AccountID: ftc.AccountID}
	if ftc.AccountID != "" {
		res.Enabled = ft.IsEnabled(name)
	} else {
		res.Enabled = ft.IsEnabledForStageInRegion(name, ftc.Stage, ftc.Region)
	}

	if opts.Format == "json" {
		return writeValue(cmd.OutOrStdout(), "json", res)
	}
	state := "disabled"
	if res.Enabled {
		state = "enabled"
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, state)
	return err
}

// newProvider picks the toggle configuration source: a local file, the
// AppConfig service, or an empty configuration.
func newProvider(ftc config.FeatureToggleConfig, logger *slog.Logger) (featuretoggle.Provider, error) {
	switch {
	case ftc.ConfigPath != "":
		return featuretoggle.NewLocalProvider(ftc.ConfigPath)
	case ftc.Application != "":
		p := featuretoggle.NewAppConfigProvider(ftc.Application, ftc.Environment, ftc.Profile, logger)
		p.Endpoint = ftc.Endpoint
		p.Region = ftc.Region
		return p, nil
	}
	logger.Debug("no feature toggle config source, all features disabled")
	return featuretoggle.DefaultProvider{}, nil
}
