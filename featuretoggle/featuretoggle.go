// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package featuretoggle decides whether a feature is enabled for a
// deployment stage, region and account.
//
// The configuration is a nested mapping
//
//	feature -> stage -> (account id | region | "default") -> rule
//
// where an account id entry holds its own region -> rule mapping and a
// rule is either {"enabled": bool} or {"enabled-%": 0..100}. A
// percentage rule enables the feature for the accounts whose id modulo
// 100 is below the percentage.
package featuretoggle

import (
	"io"
	"log/slog"
	"strconv"
)

const (
	defaultKey = "default"
	enabledKey = "enabled"
	percentKey = "enabled-%"
)

// FeatureToggle evaluates features against the configuration of a
// Provider. Stage, AccountID and Region describe where the caller runs
// and are used by IsEnabled.
type FeatureToggle struct {
	Stage     string
	AccountID string
	Region    string

	config map[string]any
	logger *slog.Logger
}

// New returns a FeatureToggle over the configuration p supplies at the
// time of the call. A nil logger discards log output.
func New(p Provider, stage, accountID, region string, logger *slog.Logger) *FeatureToggle {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	config := p.Config()
	if config == nil {
		config = map[string]any{}
	}
	return &FeatureToggle{
		Stage:     stage,
		AccountID: accountID,
		Region:    region,
		config:    config,
		logger:    logger,
	}
}

// IsEnabled reports whether feature is enabled for the toggle's own
// stage, account and region. It is false when any of them is unset.
func (ft *FeatureToggle) IsEnabled(feature string) bool {
	if ft.Stage == "" || ft.Region == "" || ft.AccountID == "" {
		ft.logger.Warn("stage, region or account id not set, feature not enabled",
			"feature", feature)
		return false
	}
	return ft.IsEnabledForAccountInRegion(feature, ft.Stage, ft.AccountID, ft.Region)
}

// IsEnabledForStageInRegion reports whether feature is enabled in
// region of stage. Percentage rules are not considered and count as
// disabled. An empty region selects the stage default.
func (ft *FeatureToggle) IsEnabledForStageInRegion(feature, stage, region string) bool {
	stageConfig, ok := ft.stageConfig(feature, stage)
	if !ok {
		return false
	}
	enabled := enabledFlag(ruleFor(stageConfig, region))
	ft.logger.Info("feature toggle evaluated",
		"feature", feature, "stage", stage, "region", region, "enabled", enabled)
	return enabled
}

// IsEnabledForAccountInRegion reports whether feature is enabled for
// accountID in region of stage. Rules listed under the account take
// precedence over the stage's region rules.
func (ft *FeatureToggle) IsEnabledForAccountInRegion(feature, stage, accountID, region string) bool {
	stageConfig, ok := ft.stageConfig(feature, stage)
	if !ok {
		return false
	}
	rule := ruleFor(stageConfig, region)
	if accountConfig, ok := stageConfig[accountID].(map[string]any); ok {
		rule = ruleFor(accountConfig, region)
	}

	var enabled bool
	if raw, ok := rule[percentKey]; ok {
		percent, ok := number(raw)
		if !ok {
			ft.logger.Warn("invalid percentage rule", "feature", feature, "value", raw)
			return false
		}
		id, err := strconv.ParseUint(accountID, 10, 64)
		if err != nil {
			ft.logger.Warn("account id is not a number", "feature", feature,
				"accountId", accountID)
			return false
		}
		enabled = float64(id%100) < percent
	} else {
		enabled = enabledFlag(rule)
	}
	ft.logger.Info("feature toggle evaluated",
		"feature", feature, "stage", stage, "accountId", accountID,
		"region", region, "enabled", enabled)
	return enabled
}

func (ft *FeatureToggle) stageConfig(feature, stage string) (map[string]any, bool) {
	featureConfig, ok := ft.config[feature].(map[string]any)
	if !ok {
		ft.logger.Warn("feature not available in feature toggle config", "feature", feature)
		return nil, false
	}
	stageConfig, ok := featureConfig[stage].(map[string]any)
	if !ok || len(stageConfig) == 0 {
		ft.logger.Info("stage not enabled for feature", "feature", feature, "stage", stage)
		return nil, false
	}
	return stageConfig, true
}

// ruleFor returns the rule for region, falling back to the default
// rule.
func ruleFor(config map[string]any, region string) map[string]any {
	if rule, ok := config[region].(map[string]any); ok {
		return rule
	}
	rule, _ := config[defaultKey].(map[string]any)
	return rule
}

func enabledFlag(rule map[string]any) bool {
	enabled, _ := rule[enabledKey].(bool)
	return enabled
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
