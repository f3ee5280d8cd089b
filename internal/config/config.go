// Package config holds the tunables for channel auto-opening and
// operations behavior.
package config

import (
	"time"

	"github.com/nodalync/node/internal/ndltypes"
)

// ChannelConfig governs when and how the operations facade auto-opens
// payment channels.
type ChannelConfig struct {
	// MinDeposit is the minimum deposit accepted when opening a channel.
	MinDeposit ndltypes.Tinybars
	// DefaultDeposit funds a channel the query pipeline auto-opens.
	DefaultDeposit ndltypes.Tinybars
}

// DefaultChannelConfig mirrors the protocol's defaults: 100 HBAR minimum,
// 1000 HBAR default deposit (in tinybars, 10^-8 HBAR each).
func DefaultChannelConfig() ChannelConfig {
	return ChannelConfig{
		MinDeposit:     100_0000_0000,
		DefaultDeposit: 1000_0000_0000,
	}
}

// NewChannelConfig builds an explicit channel configuration.
func NewChannelConfig(minDeposit, defaultDeposit ndltypes.Tinybars) ChannelConfig {
	return ChannelConfig{MinDeposit: minDeposit, DefaultDeposit: defaultDeposit}
}

// OpsConfig governs node-operation-wide behavior: channel defaults,
// preview size, and the settlement batcher's triggers.
type OpsConfig struct {
	Channel             ChannelConfig
	MaxPreviewMentions  int
	SettlementThreshold ndltypes.Tinybars
	SettlementInterval  time.Duration
}

// DefaultOpsConfig returns the protocol's defaults.
func DefaultOpsConfig() OpsConfig {
	return OpsConfig{
		Channel:             DefaultChannelConfig(),
		MaxPreviewMentions:  5,
		SettlementThreshold: ndltypes.SettlementBatchThreshold,
		SettlementInterval:  ndltypes.SettlementBatchInterval,
	}
}

// WithChannel returns a copy of c with its channel configuration
// replaced.
func (c OpsConfig) WithChannel(ch ChannelConfig) OpsConfig {
	c.Channel = ch
	return c
}

// WithSettlementThreshold returns a copy of c with a different
// settlement-amount trigger.
func (c OpsConfig) WithSettlementThreshold(threshold ndltypes.Tinybars) OpsConfig {
	c.SettlementThreshold = threshold
	return c
}

// WithSettlementInterval returns a copy of c with a different
// settlement-interval trigger.
func (c OpsConfig) WithSettlementInterval(interval time.Duration) OpsConfig {
	c.SettlementInterval = interval
	return c
}
