package config

import "sync"

// RefundHandling selects how unspent gas is returned to the caller after
// execution (spec §5.3).
type RefundHandling byte

const (
	// RefundNone burns unspent gas; nothing is returned.
	RefundNone RefundHandling = iota
	// RefundFull returns the full unspent amount to the initiator's purse.
	RefundFull
	// RefundPartial returns a fixed basis-point share of the unspent amount.
	RefundPartial
)

// FeeHandling selects where the gas fee paid for a transaction ends up
// (spec §5.3).
type FeeHandling byte

const (
	// FeePayToProposer credits the fee to the block proposer.
	FeePayToProposer FeeHandling = iota
	// FeeAccumulate credits the fee to a protocol-owned accumulation purse.
	FeeAccumulate
	// FeeNoFee charges no fee at all (useful for private chains).
	FeeNoFee
)

// EngineConfig is the immutable set of tunables governing one execution
// engine instance: enabling/disabling features, bounding Wasm modules, and
// selecting refund/fee policy. Mirrors the teacher's vmHost holding a
// mutex-guarded, hot-swappable GasScheduleMap (see GasScheduleChange on
// arwen/host/arwen.go) generalized to cover the engine's full tunable set,
// not gas alone.
type EngineConfig struct {
	mutConfig sync.RWMutex

	gasSchedule GasScheduleMap
	gasCost     GasCost

	EnableEntity          bool
	RefundHandling        RefundHandling
	FeeHandling           FeeHandling
	MaxCallStackDepth     uint32
	ChainName             string
	AdministrativeAccounts map[[20]byte]struct{}
}

// New builds an EngineConfig from a gas schedule plus the remaining static
// tunables. Returns an error if the schedule fails to decode.
func New(schedule GasScheduleMap, enableEntity bool, refund RefundHandling, fee FeeHandling, maxCallStackDepth uint32, chainName string) (*EngineConfig, error) {
	cost, err := CreateGasConfig(schedule)
	if err != nil {
		return nil, err
	}
	return &EngineConfig{
		gasSchedule:            schedule,
		gasCost:                cost,
		EnableEntity:           enableEntity,
		RefundHandling:         refund,
		FeeHandling:            fee,
		MaxCallStackDepth:      maxCallStackDepth,
		ChainName:              chainName,
		AdministrativeAccounts: map[[20]byte]struct{}{},
	}, nil
}

// WithAdministrativeAccounts returns c with its administrative account set
// replaced; accounts in this set bypass the deployment-weight
// authorization check (spec.md §4.3 "initiator account resolution").
func (c *EngineConfig) WithAdministrativeAccounts(accounts map[[20]byte]struct{}) *EngineConfig {
	c.AdministrativeAccounts = accounts
	return c
}

// GasScheduleChange atomically replaces the gas schedule, analogous to the
// teacher's vmHost.GasScheduleChange; in-flight executions that already
// captured a GasCost snapshot via GasCost() are unaffected, matching the
// teacher's semantics of applying new schedules only to subsequent runs.
func (c *EngineConfig) GasScheduleChange(newSchedule GasScheduleMap) error {
	cost, err := CreateGasConfig(newSchedule)
	if err != nil {
		return err
	}
	c.mutConfig.Lock()
	defer c.mutConfig.Unlock()
	c.gasSchedule = newSchedule
	c.gasCost = cost
	return nil
}

// GasScheduleMapSnapshot returns the currently active raw gas schedule.
func (c *EngineConfig) GasScheduleMapSnapshot() GasScheduleMap {
	c.mutConfig.RLock()
	defer c.mutConfig.RUnlock()
	return c.gasSchedule
}

// GasCost returns a snapshot of the currently active decoded cost table.
// An executor captures this once at the start of a run so gas accounting
// stays consistent even if another goroutine calls GasScheduleChange mid
// flight.
func (c *EngineConfig) GasCost() GasCost {
	c.mutConfig.RLock()
	defer c.mutConfig.RUnlock()
	return c.gasCost
}
