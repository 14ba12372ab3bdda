package runner

import (
	"github.com/sstimap/sstimap/pkg/config"
)

// ExecutionMode is the resolved top level action for one invocation.
type ExecutionMode int

const (
	// ModeUsageHint is the fallback when no actionable flag was given.
	ModeUsageHint ExecutionMode = iota
	// ModeModuleInfo prints plugin information and exits.
	ModeModuleInfo
	// ModeInteractive enters the interactive session.
	ModeInteractive
	// ModeScan runs a batch scan over the configured targets.
	ModeScan
)

func (m ExecutionMode) String() string {
	switch m {
	case ModeModuleInfo:
		return "module-info"
	case ModeInteractive:
		return "interactive"
	case ModeScan:
		return "scan"
	default:
		return "usage-hint"
	}
}

// ChooseMode resolves the execution mode from the parsed options. Module
// information wins over the interactive flag, which wins over target input.
// The decision reads only the options bundle, never ambient state.
func ChooseMode(options *config.Options) ExecutionMode {
	switch {
	case len(options.Module) > 0:
		return ModeModuleInfo
	case options.Interactive:
		return ModeInteractive
	case options.HasTargetInput():
		return ModeScan
	default:
		return ModeUsageHint
	}
}
