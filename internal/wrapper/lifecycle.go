package wrapper

import (
	"fmt"
	"syscall"
)

// State is the wrapper's view of one invocation.
// Transitions: pending -> running -> (success | failed). No retries.
type State string

const (
	StatePending State = "pending"
	StateRunning State = "running"
	StateSuccess State = "success"
	StateFailed  State = "failed"
)

// ExitReason describes why the wrapped process terminated
type ExitReason string

const (
	ExitReasonSuccess ExitReason = "success" // Exit code 0
	ExitReasonError   ExitReason = "error"   // Exit code != 0
	ExitReasonSignal  ExitReason = "signal"  // Killed by signal
	ExitReasonTimeout ExitReason = "timeout" // Wrapper timeout fired
	ExitReasonUnknown ExitReason = "unknown"
)

// determineExitReason analyzes process exit to determine the reason.
// A timeout takes precedence: the signal that killed the process was ours.
func determineExitReason(exitCode int, status syscall.WaitStatus, timedOut bool) ExitReason {
	if timedOut {
		return ExitReasonTimeout
	}

	if status.Signaled() {
		return ExitReasonSignal
	}

	if exitCode == 0 {
		return ExitReasonSuccess
	}
	if exitCode > 0 {
		return ExitReasonError
	}

	return ExitReasonUnknown
}

// SignalName returns the signal name for a signal number
func SignalName(sig syscall.Signal) string {
	switch sig {
	case syscall.SIGKILL:
		return "SIGKILL"
	case syscall.SIGTERM:
		return "SIGTERM"
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGHUP:
		return "SIGHUP"
	case syscall.SIGQUIT:
		return "SIGQUIT"
	case syscall.SIGABRT:
		return "SIGABRT"
	case syscall.SIGSEGV:
		return "SIGSEGV"
	case syscall.SIGPIPE:
		return "SIGPIPE"
	default:
		return fmt.Sprintf("SIG%d", sig)
	}
}
