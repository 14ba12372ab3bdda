// Package runtimegate validates the Go runtime the binary was built with
// before any other subsystem runs.
package runtimegate

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

const (
	// SupportedMajor is the only Go release line sstimap runs on.
	SupportedMajor = 1

	// ValidatedMinor is the newest minor release sstimap has been tested
	// against. Newer minors proceed with a caution.
	ValidatedMinor = 24

	// ExitUnsupportedRuntime is the distinguished status for a fatal gate failure.
	ExitUnsupportedRuntime = 2
)

type Verdict int

const (
	VerdictOK Verdict = iota
	VerdictCaution
	VerdictFatal
)

// Report is the outcome of inspecting one runtime version string.
type Report struct {
	Verdict Verdict
	Version string
	Message string
}

// Inspect parses a runtime version string of the form "go<major>.<minor>[.<patch>]"
// and decides whether the process may continue. Unparseable versions (development
// toolchains report "devel ...") are treated as a caution, not a failure.
func Inspect(version string) Report {
	major, minor, ok := parse(version)
	if !ok {
		return Report{
			Verdict: VerdictCaution,
			Version: version,
			Message: fmt.Sprintf("unrecognized Go runtime %q, proceeding with caution", version),
		}
	}

	if major != SupportedMajor {
		return Report{
			Verdict: VerdictFatal,
			Version: version,
			Message: fmt.Sprintf("sstimap requires a go%d runtime, detected %s", SupportedMajor, version),
		}
	}

	if minor > ValidatedMinor {
		return Report{
			Verdict: VerdictCaution,
			Version: version,
			Message: fmt.Sprintf("sstimap was not tested with %s, proceeding with caution", version),
		}
	}

	return Report{Verdict: VerdictOK, Version: version}
}

// Enforce runs the gate against the live runtime. A fatal verdict terminates
// the process immediately with ExitUnsupportedRuntime; a caution prints a
// warning and continues.
func Enforce() {
	report := Inspect(runtime.Version())
	switch report.Verdict {
	case VerdictFatal:
		fmt.Fprintf(os.Stderr, "[!] %s\n", report.Message)
		os.Exit(ExitUnsupportedRuntime)
	case VerdictCaution:
		fmt.Fprintf(os.Stderr, "[!] %s\n", report.Message)
	}
}

func parse(version string) (major, minor int, ok bool) {
	if !strings.HasPrefix(version, "go") {
		return 0, 0, false
	}
	parts := strings.Split(strings.TrimPrefix(version, "go"), ".")
	if len(parts) < 2 {
		return 0, 0, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return major, minor, true
}
