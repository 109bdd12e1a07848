package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

// parseCLIFlags parses args (without the program name) into a FlagSource.
// The bool result reports whether help was requested.
func parseCLIFlags(args []string) (*FlagSource, bool, error) {
	flagSource := NewFlagSource()

	fs := flag.NewFlagSet(AppCommand, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	serverURL := fs.String(FlagServerURL, "", HelpServerURL)
	maxPoints := fs.Int(FlagMaxPoints, 0, HelpMaxPoints)
	retryDelayMS := fs.Int(FlagRetryDelayMS, 0, HelpRetryDelayMS)
	dialTimeoutSeconds := fs.Int(FlagDialTimeoutSeconds, 0, HelpDialTimeoutSeconds)
	uiMode := fs.String(FlagUIMode, "", HelpUIMode)
	logFile := fs.String(FlagLogFile, "", HelpLogFile)
	metricsAddr := fs.String(FlagMetricsAddr, "", HelpMetricsAddr)
	statusIntervalSeconds := fs.Int(FlagStatusIntervalSeconds, 0, HelpStatusIntervalSeconds)
	configFile := fs.String(FlagConfigFile, "", HelpConfigFile)
	help := fs.Bool(FlagHelp, false, HelpShowHelp)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return flagSource, true, nil
		}
		return nil, false, fmt.Errorf("parse flags: %w", err)
	}

	if *help {
		return flagSource, true, nil
	}

	// zero values mean "not given"
	if *serverURL != "" {
		flagSource.Set(KeyServerURL, *serverURL)
	}
	if *maxPoints != 0 {
		flagSource.Set(KeyMaxPoints, *maxPoints)
	}
	if *retryDelayMS != 0 {
		flagSource.Set(KeyRetryDelayMS, *retryDelayMS)
	}
	if *dialTimeoutSeconds != 0 {
		flagSource.Set(KeyDialTimeoutSeconds, *dialTimeoutSeconds)
	}
	if *uiMode != "" {
		flagSource.Set(KeyUIMode, *uiMode)
	}
	if *logFile != "" {
		flagSource.Set(KeyLogFile, *logFile)
	}
	if *metricsAddr != "" {
		flagSource.Set(KeyMetricsAddr, *metricsAddr)
	}
	if *statusIntervalSeconds != 0 {
		flagSource.Set(KeyStatusIntervalSeconds, *statusIntervalSeconds)
	}
	if *configFile != "" {
		flagSource.Set(KeyConfigFile, *configFile)
	}

	return flagSource, false, nil
}

// printUsage writes the help text to w
func printUsage(w io.Writer) {
	fmt.Fprintf(w, "%s - %s\n", AppName, AppDescription)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s\n", HelpUsage)
	fmt.Fprintf(w, "  %s\n", UsageFormat)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s\n", HelpOptions)
	fmt.Fprintf(w, "  --%-32s %s\n", FlagServerURL+" string", HelpServerURL)
	fmt.Fprintf(w, "  --%-32s %s (default: %d)\n", FlagMaxPoints+" int", HelpMaxPoints, DefaultMaxPoints)
	fmt.Fprintf(w, "  --%-32s %s (default: %d)\n", FlagRetryDelayMS+" int", HelpRetryDelayMS, DefaultRetryDelayMS)
	fmt.Fprintf(w, "  --%-32s %s (default: %d)\n", FlagDialTimeoutSeconds+" int", HelpDialTimeoutSeconds, DefaultDialTimeoutSeconds)
	fmt.Fprintf(w, "  --%-32s %s (default: %s)\n", FlagUIMode+" string", HelpUIMode, DefaultUIMode)
	fmt.Fprintf(w, "  --%-32s %s (default: %s)\n", FlagLogFile+" string", HelpLogFile, DefaultLogFile)
	fmt.Fprintf(w, "  --%-32s %s\n", FlagMetricsAddr+" string", HelpMetricsAddr)
	fmt.Fprintf(w, "  --%-32s %s (default: %d)\n", FlagStatusIntervalSeconds+" int", HelpStatusIntervalSeconds, DefaultStatusIntervalSeconds)
	fmt.Fprintf(w, "  --%-32s %s\n", FlagConfigFile+" string", HelpConfigFile)
	fmt.Fprintf(w, "  --%-32s %s\n", FlagHelp, HelpShowHelp)
	fmt.Fprintf(w, "  --%-32s %s\n", "version", "Print version information")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s\n", HelpEnvironmentVars)
	for _, key := range []string{
		KeyServerURL, KeyMaxPoints, KeyRetryDelayMS, KeyDialTimeoutSeconds, KeyUIMode,
		KeyLogFile, KeyMetricsAddr, KeyStatusIntervalSeconds, KeyConfigFile,
	} {
		fmt.Fprintf(w, "  %s\n", key)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s\n", HelpNote)
}
