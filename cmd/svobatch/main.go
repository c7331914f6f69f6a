package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/svoexport"
	"github.com/xaionaro-go/svoexport/internal/cli"
	"github.com/xaionaro-go/svoexport/libav"
	"github.com/xaionaro-go/svoexport/zed"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	envCfg, err := svoexport.LoadEnvConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return svoexport.ExitCodeInvalidArgument
	}

	flags := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	cfg := svoexport.BatchConfig{
		Mode: svoexport.ModeLeftRightVideo,
	}
	loggerLevel := logger.LevelWarning
	if err := loggerLevel.Set(envCfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SVOEXPORT_LOG_LEVEL '%s': %v\n", envCfg.LogLevel, err)
		return svoexport.ExitCodeInvalidArgument
	}
	flags.StringVar(&cfg.InputDir, "input-dir", "", "The directory with the .svo/.svo2 recordings to convert")
	flags.StringVar(&cfg.OutputDir, "output-dir", "", "An existing directory to write the results to")
	flags.Var(&cfg.Mode, "mode", "Export mode, see svoexport --help")
	flags.Var(&loggerLevel, "log-level", "Log level")
	progressStyle := flags.String("progress-style", string(envCfg.ProgressStyle), "How to display the progress: 'line' or 'bar'")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return svoexport.ExitCodeOK
		}
		return svoexport.ExitCodeInvalidArgument
	}
	if cfg.InputDir == "" || cfg.OutputDir == "" {
		fmt.Fprintln(os.Stderr, "both --input-dir and --output-dir are required")
		flags.Usage()
		return svoexport.ExitCodeInvalidArgument
	}

	ctx := cli.InitLogger(context.Background(), loggerLevel)
	defer belt.Flush(ctx)
	ctx, cancelFn := cli.CancelOnSignal(ctx)
	defer cancelFn()

	progress, err := cli.NewProgressReporter(svoexport.ProgressStyle(*progressStyle), os.Stdout)
	if err != nil {
		logger.Error(ctx, err)
		return svoexport.ExitCode(err)
	}

	exporter := svoexport.NewExporter(zed.Opener{}, libav.NewFactory(nil), progress)
	res, err := exporter.RunBatch(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if res == nil {
			return svoexport.ExitCode(err)
		}
		return svoexport.ExitCodeFailure
	}
	return svoexport.ExitCodeOK
}
