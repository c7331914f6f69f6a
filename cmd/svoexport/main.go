package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/svoexport"
	"github.com/xaionaro-go/svoexport/internal/cli"
	"github.com/xaionaro-go/svoexport/libav"
	"github.com/xaionaro-go/svoexport/zed"
)

type flags struct {
	Set *pflag.FlagSet

	Config         string
	Export         svoexport.ExportConfig
	LogLevel       logger.Level
	ProgressStyle  string
	Probe          bool
	EncoderOptions []string
}

func newFlags(envCfg svoexport.EnvConfig) (*flags, error) {
	f := &flags{
		Set:           pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError),
		Export:        svoexport.DefaultExportConfig(),
		LogLevel:      logger.LevelWarning,
		ProgressStyle: string(envCfg.ProgressStyle),
	}
	if err := f.LogLevel.Set(envCfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid SVOEXPORT_LOG_LEVEL '%s': %w", envCfg.LogLevel, err)
	}

	s := f.Set
	s.Var(&f.Export.Mode, "mode", modeUsage())
	s.StringVar(&f.Export.InputPath, "input_svo_file", "", "Path to an .svo or .svo2 file")
	s.StringVar(&f.Export.OutputVideoPath, "output_avi_file", "", "Path to the output .avi file, if mode includes a .avi export")
	s.StringVar(&f.Export.OutputDirPath, "output_path_dir", "", "Path to an existing folder where the image sequence is stored, if mode includes an image sequence export")
	s.IntVar(&f.Export.StartFrame, "start_frame", 0, "The frame number to start exporting from")
	s.IntVar(&f.Export.EndFrame, "end_frame", svoexport.EndOfRecording, "The frame number to stop exporting at (exclusive); -1 means the end of the recording")
	s.StringVar(&f.Config, "config", "", "Path to a YAML export job; the flags given explicitly override it")
	s.Var(&f.LogLevel, "log-level", "Log level")
	s.StringVar(&f.ProgressStyle, "progress-style", f.ProgressStyle, "How to display the progress: 'line' or 'bar'")
	s.BoolVar(&f.Probe, "probe", false, "Print the information about the recording and exit")
	s.StringArrayVar(&f.EncoderOptions, "encoder-option", nil, "An option passed to the video encoder, as key=value; may be repeated")
	return f, nil
}

func modeUsage() string {
	var b strings.Builder
	for m := svoexport.Mode(0); m < svoexport.EndOfMode; m++ {
		fmt.Fprintf(&b, "Mode %d (%s) is to export %s.\n", uint(m), m, m.Description())
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// exportConfig merges the config file, if any, with the flags that were
// given explicitly.
func (f *flags) exportConfig() (svoexport.ExportConfig, error) {
	if f.Config == "" {
		return f.Export, nil
	}
	cfg, err := svoexport.LoadExportConfig(f.Config)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", svoexport.ErrInvalidArgument, err)
	}
	f.Set.Visit(func(flag *pflag.Flag) {
		switch flag.Name {
		case "mode":
			cfg.Mode = f.Export.Mode
		case "input_svo_file":
			cfg.InputPath = f.Export.InputPath
		case "output_avi_file":
			cfg.OutputVideoPath = f.Export.OutputVideoPath
		case "output_path_dir":
			cfg.OutputDirPath = f.Export.OutputDirPath
		case "start_frame":
			cfg.StartFrame = f.Export.StartFrame
		case "end_frame":
			cfg.EndFrame = f.Export.EndFrame
		}
	})
	return cfg, nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	envCfg, err := svoexport.LoadEnvConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return svoexport.ExitCodeInvalidArgument
	}
	f, err := newFlags(envCfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return svoexport.ExitCodeInvalidArgument
	}
	if err := f.Set.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return svoexport.ExitCodeOK
		}
		return svoexport.ExitCodeInvalidArgument
	}

	ctx := cli.InitLogger(context.Background(), f.LogLevel)
	defer belt.Flush(ctx)
	ctx, cancelFn := cli.CancelOnSignal(ctx)
	defer cancelFn()

	cfg, err := f.exportConfig()
	if err != nil {
		logger.Error(ctx, err)
		return svoexport.ExitCode(err)
	}

	if f.Probe {
		return probe(ctx, cfg.InputPath)
	}

	encoderOptions, err := libav.ParseDictionaryItems(f.EncoderOptions)
	if err != nil {
		logger.Errorf(ctx, "invalid --encoder-option: %v", err)
		return svoexport.ExitCodeInvalidArgument
	}
	progress, err := cli.NewProgressReporter(svoexport.ProgressStyle(f.ProgressStyle), os.Stdout)
	if err != nil {
		logger.Error(ctx, err)
		return svoexport.ExitCode(err)
	}

	exporter := svoexport.NewExporter(zed.Opener{}, libav.NewFactory(encoderOptions), progress)
	res, err := exporter.Export(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return svoexport.ExitCode(err)
	}
	logger.Debugf(ctx, "result: %#+v", res)
	return svoexport.ExitCodeOK
}

func probe(ctx context.Context, path string) int {
	if !svoexport.IsRecordingPath(path) {
		fmt.Fprintf(os.Stderr, "the input should be a .svo or .svo2 file, but is '%s'\n", path)
		return svoexport.ExitCodeInvalidArgument
	}
	src, err := zed.Opener{}.Open(ctx, path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return svoexport.ExitCode(err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Errorf(ctx, "unable to close '%s': %v", path, err)
		}
	}()

	info := src.Info()
	fmt.Printf("Frames: %d\n", info.FrameCount)
	fmt.Printf("Resolution: %dx%d\n", info.Width, info.Height)
	fmt.Printf("FPS: %.2f\n", info.FrameRate)
	fmt.Printf("Duration: %s\n", svoexport.FormatTimecode(svoexport.FrameTime(info.FrameCount, info.FrameRate)))
	return svoexport.ExitCodeOK
}
