package packdrop

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"

	"github.com/arthur-debert/packdrop/pkg/conditions"
	"github.com/arthur-debert/packdrop/pkg/config"
	"github.com/arthur-debert/packdrop/pkg/descriptor"
	"github.com/arthur-debert/packdrop/pkg/errors"
	"github.com/arthur-debert/packdrop/pkg/executables"
	"github.com/arthur-debert/packdrop/pkg/filequeue"
	"github.com/arthur-debert/packdrop/pkg/filesystem"
	"github.com/arthur-debert/packdrop/pkg/interrupt"
	"github.com/arthur-debert/packdrop/pkg/listeners"
	"github.com/arthur-debert/packdrop/pkg/logging"
	"github.com/arthur-debert/packdrop/pkg/metrics"
	"github.com/arthur-debert/packdrop/pkg/payload"
	"github.com/arthur-debert/packdrop/pkg/record"
	"github.com/arthur-debert/packdrop/pkg/types"
	"github.com/arthur-debert/packdrop/pkg/ui"
	"github.com/arthur-debert/packdrop/pkg/unpacker"
	"github.com/spf13/cobra"
)

type installOptions struct {
	payload    string
	target     string
	platform   string
	conditions []string
}

func newInstallCmd(root *rootOptions) *cobra.Command {
	opts := &installOptions{}

	cmd := &cobra.Command{
		Use:     "install <descriptor> [packs...]",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, root, opts, args[0], args[1:])
		},
	}

	cmd.Flags().StringVar(&opts.payload, "payload", "", MsgFlagPayload)
	cmd.Flags().StringVarP(&opts.target, "target", "t", "", MsgFlagTarget)
	cmd.Flags().StringVar(&opts.platform, "platform", "", MsgFlagPlatform)
	cmd.Flags().StringSliceVar(&opts.conditions, "condition", nil, MsgFlagCondition)

	return cmd
}

func runInstall(cmd *cobra.Command, root *rootOptions, opts *installOptions, descPath string, packs []string) error {
	logger := logging.GetLogger("cmd.install")
	cfg := root.cfg
	fsys := filesystem.NewOS()

	format, err := root.outputFormat(cmd)
	if err != nil {
		return err
	}

	desc, err := descriptor.Load(fsys, descPath)
	if err != nil {
		return err
	}
	if len(packs) > 0 {
		if err := desc.Select(packs...); err != nil {
			return err
		}
	}

	payloadRoot := opts.payload
	if payloadRoot == "" {
		payloadRoot = filepath.Dir(descPath)
	}
	if err := desc.Resolve(payload.NewDir(fsys, payloadRoot)); err != nil {
		return err
	}

	target := opts.target
	if target == "" {
		target = cfg.Install.Path
	}
	installation := desc.Installation(target)
	if installation.InstallPath == "" {
		return errors.New(errors.ErrInvalidInput, MsgErrNoInstallPath)
	}
	if abs, err := filepath.Abs(installation.InstallPath); err == nil {
		installation.InstallPath = abs
		installation.Variables["INSTALL_PATH"] = abs
	}

	platform := opts.platform
	if platform == "" {
		platform = cfg.Install.Platform
	}
	if platform == "" {
		platform = runtime.GOOS
	}

	out := cmd.OutOrStdout()
	var handler types.UIHandler = ui.NewConsole(cmd.InOrStdin(), out, format)
	if root.yes || cfg.UI.AssumeYes || format == ui.FormatJSON {
		handler = &ui.Unattended{Force: root.yes || cfg.UI.AssumeYes, Answer: types.AnswerYes}
	}

	coord := interrupt.NewCoordinator(interrupt.WithPollInterval(cfg.Interrupt.PollInterval))
	m := metrics.New()

	var progress []listeners.Listener
	if format != ui.FormatJSON {
		progress = append(progress, progressListener(out))
	}

	ctx, stop := watchSignals(cmd.Context(), coord, cfg.Interrupt.Timeout, cmd.ErrOrStderr())
	defer stop()

	logger.Info().
		Str("descriptor", descPath).
		Str("target", installation.InstallPath).
		Str("platform", platform).
		Strs("packs", types.PackNames(types.SelectedPacks(installation.Packs))).
		Msg("Starting install")

	u := unpacker.New(installation, unpacker.Options{
		FS:          fsys,
		Payload:     payload.NewDir(fsys, payloadRoot),
		UI:          handler,
		Coordinator: coord,
		Listeners:   progress,
		Conditions:  conditions.Platform(platform).With(opts.conditions...),
		Committer:   newCommitter(cfg, platform),
		Records: &record.Writer{
			FS:       fsys,
			Enabled:  cfg.Install.WriteInstallationInformation,
			FileName: cfg.Install.RecordFile,
		},
		Runner: &executables.Runner{
			Interrupt:    coord,
			PollInterval: cfg.Interrupt.PollInterval,
			Stdout:       out,
			Stderr:       cmd.ErrOrStderr(),
		},
		Metrics:    m,
		BufferSize: cfg.Install.BufferSize,
		Platform:   platform,
	})
	res, runErr := u.Run(ctx)

	if cfg.Metrics.Textfile != "" {
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn().Err(err).Str("path", cfg.Metrics.Textfile).Msg("Failed to write metrics")
		}
	}
	if runErr != nil {
		return runErr
	}
	return printSummary(out, format, installation, res)
}

// newCommitter picks the deferred-move mechanism: the OS on Windows, a
// manifest for an external helper elsewhere
func newCommitter(cfg *config.Config, platform string) filequeue.Committer {
	if platform == runtime.GOOS && filequeue.Supported() {
		return filequeue.DelayedMoveCommitter{}
	}
	return &filequeue.ManifestCommitter{FS: filesystem.NewOS(), Dir: cfg.Queue.ManifestDir}
}

func progressListener(out io.Writer) listeners.Listener {
	return listeners.Funcs{
		AfterFile: func(path string, _ *types.PackFile) error {
			_, err := fmt.Fprintf(out, MsgFileInstalled, path)
			return err
		},
	}
}
