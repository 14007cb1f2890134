package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/spf13/cobra"

	"github.com/wazuh/ossec-hids/internal/config"
	"github.com/wazuh/ossec-hids/internal/manager"
	"github.com/wazuh/ossec-hids/internal/watcher"
	"github.com/wazuh/ossec-hids/pkg/logging"
)

var watchOnce bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-normalize ossec.conf and group configurations when they change",
	Long: `Watch ossec.conf and every group's agent.conf. Each change is normalized,
overwrite warnings are logged and, when configured, metrics are written to the
node-exporter textfile and the normalized result is kept as a snapshot.

When started by systemd with Type=notify the unit becomes ready once the initial
pass is done.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "Normalize everything once and exit")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	recorder := newRecorder()
	var opts []manager.Option
	if recorder != nil {
		opts = append(opts, manager.WithRecorder(recorder))
	}

	var storage *config.Storage
	if cfg.Watch.Snapshots {
		storage = snapshotStorage()
	}

	w := watcher.New(newManager(opts...), watcher.Options{
		Debounce:        cfg.Watch.Debounce(),
		Storage:         storage,
		Recorder:        recorder,
		MetricsTextfile: cfg.Metrics.Textfile,
	})

	if watchOnce {
		w.Sync()
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Start(ctx); err != nil {
		return err
	}
	notify(daemon.SdNotifyReady)
	logging.Info("Watch", "Watching %s and %s", cfg.Paths.OssecConfPath(), cfg.Paths.SharedPath())

	err := w.Run(ctx)
	notify(daemon.SdNotifyStopping)
	if ctx.Err() == context.Canceled {
		logging.Info("Watch", "Shutting down")
	}
	return err
}

// notify reports state to systemd. Outside of a notify unit it does nothing.
func notify(state string) {
	if _, err := daemon.SdNotify(false, state); err != nil {
		logging.Debug("Watch", "sd_notify %q failed: %v", state, err)
	}
}
