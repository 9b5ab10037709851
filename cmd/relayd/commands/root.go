// Package commands implements the relayd command line interface.
package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opd-ai/relaycore"
	"github.com/opd-ai/relaycore/config"
	"github.com/opd-ai/relaycore/storage"
	"github.com/opd-ai/relaycore/transport"
)

var (
	cfgPath string
	listen  string
)

// Execute runs the relayd root command.
func Execute() error {
	root := &cobra.Command{
		Use:   "relayd",
		Short: "Relay broker for end-to-end encrypted peer messaging",
		Long: "relayd forwards opaque ciphertext between connected peers, " +
			"coordinates identity discovery and contact handshakes, and keeps " +
			"a durable message history for offline recovery. It never sees " +
			"plaintext and never touches key material beyond relaying it.",
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.Flags().StringVarP(&cfgPath, "config", "c", "", "path to relayd.toml")
	root.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config)")

	return root.Execute()
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", cfg.Logging.Level, err)
	}
	logrus.SetLevel(level)

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	broker, err := relaycore.New(&relaycore.Options{Store: store})
	if err != nil {
		return fmt.Errorf("start broker: %w", err)
	}

	t, err := transport.NewTCPTransport(cfg.Listen)
	if err != nil {
		return fmt.Errorf("start transport: %w", err)
	}
	broker.Attach(t)

	logrus.WithFields(logrus.Fields{
		"listen":  cfg.Listen,
		"backend": cfg.Storage.Backend,
	}).Info("relayd started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logrus.Info("shutting down")
	return t.Close()
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
		cfg.ApplyEnvOverrides()
	}

	if listen != "" {
		cfg.Listen = listen
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (storage.BlobStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return storage.NewMemoryStore(), nil
	case config.BackendFile:
		return storage.NewFileStore(cfg.Storage.Path)
	case config.BackendSQLite:
		return storage.OpenSQLite(cfg.Storage.Path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
