package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vitalvas/pqsig/envelope"
	"github.com/vitalvas/pqsig/internal/config"
	"github.com/vitalvas/pqsig/internal/server"
	"github.com/vitalvas/pqsig/keystore"
	"github.com/vitalvas/pqsig/scheme"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		listen     string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo signing server",
		Long: `Run the demo server. It signs transfer requests with its own key on
POST /generate-signature, validates them on POST /validate-signature and
checks signed requests on POST /verify.

Without a signing key in the configuration an ephemeral key is generated
at startup. SIGHUP reloads the keystore file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
			}

			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}

			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
				Level(cfg.Level()).
				With().Timestamp().Logger()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file")
	cmd.Flags().StringVar(&listen, "listen", "", "Listen address")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level")

	return cmd
}

func serve(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	key, err := loadSigningKey(cfg)
	if err != nil {
		return err
	}

	opts := []keystore.Option{
		keystore.WithLogger(logger),
		keystore.WithPinned(cfg.Source, key.Public()),
	}

	keys := keystore.New(nil, opts...)
	if cfg.Keystore != "" {
		if keys, err = keystore.Load(cfg.Keystore, opts...); err != nil {
			return err
		}
	}

	signer, err := envelope.NewSigner(envelope.SignerConfig{SigningKey: key, Logger: &logger})
	if err != nil {
		return err
	}

	srv, err := server.New(server.Options{
		Signer:   signer,
		Keystore: keys,
		Source:   cfg.Source,
		Logger:   &logger,
	})
	if err != nil {
		return err
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				if err := keys.Reload(); err != nil {
					logger.Error().Err(err).Msg("keystore reload failed")
				}
			}
		}
	}()

	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: srv,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info().
			Str("listen", cfg.Listen).
			Str("source", cfg.Source).
			Stringer("alg", key.Algorithm()).
			Msg("server started")

		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logger.Info().Msg("server stopped")

	return nil
}

func loadSigningKey(cfg config.Config) (scheme.PrivateKey, error) {
	if cfg.SigningKey == "" {
		kp, err := scheme.GenerateKey(cfg.Algorithm, nil)
		if err != nil {
			return nil, err
		}

		return kp.Private, nil
	}

	data, err := os.ReadFile(cfg.SigningKey)
	if err != nil {
		return nil, err
	}

	return scheme.ParsePrivateKeyPEM(data)
}
