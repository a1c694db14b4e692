package cli

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/studyhall/lesson-booking-service/config"
	"github.com/studyhall/lesson-booking-service/internal/pkg/logger"
	"github.com/studyhall/lesson-booking-service/internal/shop"
	"github.com/studyhall/lesson-booking-service/internal/shop/client"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	BackendURL string
	Timeout    time.Duration
	Verbose    bool
}

// NewRootCommand creates the root command for the lessonctl CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	cfg := config.LoadEnv()

	cmd := &cobra.Command{
		Use:   "lessonctl",
		Short: "Storefront client for the lesson booking service",
		Long: `lessonctl drives a shopping session against the lesson booking
service: browse and search the catalog, fill a cart, and check out.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.BackendURL, "backend", cfg.Backend.BaseURL, "base URL of the lesson service")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", cfg.Backend.Timeout, "timeout per backend call")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewLessonsCommand(opts, cfg))
	cmd.AddCommand(NewOrderCommand(opts, cfg))

	return cmd
}

// newSession wires a shop session against the configured backend.
func newSession(opts *RootOptions, cfg *config.Config) *shop.Session {
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     true,
		Encoding:          "console",
		Level:             "warn",
		DisableCaller:     true,
		DisableStacktrace: true,
	}
	if opts.Verbose {
		logConfig.Level = "debug"
	}
	log := logger.NewZapLogger(logConfig)

	backend := client.New(opts.BackendURL, opts.Timeout, log)
	return shop.NewSession(backend, log, shop.Options{
		PhoneMinDigits: cfg.Checkout.PhoneMinDigits,
		PhoneMaxDigits: cfg.Checkout.PhoneMaxDigits,
	})
}
