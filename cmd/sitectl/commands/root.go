package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sitekit/internal/bindings"
	"sitekit/internal/telemetry"
	"sitekit/pkg/config"
	"sitekit/pkg/kafka"
)

const serviceName = "sitectl"

type runtime struct {
	v       *viper.Viper
	envFile string
	cfgFile string

	cfg *config.Config
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rt := &runtime{v: viper.New()}

	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Drive and test the site's booking, contact and carousel controllers",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.load()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&rt.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.StringVar(&rt.cfgFile, "config", "", "optional YAML config file with the same keys as the environment")
	flags.String("base-url", "", "site base URL the forms post to ("+config.EnvSiteBaseURL+")")
	flags.String("bindings", "", "page bindings YAML file ("+config.EnvBindingsFile+")")
	flags.String("log-level", "", "debug, info, warn or error ("+config.EnvLogLevel+")")
	flags.String("log-format", "", "json or text ("+config.EnvLogFormat+")")

	for key, name := range map[string]string{
		config.EnvSiteBaseURL:  "base-url",
		config.EnvBindingsFile: "bindings",
		config.EnvLogLevel:     "log-level",
		config.EnvLogFormat:    "log-format",
	} {
		if err := rt.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}

	root.AddCommand(
		stubCmd(rt),
		formCmd(rt, "book", "booking", "Fill in and submit the booking form"),
		formCmd(rt, "contact", "contact", "Fill in and submit the contact form"),
		carouselCmd(rt),
	)
	return root
}

func (rt *runtime) load() error {
	if err := config.LoadDotEnv(rt.envFile); err != nil {
		return err
	}

	for _, key := range config.Keys {
		if err := rt.v.BindEnv(key); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	if rt.cfgFile != "" {
		rt.v.SetConfigFile(rt.cfgFile)
		if err := rt.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", rt.cfgFile, err)
		}
	}

	cfg, err := config.LoadFrom(serviceName, rt.v.GetString)
	if err != nil {
		return err
	}
	rt.cfg = cfg
	cfg.LogConfiguration()
	return nil
}

func (rt *runtime) bindings() (*bindings.Site, error) {
	return bindings.Load(rt.cfg.BindingsFile)
}

// telemetrySink logs every UI event and, when brokers are configured, also
// exports it to Kafka. The returned func flushes and closes the exporter.
func (rt *runtime) telemetrySink() (telemetry.Sink, func(), error) {
	logSink := telemetry.NewLogSink(rt.cfg.Log)
	if !rt.cfg.Kafka.Enabled() {
		return logSink, func() {}, nil
	}

	producer, err := kafka.NewProducer(rt.cfg.Kafka, rt.cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("create telemetry producer: %w", err)
	}
	ks := telemetry.NewKafkaSink(producer, 0, rt.cfg.Log)
	closeFn := func() {
		if err := ks.Close(); err != nil {
			rt.cfg.Log.Warn("Failed to close telemetry exporter", "error", err)
		}
	}
	return telemetry.Multi{logSink, ks}, closeFn, nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
