package service

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/breeew/stellar-api/internal/core"
	"github.com/breeew/stellar-api/internal/logic/v1/process"
	"github.com/breeew/stellar-api/internal/plugins"
)

type Options struct {
	ConfigPath string
	Init       string
	Enrichers  int
}

func (o *Options) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.ConfigPath, "config", "c", "", "init api by given config, env STELLAR_API_* is used when empty")
	flagSet.StringVarP(&o.Init, "init", "i", "selfhost", "plugin mode, one of selfhost|saas")
	flagSet.IntVar(&o.Enrichers, "enrichers", 4, "number of journal enrich workers")
}

func NewCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "service",
		Short: "journal and paper api service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func Run(ctx context.Context, opts *Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	plugins.Setup(app.InstallPlugins, opts.Init)

	cancel := process.StartEnrichProcess(app, opts.Enrichers)
	defer cancel()

	return serve(ctx, app)
}
