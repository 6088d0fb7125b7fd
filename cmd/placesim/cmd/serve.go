package cmd

import (
	"errors"
	"os/signal"
	"syscall"

	"placesim/internal/common"
	"placesim/internal/server"
	"placesim/internal/sink"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ServeOptions serve 子命令选项
type ServeOptions struct {
	GenericOptions

	Port int
}

func (o *ServeOptions) AddFlags(cmd *cobra.Command) {
	o.GenericOptions.AddFlags(cmd.Flags())
	cmd.Flags().IntVarP(&o.Port, "port", "p", o.Port, "Port of the report server. Uses the configured port when 0.")
}

func NewCmdServe() *cobra.Command {
	o := &ServeOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the experiment report server.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd)
		},
	}
	o.AddFlags(cmd)
	return cmd
}

// Run 启动报告服务直到收到退出信号
func (o *ServeOptions) Run(cmd *cobra.Command) error {
	configs, err := common.LoadConfigs(o.ConfigPattern)
	if err != nil {
		return err
	}
	if len(configs) > 1 {
		return errors.New("serve accepts exactly one config")
	}
	cfg := configs[0]

	if err := o.initLogger(cfg); err != nil {
		return err
	}
	defer common.Sync()
	logger := common.ComponentLogger("server")

	port := cfg.Server.Port
	if o.Port != 0 {
		port = o.Port
	}

	results, err := sink.NewFromConfigs(cfg.Output.Sinks, logger.Named("results"))
	if err != nil {
		return err
	}
	defer func() {
		if err := results.Close(); err != nil {
			logger.Error("Failed to close result sinks", zap.Error(err))
		}
	}()

	srv := server.NewHTTPServer(cfg, results, logger)
	if err := srv.Start(port); err != nil {
		return err
	}
	logger.Info("Report server ready",
		zap.String("addr", srv.Address()),
		zap.String("experiment", cfg.Name))

	// 优雅关闭处理
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("Received shutdown signal")
	if err := srv.Stop(); err != nil {
		logger.Error("Error stopping report server", zap.Error(err))
		return err
	}
	logger.Info("Report server exited gracefully")
	return nil
}
