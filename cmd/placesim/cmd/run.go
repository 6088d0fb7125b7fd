package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"placesim/internal/common"
	"placesim/internal/experiment"
	"placesim/internal/sink"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RunOptions run 子命令选项
type RunOptions struct {
	GenericOptions

	Seed     int64
	Jobs     int
	Nodes    int
	Output   string
	Parallel bool
}

func NewRunOptions() *RunOptions {
	return &RunOptions{
		Seed:  common.DefaultSeed,
		Jobs:  common.DefaultJobCount,
		Nodes: common.DefaultNodeCount,
	}
}

func (o *RunOptions) AddFlags(cmd *cobra.Command) {
	o.GenericOptions.AddFlags(cmd.Flags())
	cmd.Flags().Int64Var(&o.Seed, "seed", o.Seed, "Seed of the workload generator.")
	cmd.Flags().IntVar(&o.Jobs, "jobs", o.Jobs, "Number of jobs to generate.")
	cmd.Flags().IntVar(&o.Nodes, "nodes", o.Nodes, "Number of worker nodes in the pool.")
	cmd.Flags().StringVarP(&o.Output, "output", "o", o.Output,
		"Write results to this CSV file instead of the configured sinks.")
	cmd.Flags().BoolVar(&o.Parallel, "parallel", o.Parallel, "Run policy pairs concurrently.")
}

// applyOverrides 只覆盖命令行显式设置的参数
func (o *RunOptions) applyOverrides(cmd *cobra.Command, cfg *common.Config) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Workload.Seed = o.Seed
	}
	if flags.Changed("jobs") {
		cfg.Workload.Jobs = o.Jobs
	}
	if flags.Changed("nodes") {
		cfg.Cluster.Nodes = o.Nodes
	}
	if flags.Changed("parallel") {
		cfg.Experiment.Parallel = o.Parallel
	}
	if o.Output != "" {
		cfg.Output.Sinks = []common.SinkConfig{{Type: sink.TypeCSV, Path: o.Output}}
	}
}

func NewCmdRun() *cobra.Command {
	o := NewRunOptions()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the utilization experiment and save the results.",
		Long: `Run every queue policy / node policy combination on the same workload.

Examples:
	# Reproduce the default experiment, results go to utilization_results.csv
	placesim run

	# Run every experiment under configs/ concurrently
	placesim run --config "configs/**/*.yaml" --parallel`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return o.Run(ctx, cmd)
		},
	}
	o.AddFlags(cmd)
	return cmd
}

// Run 加载配置并依次运行每个实验
func (o *RunOptions) Run(ctx context.Context, cmd *cobra.Command) error {
	configs, err := common.LoadConfigs(o.ConfigPattern)
	if err != nil {
		return err
	}
	for _, cfg := range configs {
		o.applyOverrides(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if len(configs) > 1 {
		separateOutputs(configs)
	}

	if err := o.initLogger(configs[0]); err != nil {
		return err
	}
	defer common.Sync()

	logger := common.ComponentLogger("placesim")
	logger.Info("Loaded experiments",
		zap.String("config", o.ConfigPattern),
		zap.Int("count", len(configs)))

	for _, cfg := range configs {
		if err := runExperiment(ctx, cfg, logger); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Simulation completed and results saved to CSV.")
	return nil
}

func runExperiment(ctx context.Context, cfg *common.Config, logger *zap.Logger) (err error) {
	driver, err := experiment.NewDriver(cfg, logger.Named("experiment"))
	if err != nil {
		return err
	}

	results, err := sink.NewFromConfigs(cfg.Output.Sinks, logger.Named("results"))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := results.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	report, err := driver.RunWorkload(ctx, cfg.Workload)
	if err != nil {
		return err
	}
	if err := results.Write(ctx, report.Rows); err != nil {
		return err
	}

	logger.Info("Results saved",
		zap.String("experiment", cfg.Name),
		zap.String("run_id", report.RunID),
		zap.Int("rows", len(report.Rows)),
		zap.Int("sinks", results.Len()),
		zap.Duration("duration", report.Duration))
	return nil
}

// separateOutputs 多个实验共用文件路径时，用实验名作为文件名前缀
func separateOutputs(configs []*common.Config) {
	for _, cfg := range configs {
		for i, s := range cfg.Output.Sinks {
			if s.Path == "" {
				continue
			}
			dir, file := filepath.Split(s.Path)
			cfg.Output.Sinks[i].Path = filepath.Join(dir, cfg.Name+"_"+file)
		}
	}
}
