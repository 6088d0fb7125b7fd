package cmd

import (
	"placesim/internal/common"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// GenericOptions 各子命令共用的选项
type GenericOptions struct {
	ConfigPattern string
	Development   bool
}

func (o *GenericOptions) AddFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&o.ConfigPattern, "config", "c", o.ConfigPattern,
		"Config file or glob pattern. Built-in defaults are used when empty.")
	flags.BoolVar(&o.Development, "dev", o.Development, "Enable development logging.")
}

// initLogger 按配置初始化日志，--dev 覆盖配置中的 development
func (o *GenericOptions) initLogger(cfg *common.Config) error {
	logging := cfg.Logging
	if o.Development {
		logging.Development = true
	}
	return common.InitLoggerFromConfig(logging)
}

// RootCmd 根命令
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "placesim",
		Short: "Simulate job queue ordering and node placement policies.",
		Long: `placesim places a synthetic workload onto a fixed pool of worker nodes
for every combination of queue ordering policy and node placement policy,
and reports the resulting CPU and memory utilization.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	cmd.AddCommand(NewCmdRun())
	cmd.AddCommand(NewCmdServe())
	cmd.AddCommand(NewCmdPolicies())
	return cmd
}
