package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mapset "github.com/deckarep/golang-set"
	"github.com/mattn/go-zglob"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// 默认值，与原始实验保持一致
const (
	DefaultJobCount         = 1000
	DefaultSeed             = 1
	DefaultMaxArrivalTime   = 24
	DefaultMaxExecutionTime = 5
	DefaultResultsFile      = "utilization_results.csv"
	DefaultServerPort       = 8090

	// 单次实验的上限，HTTP 请求也受此限制
	MaxJobCount  = 1000000
	MaxNodeCount = 100000
)

// Config 全局配置
type Config struct {
	Name       string           `yaml:"name"`
	Cluster    ClusterConfig    `yaml:"cluster"`
	Workload   WorkloadConfig   `yaml:"workload"`
	Experiment ExperimentConfig `yaml:"experiment"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
	Server     ServerConfig     `yaml:"server"`
}

// ClusterConfig 工作节点池配置
type ClusterConfig struct {
	Nodes        int      `yaml:"nodes"`
	NodeCapacity Resource `yaml:"node_capacity"`
}

// WorkloadConfig 合成负载配置
type WorkloadConfig struct {
	Jobs             int   `yaml:"jobs"`
	Seed             int64 `yaml:"seed"`
	MaxArrivalTime   int   `yaml:"max_arrival_time"` // 到达时间取值 [0, MaxArrivalTime)
	MaxVCores        int32 `yaml:"max_vcores"`
	MaxMemory        int64 `yaml:"max_memory"`
	MaxExecutionTime int   `yaml:"max_execution_time"`
}

// ExperimentConfig 实验配置
type ExperimentConfig struct {
	QueuePolicies []string `yaml:"queue_policies"`
	NodePolicies  []string `yaml:"node_policies"`
	Parallel      bool     `yaml:"parallel"`
}

// OutputConfig 结果输出配置
type OutputConfig struct {
	Sinks []SinkConfig `yaml:"sinks"`
}

// SinkConfig 单个结果输出
type SinkConfig struct {
	Type    string   `yaml:"type"` // csv, parquet, kafka, log
	Path    string   `yaml:"path,omitempty"`
	Brokers []string `yaml:"brokers,omitempty"`
	Topic   string   `yaml:"topic,omitempty"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
	File        string `yaml:"file,omitempty"`
	MaxSizeMB   int    `yaml:"max_size_mb,omitempty"`
	MaxBackups  int    `yaml:"max_backups,omitempty"`
	MaxAgeDays  int    `yaml:"max_age_days,omitempty"`
	Compress    bool   `yaml:"compress,omitempty"`
}

// ServerConfig 报告服务配置
type ServerConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// GetDefaultConfig 获取默认配置
func GetDefaultConfig() *Config {
	return &Config{
		Name: "default",
		Cluster: ClusterConfig{
			Nodes:        DefaultNodeCount,
			NodeCapacity: DefaultNodeCapacity(),
		},
		Workload: WorkloadConfig{
			Jobs:             DefaultJobCount,
			Seed:             DefaultSeed,
			MaxArrivalTime:   DefaultMaxArrivalTime,
			MaxVCores:        DefaultNodeVCores,
			MaxMemory:        DefaultNodeMemory,
			MaxExecutionTime: DefaultMaxExecutionTime,
		},
		Experiment: ExperimentConfig{
			QueuePolicies: []string{"FCFS", "Smallest Job First", "Shortest Duration"},
			NodePolicies:  []string{"First Fit", "Best Fit", "Worst Fit"},
		},
		Output: OutputConfig{
			Sinks: []SinkConfig{
				{Type: "csv", Path: getEnvOrDefault("PLACESIM_RESULTS_FILE", DefaultResultsFile)},
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Server: ServerConfig{
			Address: "0.0.0.0",
			Port:    DefaultServerPort,
		},
	}
}

// LoadConfig 加载配置文件，未出现的字段保留默认值
func LoadConfig(path string) (*Config, error) {
	config := GetDefaultConfig()
	if path == "" {
		return config, config.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to read config %s", path)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.WithMessagef(err, "failed to unmarshal config %s", path)
	}

	// 未指定名称时使用文件名
	if config.Name == "" || config.Name == "default" {
		fileName := filepath.Base(path)
		config.Name = strings.TrimSuffix(fileName, filepath.Ext(fileName))
	}

	if err := config.Validate(); err != nil {
		return nil, errors.WithMessagef(err, "invalid config %s", path)
	}
	return config, nil
}

// LoadConfigs 按 glob 模式加载多个配置文件
func LoadConfigs(pattern string) ([]*Config, error) {
	if pattern == "" {
		config, err := LoadConfig("")
		if err != nil {
			return nil, err
		}
		return []*Config{config}, nil
	}

	filePaths, err := zglob.Glob(pattern)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(filePaths) == 0 {
		return nil, errors.WithStack(fmt.Errorf("%w: no config matches %q", ErrInvalidConfiguration, pattern))
	}

	configs := make([]*Config, 0, len(filePaths))
	for _, filePath := range filePaths {
		config, err := LoadConfig(filePath)
		if err != nil {
			return nil, err
		}
		configs = append(configs, config)
	}
	return configs, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Cluster.Nodes <= 0 {
		return NewValidationError("cluster.nodes", "must be greater than 0", c.Cluster.Nodes)
	}
	if c.Cluster.Nodes > MaxNodeCount {
		return NewValidationError("cluster.nodes", fmt.Sprintf("cannot exceed %d", MaxNodeCount), c.Cluster.Nodes)
	}
	if err := ValidateResource("cluster.node_capacity", c.Cluster.NodeCapacity); err != nil {
		return err
	}

	w := c.Workload
	if w.Jobs < 0 {
		return NewValidationError("workload.jobs", "cannot be negative", w.Jobs)
	}
	if w.Jobs > MaxJobCount {
		return NewValidationError("workload.jobs", fmt.Sprintf("cannot exceed %d", MaxJobCount), w.Jobs)
	}
	if w.MaxArrivalTime <= 0 {
		return NewValidationError("workload.max_arrival_time", "must be greater than 0", w.MaxArrivalTime)
	}
	if w.MaxVCores <= 0 {
		return NewValidationError("workload.max_vcores", "must be greater than 0", w.MaxVCores)
	}
	if w.MaxMemory <= 0 {
		return NewValidationError("workload.max_memory", "must be greater than 0", w.MaxMemory)
	}
	if w.MaxExecutionTime <= 0 {
		return NewValidationError("workload.max_execution_time", "must be greater than 0", w.MaxExecutionTime)
	}

	if err := validatePolicyNames("experiment.queue_policies", c.Experiment.QueuePolicies); err != nil {
		return err
	}
	if err := validatePolicyNames("experiment.node_policies", c.Experiment.NodePolicies); err != nil {
		return err
	}

	for i, s := range c.Output.Sinks {
		if strings.TrimSpace(s.Type) == "" {
			return NewValidationError(fmt.Sprintf("output.sinks[%d].type", i), "cannot be empty", s.Type)
		}
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return NewValidationError("server.port", "must be between 0 and 65535", c.Server.Port)
	}
	return nil
}

// validatePolicyNames 策略名不能为空且不能重复
func validatePolicyNames(field string, names []string) error {
	if len(names) == 0 {
		return NewValidationError(field, "cannot be empty", names)
	}
	seen := mapset.NewSet()
	for _, name := range names {
		key := NormalizePolicyName(name)
		if key == "" {
			return NewValidationError(field, "policy name cannot be empty", name)
		}
		if !seen.Add(key) {
			return NewValidationError(field, "duplicate policy", name)
		}
	}
	return nil
}

// NormalizePolicyName 统一策略名写法："Best Fit"、"best-fit"、"best_fit" 视为同一个
func NormalizePolicyName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "-", "_", "-").Replace(name)
}

// getEnvOrDefault 获取环境变量或使用默认值
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
