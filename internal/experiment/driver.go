package experiment

import (
	"context"
	"fmt"
	"time"

	"placesim/internal/cluster"
	"placesim/internal/common"
	"placesim/internal/scheduler"
	"placesim/internal/scheduler/ordering"
	"placesim/internal/simulator"
	"placesim/internal/sink"
	"placesim/internal/workload"

	"github.com/renstrom/shortuuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options 实验运行选项
type Options struct {
	// Parallel 并发运行各策略组合，每个组合独占自己的节点池
	Parallel bool
}

// Pair 一个 (队列策略, 放置策略) 组合
type Pair struct {
	Queue ordering.Policy           `json:"queue_policy"`
	Node  scheduler.PlacementPolicy `json:"node_policy"`
}

func (p Pair) String() string {
	return p.Queue.String() + "/" + p.Node.String()
}

// Report 一次实验的结果，Rows 顺序为 队列策略 外层、放置策略 内层
type Report struct {
	RunID     string           `json:"run_id"`
	Name      string           `json:"name"`
	StartedAt time.Time        `json:"started_at"`
	Duration  time.Duration    `json:"duration"`
	Nodes     int              `json:"nodes"`
	Workload  workload.Summary `json:"workload"`
	Rows      []sink.Row       `json:"rows"`
}

// Driver 实验驱动：对所有策略组合运行模拟
type Driver struct {
	name         string
	nodes        int
	nodeCapacity common.Resource
	pairs        []Pair
	options      Options
	simulator    *simulator.Simulator
	logger       *zap.Logger
}

// NewDriver 根据配置创建实验驱动
func NewDriver(cfg *common.Config, logger *zap.Logger) (*Driver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	queues := make([]ordering.Policy, 0, len(cfg.Experiment.QueuePolicies))
	for _, name := range cfg.Experiment.QueuePolicies {
		p, err := ordering.Parse(name)
		if err != nil {
			return nil, err
		}
		queues = append(queues, p)
	}

	nodes := make([]scheduler.PlacementPolicy, 0, len(cfg.Experiment.NodePolicies))
	for _, name := range cfg.Experiment.NodePolicies {
		p, err := scheduler.ParsePlacementPolicy(name)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, p)
	}

	return &Driver{
		name:         cfg.Name,
		nodes:        cfg.Cluster.Nodes,
		nodeCapacity: cfg.Cluster.NodeCapacity,
		pairs:        Pairs(queues, nodes),
		options:      Options{Parallel: cfg.Experiment.Parallel},
		simulator:    simulator.NewSimulator(logger.Named("simulator")),
		logger:       logger,
	}, nil
}

// Pairs 枚举所有组合，队列策略在外层
func Pairs(queues []ordering.Policy, nodes []scheduler.PlacementPolicy) []Pair {
	pairs := make([]Pair, 0, len(queues)*len(nodes))
	for _, q := range queues {
		for _, n := range nodes {
			pairs = append(pairs, Pair{Queue: q, Node: n})
		}
	}
	return pairs
}

// Pairs 返回驱动将运行的组合
func (d *Driver) Pairs() []Pair {
	return d.pairs
}

// WithOptions 覆盖运行选项
func (d *Driver) WithOptions(options Options) *Driver {
	d.options = options
	return d
}

// RunWorkload 按负载配置生成作业并运行实验
func (d *Driver) RunWorkload(ctx context.Context, cfg common.WorkloadConfig) (*Report, error) {
	return d.Run(ctx, workload.Generate(cfg))
}

// Run 对同一批作业运行所有组合
func (d *Driver) Run(ctx context.Context, jobs []cluster.Job) (*Report, error) {
	report := &Report{
		RunID:     shortuuid.New(),
		Name:      d.name,
		StartedAt: time.Now(),
		Nodes:     d.nodes,
		Workload:  workload.Summarize(jobs),
		Rows:      make([]sink.Row, len(d.pairs)),
	}

	logger := d.logger.With(zap.String("run_id", report.RunID), zap.String("experiment", d.name))
	ctx = common.ContextWithLogger(ctx, logger)
	logger.Info("Starting experiment",
		zap.Int("jobs", len(jobs)),
		zap.Int("nodes", d.nodes),
		zap.Int("pairs", len(d.pairs)),
		zap.Bool("parallel", d.options.Parallel))

	if d.options.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i, pair := range d.pairs {
			g.Go(func() error {
				row, err := d.runPair(gctx, pair, jobs)
				if err != nil {
					return err
				}
				report.Rows[i] = row
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, pair := range d.pairs {
			row, err := d.runPair(ctx, pair, jobs)
			if err != nil {
				return nil, err
			}
			report.Rows[i] = row
		}
	}

	for i := range report.Rows {
		report.Rows[i].RunID = report.RunID
	}
	report.Duration = time.Since(report.StartedAt)

	logger.Info("Experiment finished", zap.Duration("duration", report.Duration))
	return report, nil
}

// runPair 使用新的节点池和排序后的作业副本运行一个组合
func (d *Driver) runPair(ctx context.Context, pair Pair, jobs []cluster.Job) (sink.Row, error) {
	if err := ctx.Err(); err != nil {
		return sink.Row{}, err
	}

	ordered, err := ordering.Order(pair.Queue, jobs)
	if err != nil {
		return sink.Row{}, err
	}
	placer, err := scheduler.CreatePlacer(pair.Node)
	if err != nil {
		return sink.Row{}, err
	}
	pool := cluster.NewPool(d.nodes, d.nodeCapacity)

	start := time.Now()
	result, err := d.simulator.Run(ordered, pool, placer)
	if err != nil {
		return sink.Row{}, fmt.Errorf("running %s: %w", pair, err)
	}
	took := time.Since(start)

	common.RecordRun(pair.Queue.String(), pair.Node.String(),
		result.Placed, result.Dropped, result.CPUUtilization, result.MemoryUtilization, took)

	common.LoggerFromContext(ctx).Debug("Policy pair finished",
		zap.String("queue_policy", pair.Queue.String()),
		zap.String("node_policy", pair.Node.String()),
		zap.Float64("cpu_utilization", result.CPUUtilization),
		zap.Float64("memory_utilization", result.MemoryUtilization),
		zap.Int("dropped", result.Dropped),
		zap.Duration("took", took))

	return sink.Row{
		QueuePolicy:       pair.Queue.String(),
		NodePolicy:        pair.Node.String(),
		CPUUtilization:    result.CPUUtilization,
		MemoryUtilization: result.MemoryUtilization,
		Placed:            result.Placed,
		Dropped:           result.Dropped,
	}, nil
}
