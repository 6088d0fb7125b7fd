package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"placesim/internal/common"
	"placesim/internal/experiment"
	"placesim/internal/scheduler"
	"placesim/internal/scheduler/ordering"
	"placesim/internal/sink"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/renstrom/shortuuid"
	"go.uber.org/zap"
)

// RunRequest 运行实验的可选覆盖参数
type RunRequest struct {
	Seed     *int64 `json:"seed,omitempty"`
	Jobs     *int   `json:"jobs,omitempty"`
	Nodes    *int   `json:"nodes,omitempty"`
	Parallel *bool  `json:"parallel,omitempty"`
}

// HTTPServer 实验报告 HTTP 服务器
type HTTPServer struct {
	server  *http.Server
	logger  *zap.Logger
	config  *common.Config
	results sink.Sink

	mu     sync.RWMutex
	latest *experiment.Report
	runMu  sync.Mutex
}

// NewHTTPServer 创建新的 HTTP 服务器，results 为 nil 时只保留最近一次报告
func NewHTTPServer(config *common.Config, results sink.Sink, logger *zap.Logger) *HTTPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPServer{
		config:  config,
		results: results,
		logger:  logger,
	}
}

// Handler 构建路由
func (s *HTTPServer) Handler() http.Handler {
	router := mux.NewRouter()

	// 添加中间件
	router.Use(s.loggingMiddleware)
	router.Use(s.corsMiddleware)

	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// 实验路由
	exp := router.PathPrefix("/ws/v1/experiment").Subrouter()
	exp.HandleFunc("/policies", s.handlePolicies).Methods("GET")
	exp.HandleFunc("/runs", s.handleRun).Methods("POST")
	exp.HandleFunc("/runs/latest", s.handleLatestRun).Methods("GET")

	return router
}

// Start 启动 HTTP 服务器
func (s *HTTPServer) Start(port int) error {
	common.RegisterMetrics()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Server.Address, port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// 在后台启动服务器
	go func() {
		s.logger.Info("Starting report HTTP server", zap.String("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Report HTTP server failed", zap.Error(err))
		}
	}()

	return nil
}

// Stop 停止 HTTP 服务器
func (s *HTTPServer) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Stopping report HTTP server")
	return s.server.Shutdown(ctx)
}

// Address 监听地址，Start 之前为空
func (s *HTTPServer) Address() string {
	if s.server != nil {
		return s.server.Addr
	}
	return ""
}

// Latest 最近一次实验报告
func (s *HTTPServer) Latest() *experiment.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// handleHealth 健康检查
func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSONResponse(w, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handlePolicies 列出队列策略和放置策略
func (s *HTTPServer) handlePolicies(w http.ResponseWriter, r *http.Request) {
	queues := make([]string, 0, len(ordering.All()))
	for _, p := range ordering.All() {
		queues = append(queues, p.String())
	}
	nodes := make([]string, 0, len(scheduler.AllPlacementPolicies()))
	for _, p := range scheduler.AllPlacementPolicies() {
		nodes = append(nodes, p.String())
	}

	s.writeJSONResponse(w, map[string]interface{}{
		"queue_policies": queues,
		"node_policies":  nodes,
	})
}

// handleRun 运行一次实验并返回报告
func (s *HTTPServer) handleRun(w http.ResponseWriter, r *http.Request) {
	logger := common.LoggerFromContext(r.Context())

	// 空请求体表示不覆盖任何参数
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("Failed to decode run request", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cfg := s.configFor(req)
	driver, err := experiment.NewDriver(cfg, logger.Named("experiment"))
	if err != nil {
		logger.Warn("Rejected run request", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// 同一时间只运行一个实验
	s.runMu.Lock()
	report, err := driver.RunWorkload(r.Context(), cfg.Workload)
	s.runMu.Unlock()
	if err != nil {
		logger.Error("Experiment failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if s.results != nil {
		if err := s.results.Write(r.Context(), report.Rows); err != nil {
			logger.Error("Failed to write results", zap.String("run_id", report.RunID), zap.Error(err))
		}
	}

	s.mu.Lock()
	s.latest = report
	s.mu.Unlock()

	s.writeJSONResponse(w, report)
}

// handleLatestRun 返回最近一次实验报告
func (s *HTTPServer) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	latest := s.Latest()
	if latest == nil {
		http.Error(w, "no experiment has been run yet", http.StatusNotFound)
		return
	}
	s.writeJSONResponse(w, latest)
}

// configFor 在基础配置上应用请求覆盖
func (s *HTTPServer) configFor(req RunRequest) *common.Config {
	cfg := *s.config
	if req.Seed != nil {
		cfg.Workload.Seed = *req.Seed
	}
	if req.Jobs != nil {
		cfg.Workload.Jobs = *req.Jobs
	}
	if req.Nodes != nil {
		cfg.Cluster.Nodes = *req.Nodes
	}
	if req.Parallel != nil {
		cfg.Experiment.Parallel = *req.Parallel
	}
	return &cfg
}

// loggingMiddleware 日志中间件，为每个请求在上下文中挂载带 request_id 的日志记录器
func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := s.logger.With(zap.String("request_id", shortuuid.New()))

		next.ServeHTTP(w, r.WithContext(common.ContextWithLogger(r.Context(), logger)))

		logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)))
	})
}

// corsMiddleware CORS中间件
func (s *HTTPServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSONResponse 写入 JSON 响应
func (s *HTTPServer) writeJSONResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
