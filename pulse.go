package pulse

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tokmz/pulse/middleware"
	"github.com/tokmz/pulse/pkg/hub"
	"github.com/tokmz/pulse/pkg/logger"
	"github.com/tokmz/pulse/pkg/ws"
)

// Server 聚合 HTTP 服务、两个 WebSocket 端点和 Hub 业务层
type Server struct {
	cfg    *AppConfig
	log    logger.Logger
	engine *gin.Engine
	server *http.Server

	hub      *hub.Hub
	chatWS   *ws.Manager
	statusWS *ws.Manager
}

// Option 服务选项
type Option func(*Server)

// WithLogger 设置日志实例
func WithLogger(log logger.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// New 创建并组装服务。
//
// 聊天端点与状态端点各持有独立的 ws.Manager，广播范围以端点为界；
// 两个端点背后共享同一个 Hub（连接目录、组索引只有一份）。
func New(cfg *AppConfig, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = DefaultAppConfig()
	}

	s := &Server{
		cfg: cfg,
		log: logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	// 传输层：每个端点一个管理器
	chatWS, err := ws.NewManager(s.wsOptions()...)
	if err != nil {
		return nil, err
	}
	statusWS, err := ws.NewManager(s.wsOptions()...)
	if err != nil {
		return nil, err
	}
	s.chatWS = chatWS
	s.statusWS = statusWS

	// 业务层：端点管理器即广播实现
	s.hub = hub.New(chatWS, statusWS, hub.WithLogger(s.log))

	// 组广播查询挂到共享的组索引；状态端点无组语义
	chatWS.SetMemberships(s.hub.Groups())

	// 生命周期回调接入频道
	chatWS.OnConnect(func(id, userAgent, remoteAddr string) {
		s.hub.Chat().Connect(id)
	})
	chatWS.OnDisconnect(func(id string) {
		s.hub.Chat().Disconnect(id)
	})
	statusWS.OnConnect(func(id, userAgent, remoteAddr string) {
		s.hub.Status().Connect(id, userAgent, remoteAddr)
	})
	statusWS.OnDisconnect(func(id string) {
		s.hub.Status().Disconnect(id)
	})

	// 调用路由
	if err := s.registerChatHandlers(); err != nil {
		return nil, err
	}
	if err := s.registerStatusHandlers(); err != nil {
		return nil, err
	}
	chatWS.Freeze()
	statusWS.Freeze()

	s.buildEngine()

	return s, nil
}

// wsOptions 根据配置构建端点选项
func (s *Server) wsOptions() []ws.Option {
	opts := []ws.Option{
		ws.WithMaxConnections(s.cfg.WS.MaxConnections),
		ws.WithHeartbeatInterval(s.cfg.WS.HeartbeatInterval),
		ws.WithHeartbeatTimeout(s.cfg.WS.HeartbeatTimeout),
		ws.WithMessageSizeLimit(s.cfg.WS.MaxMessageSize),
		ws.WithSendQueueSize(s.cfg.WS.SendQueueSize),
	}

	switch {
	case s.cfg.WS.AllowAllOrigins:
		opts = append(opts, ws.WithAllowAllOrigins())
	case len(s.cfg.WS.AllowedOrigins) > 0:
		opts = append(opts, ws.WithCheckOriginWhitelist(s.cfg.WS.AllowedOrigins))
	}

	return opts
}

// buildEngine 组装 gin 引擎和路由
func (s *Server) buildEngine() {
	switch s.cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	healthPaths := []string{"/healthz", "/readyz"}
	engine.Use(middleware.Logger(s.log, &middleware.LoggerConfig{
		Logger:       s.log,
		ExcludePaths: healthPaths,
	}))
	engine.Use(middleware.Tracing(&middleware.TracingConfig{
		ExcludePaths: healthPaths,
	}))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = s.cfg.CORS.AllowOrigins
	corsCfg.AllowCredentials = s.cfg.CORS.AllowCredentials
	engine.Use(middleware.CORS(corsCfg))

	// WebSocket 端点
	engine.GET("/chathub", s.upgradeHandler(s.chatWS))
	engine.GET("/statushub", s.upgradeHandler(s.statusWS))

	// REST 端点
	engine.GET("/weatherforecast", s.handleWeatherForecast)
	engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "Healthy")
	})
	engine.GET("/readyz", func(c *gin.Context) {
		c.String(http.StatusOK, "Healthy")
	})

	s.engine = engine
}

// upgradeHandler 包装端点升级
func (s *Server) upgradeHandler(mgr *ws.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := mgr.HandleUpgrade(c.Writer, c.Request); err != nil {
			s.log.Warn("websocket upgrade failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			if err == ws.ErrTooManyConnections {
				c.String(http.StatusServiceUnavailable, "too many connections")
			}
		}
	}
}

// Engine 底层 gin 引擎（测试用）
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Hub 业务层
func (s *Server) Hub() *hub.Hub {
	return s.hub
}

// Run 启动 HTTP 服务器，收到 SIGINT/SIGTERM 后优雅关机
func (s *Server) Run() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	s.log.Info("server started", zap.String("addr", s.cfg.Server.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errChan:
		return err
	case <-quit:
		s.log.Info("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown 关闭 HTTP 服务器和全部 WebSocket 端点
func (s *Server) Shutdown(ctx context.Context) error {
	var httpErr error
	if s.server != nil {
		httpErr = s.server.Shutdown(ctx)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.chatWS.Shutdown(gctx)
	})
	g.Go(func() error {
		return s.statusWS.Shutdown(gctx)
	})
	wsErr := g.Wait()

	s.hub.Close()

	if httpErr != nil {
		return httpErr
	}
	return wsErr
}
