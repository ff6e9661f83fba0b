package http_server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abrar71/swaggerfilesv2" // swagger embed files

	"pmrelay/internal/config"
	"pmrelay/internal/http/publishhandler"
	"pmrelay/internal/relay"
)

type httpServer struct {
	cfg      *config.Config
	srv      http.Server
	ln       net.Listener
	relaySrv *relay.Server
	ctx      context.Context
}

func NewHttpServer(ctx context.Context, cfg *config.Config, relaySrv *relay.Server) *httpServer {
	return &httpServer{
		cfg:      cfg,
		relaySrv: relaySrv,
		ctx:      ctx,
	}
}

func (h *httpServer) Start() error {
	// Resolve TLS material first: if https was asked for and a credential is
	// missing we must refuse to bind, not fall back to plaintext.
	certFile, keyFile, err := h.cfg.TLSCredentials()
	if err != nil {
		zap.L().Error("https requested but credentials are incomplete; not starting listener", zap.Error(err))
		return err
	}

	listenAddr := fmt.Sprintf("%s:%d", h.cfg.Host, h.cfg.Port)
	h.ln, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	routerEngine := gin.New()
	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))

	// Swagger UI and API specs
	routerEngine.StaticFS("/swagger-apis", http.FS(swaggerfilesv2.FS))
	routerEngine.Static("/api-specs", "api_specs")

	// websocket endpoint
	routerEngine.GET(h.cfg.Resource, h.relaySrv.Handle)

	// REST API for the backend trigger path
	ph := publishhandler.New(h.relaySrv)
	ph.Register(routerEngine)

	routerEngine.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	h.srv = http.Server{
		Handler: routerEngine,
	}

	zap.L().Info("listening",
		zap.String("scheme", h.cfg.Scheme),
		zap.String("addr", listenAddr),
	)
	if h.cfg.Scheme == config.SchemeHTTPS {
		return h.srv.ServeTLS(h.ln, certFile, keyFile)
	}
	return h.srv.Serve(h.ln)
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to 10 s for in-flight requests to finish.
func (h *httpServer) Dispose() error {
	// Create a context that times-out after 10 s.
	ctx, cancel := context.WithTimeout(h.ctx, 10*time.Second)
	defer cancel()

	// Ask the server to shut down.
	if err := h.srv.Shutdown(ctx); err != nil {
		zap.L().Error("http_dispose", zap.Error(err))
		return err // e.g. active conns didn't finish in time
	}

	// If the context's deadline expired, log it for observability.
	if ctx.Err() == context.DeadlineExceeded {
		zap.L().Error("http_dispose", zap.Error(errors.New("shutdown timed out")))
		log.Println("shutdown timeout (10 s)")
	}

	return nil
}
