package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/insightqa/insightqa/internal/adapter/utils"
	"github.com/insightqa/insightqa/internal/config"
	"github.com/insightqa/insightqa/internal/handlers"
	"github.com/insightqa/insightqa/internal/middleware"
	"github.com/insightqa/insightqa/pkg/logger_i"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	CloseServices    context.CancelFunc
}

func CreateServer(listenAddr string, h *handlers.Handlers) {
	_logger = logger_i.NewLogger("Server")

	r := utils.GetRouter()

	r.Router.Get("/health", middleware.Wrap(h.GetHealthHandler))
	r.Router.Post("/ingest", middleware.Wrap(h.PostIngestHandler))
	r.Router.Post("/agent/testcases", middleware.Wrap(h.PostTestCasesHandler))
	r.Router.Post("/agent/generate_script", middleware.Wrap(h.PostGenerateScriptHandler))
	r.Router.Get("/kb/list", middleware.Wrap(h.GetKBListHandler))
	r.Router.Get("/kb/view/{kb_id}", middleware.Wrap(h.GetKBViewHandler))
	r.Router.Post("/kb/rename", middleware.Wrap(h.PostKBRenameHandler))
	r.Router.Post("/kb/delete", middleware.Wrap(h.PostKBDeleteHandler))

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	_logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully", "error", err)
		}

		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully shut down")
	case <-ctx.Done():
		_logger.Info("Force shut down")
		os.Exit(1)
	}
}
