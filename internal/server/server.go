package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/spevenexe/S25-NLP-project/internal/adapter/utils"
	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/handlers"
	"github.com/spevenexe/S25-NLP-project/internal/middleware"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

type Handlers struct {
	Quiz *handlers.QuizHandler
	Jobs *handlers.JobHandler
}

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

// RegisterRoutes mounts the quiz API on r.
func RegisterRoutes(r *chi.Mux, h Handlers) {
	r.Use(middleware.CORS)

	r.Get("/hello", middleware.Wrap(handlers.Hello))
	r.Post("/uploadFile", middleware.Wrap(h.Jobs.UploadFile))
	r.Get("/status/{id}", middleware.Wrap(h.Jobs.GetStatusHandler))
	r.Post("/generateQuestions", middleware.Wrap(h.Quiz.GenerateQuestions))
	r.Post("/regenerateTailoredQuestions", middleware.Wrap(h.Quiz.RegenerateTailoredQuestions))
	r.Post("/submitAnswers", middleware.Wrap(h.Quiz.SubmitAnswers))
}

func CreateServer(listenAddr string, h Handlers) {
	_logger = logger_i.NewLogger("Server")

	r := utils.GetRouter()
	RegisterRoutes(r.Router, h)

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
		if server != nil {
			server.SetKeepAlivesEnabled(false)
			if err := server.Shutdown(ctx); err != nil {
				_logger.Error("Could not shutdown gracefully", "err", err)
			}
		}

		//close workers
		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		shutdownParams.CloseServices()
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully shut down")
	case <-ctx.Done():
		_logger.Warn("Force shut down")
	}
	close(shutdownParams.StopExecution)
}
