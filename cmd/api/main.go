// @title           Study Quiz API
// @version         1.0
// @description     Upload a PDF, answer generated quiz questions and get strengths and weaknesses back
// @termsOfService  http://swagger.io/terms/

// @contact.name    S25 NLP project
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spevenexe/S25-NLP-project/internal/app"
	"github.com/spevenexe/S25-NLP-project/internal/config"
	jobmodel "github.com/spevenexe/S25-NLP-project/internal/domain/jobModel"
	"github.com/spevenexe/S25-NLP-project/internal/handlers"
	"github.com/spevenexe/S25-NLP-project/internal/job"
	"github.com/spevenexe/S25-NLP-project/internal/server"
	"github.com/spevenexe/S25-NLP-project/internal/telemetry"
	"github.com/spevenexe/S25-NLP-project/internal/worker"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {
	config.LoadEnvironment()
	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	shutdownTracer, err := telemetry.InitTracer(serviceContext, config.ServiceName, config.OTLPEndpoint)
	if err != nil {
		logger.Error("Tracing disabled", "err", err)
		shutdownTracer = func(context.Context) {}
	}

	quizApp, err := app.Build(serviceContext)
	if err != nil {
		logger.Error("Could not start services", "err", err)
		os.Exit(1)
	}
	quizApp.Start(serviceContext)

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	logger.Info("Starting job service")
	jobService := job.InitJobService(job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          quizApp.JobStore,
	})

	//init worker pool
	worker.NewPool(jobService, quizApp.Ingestor, stopWorkerChannel, &workerWaitGroup).Start()

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices: func() {
			ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
			defer cancel()
			quizApp.Close(ctx)
			shutdownTracer(ctx)
			closeExternalServices()
		},
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, server.Handlers{
		Quiz: handlers.NewQuizHandler(quizApp.Quiz),
		Jobs: handlers.NewJobHandler(jobService, config.UploadDir),
	})

	<-stopExecution
	logger.Info("Server stopped")
}
