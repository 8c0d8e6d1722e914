package mcpTools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spevenexe/S25-NLP-project/internal/adapter"
	"github.com/spevenexe/S25-NLP-project/internal/api"
	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/domain/jobModel"
	"github.com/spevenexe/S25-NLP-project/internal/domain/quizModel"
	"github.com/spevenexe/S25-NLP-project/internal/job"
	"github.com/spevenexe/S25-NLP-project/internal/quiz"
	"github.com/spevenexe/S25-NLP-project/internal/rag/ingest"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
)

type UploadInput struct {
	Path      string `json:"path" jsonschema:"absolute path of a PDF file readable by the server"`
	SessionId string `json:"sessionId,omitempty" jsonschema:"session key, defaults to \"default\""`
}

type GenerateInput struct {
	QuestionCount int      `json:"questionCount" jsonschema:"number of questions to generate"`
	Weaknesses    []string `json:"weaknesses,omitempty" jsonschema:"topics to focus on, usually the weaknesses of the last evaluation"`
	SessionId     string   `json:"sessionId,omitempty" jsonschema:"session key, defaults to \"default\""`
}

type SubmitInput struct {
	Answers   []api.AnswerDTO `json:"answers" jsonschema:"one answer per question id of the last generated batch"`
	SessionId string          `json:"sessionId,omitempty" jsonschema:"session key, defaults to \"default\""`
}

type tools struct {
	quiz     quiz.Service
	ingestor ingest.Service
	logger   *logger_i.Logger
}

// NewServer exposes upload, generation and evaluation as MCP tools.
func NewServer(quizService quiz.Service, ingestor ingest.Service) *mcp.Server {
	t := &tools{quiz: quizService, ingestor: ingestor, logger: logger_i.NewLogger("MCP")}

	server := mcp.NewServer(&mcp.Implementation{Name: config.ServiceName, Version: "1.0.0"}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "upload_document",
		Description: "Ingest a PDF so later questions are drawn from it. Replaces the session's previous document.",
	}, t.uploadDocument)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_questions",
		Description: "Generate quiz questions from the session's document. Pass weaknesses to focus on weak topics.",
	}, t.generateQuestions)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "submit_answers",
		Description: "Score answers to the last generated questions and report strengths and weaknesses.",
	}, t.submitAnswers)
	return server
}

func (t *tools) uploadDocument(ctx context.Context, req *mcp.CallToolRequest, in UploadInput) (*mcp.CallToolResult, api.UploadResponse, error) {
	path := strings.TrimSpace(in.Path)
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, api.UploadResponse{}, fmt.Errorf("%w: %s is not a .pdf file", quizModel.ErrUnsupportedContentType, path)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, api.UploadResponse{}, fmt.Errorf("reading %s: %w", path, err)
	}

	j := job.NewIngestJob(uuid.NewString(), sessionOrDefault(in.SessionId), uuid.NewString(), filepath.Base(path), path)
	ctx = context.WithValue(ctx, config.TRACE_ID_KEY, j.TraceId)
	done := t.ingestor.IngestDocument(ctx, j)
	t.logger.WithTrace(ctx).Info("upload_document", "sessionId", j.SessionId, "step", done.CurrentStep)
	if done.CurrentStep == jobModel.Error {
		return nil, api.UploadResponse{}, errors.New(ingest.Describe(done))
	}
	return nil, api.UploadResponse{
		Status:  api.UploadStatusSuccess,
		Message: ingest.Describe(done),
		Path:    path,
		JobId:   done.Id,
		Chunks:  done.JobPayload.ChunkCount,
	}, nil
}

func (t *tools) generateQuestions(ctx context.Context, req *mcp.CallToolRequest, in GenerateInput) (*mcp.CallToolResult, api.QuestionsResponse, error) {
	sessionId := sessionOrDefault(in.SessionId)
	var (
		questions []quizModel.Question
		err       error
	)
	if len(in.Weaknesses) > 0 {
		questions, err = t.quiz.RegenerateTailoredQuestions(ctx, sessionId, in.QuestionCount, in.Weaknesses)
	} else {
		questions, err = t.quiz.GenerateQuestions(ctx, sessionId, in.QuestionCount)
	}
	if err != nil {
		return nil, api.QuestionsResponse{}, err
	}
	return nil, adapter.ToQuestionsResponse(questions), nil
}

func (t *tools) submitAnswers(ctx context.Context, req *mcp.CallToolRequest, in SubmitInput) (*mcp.CallToolResult, api.EvaluationResponse, error) {
	result, err := t.quiz.EvaluateAnswers(ctx, sessionOrDefault(in.SessionId), adapter.ToAnswerSubmissions(in.Answers))
	if err != nil {
		return nil, api.EvaluationResponse{}, err
	}
	return nil, adapter.ToEvaluationResponse(result), nil
}

func sessionOrDefault(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return config.DefaultSessionId
}
