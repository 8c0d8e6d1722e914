package mcpTools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spevenexe/S25-NLP-project/internal/api"
	"github.com/spevenexe/S25-NLP-project/internal/domain/jobModel"
	"github.com/spevenexe/S25-NLP-project/internal/domain/quizModel"
)

type MockQuiz struct {
	LastSession    string
	LastWeaknesses []string
}

func (m *MockQuiz) GenerateQuestions(ctx context.Context, sessionId string, count int) ([]quizModel.Question, error) {
	m.LastSession = sessionId
	out := make([]quizModel.Question, count)
	for i := range out {
		out[i] = quizModel.Question{Id: i + 1, Text: "Why?", Category: "Analysis"}
	}
	return out, nil
}

func (m *MockQuiz) RegenerateTailoredQuestions(ctx context.Context, sessionId string, count int, weaknesses []string) ([]quizModel.Question, error) {
	m.LastWeaknesses = weaknesses
	return m.GenerateQuestions(ctx, sessionId, count)
}

func (m *MockQuiz) EvaluateAnswers(ctx context.Context, sessionId string, answers []quizModel.AnswerSubmission) (quizModel.EvaluationResult, error) {
	if len(answers) > 0 && answers[0].Id == 99 {
		return quizModel.EvaluationResult{}, quizModel.ErrUnknownQuestionID
	}
	return quizModel.EvaluationResult{Strengths: []string{"Biology"}, Weaknesses: []string{"None identified"},
		Scores: []quizModel.Score{{Id: 1, Value: 5}}}, nil
}

type MockIngestor struct {
	Jobs []jobModel.Job
}

func (m *MockIngestor) IngestDocument(ctx context.Context, j jobModel.Job) jobModel.Job {
	m.Jobs = append(m.Jobs, j)
	j.CurrentStep = jobModel.Complete
	j.JobPayload.IndexBuilt = true
	j.JobPayload.ChunkCount = 2
	return j
}

func connect(t *testing.T, q *MockQuiz, ing *MockIngestor) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	server := NewServer(q, ing)
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	if _, err := server.Connect(ctx, serverTransport, nil); err != nil {
		t.Fatal(err)
	}
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

func call(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return res
}

func decode(t *testing.T, res *mcp.CallToolResult, into any) {
	t.Helper()
	data, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, into); err != nil {
		t.Fatal(err)
	}
}

func TestListTools(t *testing.T) {
	cs := connect(t, &MockQuiz{}, &MockIngestor{})
	res, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"upload_document", "generate_questions", "submit_answers"} {
		if !names[want] {
			t.Errorf("tool %s not registered", want)
		}
	}
}

func TestGenerateQuestions(t *testing.T) {
	q := &MockQuiz{}
	cs := connect(t, q, &MockIngestor{})

	res := call(t, cs, "generate_questions", map[string]any{"questionCount": 2})
	if res.IsError {
		t.Fatalf("unexpected tool error %+v", res.Content)
	}
	var out api.QuestionsResponse
	decode(t, res, &out)
	if len(out.Questions) != 2 || q.LastSession != "default" {
		t.Errorf("got %+v session %q", out, q.LastSession)
	}

	call(t, cs, "generate_questions", map[string]any{"questionCount": 1, "weaknesses": []string{"Chemistry"}, "sessionId": "s2"})
	if len(q.LastWeaknesses) != 1 || q.LastSession != "s2" {
		t.Errorf("tailored call got %v in %q", q.LastWeaknesses, q.LastSession)
	}
}

func TestSubmitAnswers(t *testing.T) {
	cs := connect(t, &MockQuiz{}, &MockIngestor{})

	res := call(t, cs, "submit_answers", map[string]any{"answers": []map[string]any{{"id": 1, "text": "light"}}})
	var out api.EvaluationResponse
	decode(t, res, &out)
	if len(out.Scores) != 1 || out.Scores[0].Score != 5 {
		t.Errorf("got %+v", out)
	}

	res = call(t, cs, "submit_answers", map[string]any{"answers": []map[string]any{{"id": 99, "text": "?"}}})
	if !res.IsError {
		t.Error("unknown question id should be a tool error")
	}
}

func TestUploadDocument(t *testing.T) {
	ing := &MockIngestor{}
	cs := connect(t, &MockQuiz{}, ing)

	path := filepath.Join(t.TempDir(), "notes.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatal(err)
	}
	res := call(t, cs, "upload_document", map[string]any{"path": path, "sessionId": "alice"})
	if res.IsError {
		t.Fatalf("unexpected tool error %+v", res.Content)
	}
	var out api.UploadResponse
	decode(t, res, &out)
	if out.Chunks != 2 || !strings.Contains(out.Message, "2 chunks") {
		t.Errorf("got %+v", out)
	}
	if len(ing.Jobs) != 1 || ing.Jobs[0].SessionId != "alice" || ing.Jobs[0].JobPayload.IngestFileName != "notes.pdf" {
		t.Errorf("ingestor got %+v", ing.Jobs)
	}

	res = call(t, cs, "upload_document", map[string]any{"path": filepath.Join(t.TempDir(), "notes.txt")})
	if !res.IsError {
		t.Error("non-pdf path should be a tool error")
	}
}
