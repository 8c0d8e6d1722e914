package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spevenexe/S25-NLP-project/internal/api"
	"github.com/spevenexe/S25-NLP-project/internal/data/store"
	"github.com/spevenexe/S25-NLP-project/internal/domain/jobModel"
	"github.com/spevenexe/S25-NLP-project/internal/domain/quizModel"
	"github.com/spevenexe/S25-NLP-project/internal/job"
)

type MockQuizService struct {
	OnGenerate   func(ctx context.Context, sessionId string, count int) ([]quizModel.Question, error)
	OnRegenerate func(ctx context.Context, sessionId string, count int, weaknesses []string) ([]quizModel.Question, error)
	OnEvaluate   func(ctx context.Context, sessionId string, answers []quizModel.AnswerSubmission) (quizModel.EvaluationResult, error)
}

func (m *MockQuizService) GenerateQuestions(ctx context.Context, sessionId string, count int) ([]quizModel.Question, error) {
	return m.OnGenerate(ctx, sessionId, count)
}

func (m *MockQuizService) RegenerateTailoredQuestions(ctx context.Context, sessionId string, count int, weaknesses []string) ([]quizModel.Question, error) {
	return m.OnRegenerate(ctx, sessionId, count, weaknesses)
}

func (m *MockQuizService) EvaluateAnswers(ctx context.Context, sessionId string, answers []quizModel.AnswerSubmission) (quizModel.EvaluationResult, error) {
	return m.OnEvaluate(ctx, sessionId, answers)
}

func questions(n int) []quizModel.Question {
	out := make([]quizModel.Question, n)
	for i := range out {
		out[i] = quizModel.Question{Id: i + 1, Text: fmt.Sprintf("Question %d?", i+1), Category: "Definition"}
	}
	return out
}

func postJSON(t *testing.T, h http.HandlerFunc, body string, sessionId string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if sessionId != "" {
		req = req.WithContext(WithSession(req.Context(), sessionId))
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestHello(t *testing.T) {
	rec := httptest.NewRecorder()
	Hello(rec, httptest.NewRequest(http.MethodGet, "/hello", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Hello World") {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestGenerateQuestions(t *testing.T) {
	var gotSession string
	svc := &MockQuizService{
		OnGenerate: func(ctx context.Context, sessionId string, count int) ([]quizModel.Question, error) {
			gotSession = sessionId
			if count > 50 {
				return nil, fmt.Errorf("%w: %d", quizModel.ErrQuestionCountTooLarge, count)
			}
			return questions(count), nil
		},
	}
	h := NewQuizHandler(svc)

	tests := []struct {
		name     string
		body     string
		session  string
		wantCode int
		wantLen  int
	}{
		{"ok", `{"questionCount": 3}`, "alice", http.StatusOK, 3},
		{"default session", `{"questionCount": 1}`, "", http.StatusOK, 1},
		{"malformed", `{"questionCount": "three"`, "", http.StatusBadRequest, 0},
		{"too many", `{"questionCount": 51}`, "", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h.GenerateQuestions, tt.body, tt.session)
			if rec.Code != tt.wantCode {
				t.Fatalf("code got %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				var e api.ErrorResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil || e.Error.Code != tt.wantCode {
					t.Errorf("error body got %s", rec.Body.String())
				}
				return
			}
			var res api.QuestionsResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
				t.Fatal(err)
			}
			if len(res.Questions) != tt.wantLen {
				t.Errorf("questions got %d, want %d", len(res.Questions), tt.wantLen)
			}
			wantSession := tt.session
			if wantSession == "" {
				wantSession = "default"
			}
			if gotSession != wantSession {
				t.Errorf("session got %q, want %q", gotSession, wantSession)
			}
		})
	}
}

func TestRegenerateTailoredQuestions_PassesWeaknesses(t *testing.T) {
	var got []string
	svc := &MockQuizService{
		OnRegenerate: func(ctx context.Context, sessionId string, count int, weaknesses []string) ([]quizModel.Question, error) {
			got = weaknesses
			return questions(count), nil
		},
	}
	rec := postJSON(t, NewQuizHandler(svc).RegenerateTailoredQuestions, `{"questionCount": 2, "weaknesses": ["Chemistry"]}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d", rec.Code)
	}
	if len(got) != 1 || got[0] != "Chemistry" {
		t.Errorf("weaknesses got %v", got)
	}
}

func TestSubmitAnswers(t *testing.T) {
	svc := &MockQuizService{
		OnEvaluate: func(ctx context.Context, sessionId string, answers []quizModel.AnswerSubmission) (quizModel.EvaluationResult, error) {
			for _, a := range answers {
				if a.Id > 2 {
					return quizModel.EvaluationResult{}, fmt.Errorf("%w: %d", quizModel.ErrUnknownQuestionID, a.Id)
				}
			}
			return quizModel.EvaluationResult{
				Strengths:  []string{"Biology"},
				Weaknesses: []string{"None identified"},
				Scores:     []quizModel.Score{{Id: 1, Value: 4}},
			}, nil
		},
	}
	h := NewQuizHandler(svc)

	rec := postJSON(t, h.SubmitAnswers, `{"answers": [{"id": 1, "text": "light"}]}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d", rec.Code)
	}
	var res api.EvaluationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Scores) != 1 || res.Scores[0].Score != 4 || res.Strengths[0] != "Biology" {
		t.Errorf("unexpected body %+v", res)
	}

	rec = postJSON(t, h.SubmitAnswers, `{"answers": [{"id": 9, "text": "?"}]}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown id should be 400, got %d", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", quizModel.ErrDuplicateAnswerID), http.StatusBadRequest},
		{quizModel.ErrUnsupportedContentType, http.StatusBadRequest},
		{job.ErrJobNotFound, http.StatusNotFound},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{fmt.Errorf("redis down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

// upload tests ----------------------

func newJobHandler(t *testing.T, reply func(j jobModel.Job) (jobModel.Job, bool)) (*JobHandler, *job.Service) {
	t.Helper()
	svc := job.InitJobService(job.ServiceConfig{
		JobChannel:        make(chan jobModel.Job, 4),
		DispatcherChannel: make(chan bool, 4),
		JobStore:          store.InitInMemoryJobStore(),
	})
	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })
	go func() {
		for {
			select {
			case j := <-svc.JobChannel:
				if done, ok := reply(j); ok {
					j.Result <- done
				}
			case <-stop:
				return
			}
		}
	}()
	return NewJobHandler(svc, t.TempDir()), svc
}

func uploadRequest(t *testing.T, contentType string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="notes.pdf"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(content)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/uploadFile", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadFile_RejectsNonPDF(t *testing.T) {
	h, _ := newJobHandler(t, func(j jobModel.Job) (jobModel.Job, bool) { return j, true })
	rec := httptest.NewRecorder()
	h.UploadFile(rec, uploadRequest(t, "text/plain", []byte("hello")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d", rec.Code)
	}
}

func TestUploadFile_MissingFile(t *testing.T) {
	h, _ := newJobHandler(t, func(j jobModel.Job) (jobModel.Job, bool) { return j, true })
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("other", "x")
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/uploadFile", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	h.UploadFile(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d", rec.Code)
	}
}

func TestUploadFile_Success(t *testing.T) {
	h, _ := newJobHandler(t, func(j jobModel.Job) (jobModel.Job, bool) {
		j.CurrentStep = jobModel.Complete
		j.JobPayload.IndexBuilt = true
		j.JobPayload.ChunkCount = 7
		return j, true
	})
	rec := httptest.NewRecorder()
	h.UploadFile(rec, uploadRequest(t, "application/pdf", []byte("%PDF-1.4")))

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	var res api.UploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Status != api.UploadStatusSuccess || res.Chunks != 7 || !strings.HasSuffix(res.Path, res.JobId+".pdf") {
		t.Errorf("unexpected body %+v", res)
	}
}

func TestUploadFile_IngestFailure(t *testing.T) {
	h, _ := newJobHandler(t, func(j jobModel.Job) (jobModel.Job, bool) {
		j.CurrentStep = jobModel.Error
		j.Error = jobModel.JobError{Code: http.StatusUnprocessableEntity, Message: "Error extracting document content"}
		return j, true
	})
	rec := httptest.NewRecorder()
	h.UploadFile(rec, uploadRequest(t, "application/pdf", []byte("garbage")))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("got %d", rec.Code)
	}
}

func TestUploadFile_SlowIngestAnswers202(t *testing.T) {
	h, svc := newJobHandler(t, func(j jobModel.Job) (jobModel.Job, bool) { return j, false })
	h.waitTimeout = 20 * time.Millisecond

	rec := httptest.NewRecorder()
	h.UploadFile(rec, uploadRequest(t, "application/pdf", []byte("%PDF-1.4")))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("got %d", rec.Code)
	}
	var res api.UploadResponse
	json.Unmarshal(rec.Body.Bytes(), &res)
	if res.Status != api.UploadStatusProcessing {
		t.Errorf("status got %q", res.Status)
	}
	if _, err := svc.Status(context.Background(), res.JobId); err != nil {
		t.Errorf("queued job should be visible: %v", err)
	}
}

func TestGetStatusHandler(t *testing.T) {
	h, svc := newJobHandler(t, func(j jobModel.Job) (jobModel.Job, bool) { return j, false })
	svc.JobStore.SaveJob(context.Background(), jobModel.Job{Id: "abc", JobType: jobModel.JobTypeIngest, Status: jobModel.JobStatusComplete})

	r := chi.NewRouter()
	r.Get("/status/{id}", h.GetStatusHandler)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status/abc", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"COMPLETE"`) {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing job got %d", rec.Code)
	}
}
