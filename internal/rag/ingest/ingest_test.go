package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spevenexe/S25-NLP-project/internal/domain/jobModel"
	"github.com/spevenexe/S25-NLP-project/internal/rag/embedding/localEmbedding"
	"github.com/spevenexe/S25-NLP-project/internal/rag/vectorDB/memoryDB"
	"github.com/spevenexe/S25-NLP-project/internal/session"
)

type failingEmbedder struct{}

func (failingEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return nil, errors.New("quota exhausted")
}

func (failingEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	return nil, errors.New("quota exhausted")
}

func newTestService(t *testing.T, pages []rawPage, extractErr error) (*service, *session.Manager, *memoryDB.Storage) {
	t.Helper()
	sessions := session.NewManager(time.Hour)
	store := memoryDB.NewStorage()
	svc := NewService(sessions, store, localEmbedding.NewEmbedder(64)).(*service)
	svc.extract = func(path string) ([]rawPage, error) {
		return pages, extractErr
	}
	return svc, sessions, store
}

func ingestJob(id, sessionId string) jobModel.Job {
	return jobModel.Job{
		Id:         id,
		SessionId:  sessionId,
		JobType:    jobModel.JobTypeIngest,
		JobPayload: jobModel.JobPayload{IngestFileName: "notes.pdf", IngestURL: "/tmp/" + id + ".pdf"},
	}
}

func TestIngestDocument_BuildsIndex(t *testing.T) {
	pages := []rawPage{
		{Number: 1, Content: strings.Repeat("Photosynthesis converts light into chemical energy. ", 40)},
		{Number: 2, Content: "Chlorophyll absorbs red and blue light."},
	}
	svc, sessions, store := newTestService(t, pages, nil)

	got := svc.IngestDocument(context.Background(), ingestJob("job-1", "alice"))

	if got.CurrentStep != jobModel.Complete {
		t.Fatalf("expected complete step, got %s (%+v)", got.CurrentStep, got.Error)
	}
	if got.JobPayload.PageCount != 2 || got.JobPayload.ChunkCount < 2 || !got.JobPayload.IndexBuilt {
		t.Errorf("unexpected payload %+v", got.JobPayload)
	}

	sess := sessions.Get("alice")
	if sess.Index() == nil || sess.Index().Len() != got.JobPayload.ChunkCount {
		t.Fatal("session index not installed")
	}
	if doc := sess.Document(); doc == nil || !strings.Contains(doc.Text, "Chlorophyll") || doc.Name != "notes.pdf" {
		t.Errorf("session document not set: %+v", doc)
	}
	if store.CollectionCount() != 1 {
		t.Errorf("expected one collection, got %d", store.CollectionCount())
	}
}

func TestIngestDocument_ReplacesPreviousIndex(t *testing.T) {
	pages := []rawPage{{Number: 1, Content: "Mitochondria produce ATP for the cell."}}
	svc, sessions, store := newTestService(t, pages, nil)
	ctx := context.Background()

	svc.IngestDocument(ctx, ingestJob("job-1", "bob"))
	first := sessions.Get("bob").Index()
	svc.IngestDocument(ctx, ingestJob("job-2", "bob"))
	second := sessions.Get("bob").Index()

	if first == nil || second == nil || first.Collection() == second.Collection() {
		t.Fatal("second upload should install a fresh collection")
	}
	if store.CollectionCount() != 1 {
		t.Errorf("old collection should be dropped, have %d", store.CollectionCount())
	}
}

func TestIngestDocument_EmptyDocument(t *testing.T) {
	svc, sessions, _ := newTestService(t, nil, nil)

	got := svc.IngestDocument(context.Background(), ingestJob("job-1", "carol"))

	if got.CurrentStep != jobModel.Complete || got.JobPayload.IndexBuilt {
		t.Errorf("empty document should complete without an index: %+v", got)
	}
	sess := sessions.Get("carol")
	if sess.Index() != nil {
		t.Error("index should be absent")
	}
	if sess.Document() == nil {
		t.Error("document should still be recorded")
	}
}

func TestIngestDocument_EmbeddingFailureKeepsDocument(t *testing.T) {
	sessions := session.NewManager(time.Hour)
	store := memoryDB.NewStorage()
	svc := NewService(sessions, store, failingEmbedder{}).(*service)
	svc.extract = func(path string) ([]rawPage, error) {
		return []rawPage{{Number: 1, Content: "Some text worth quizzing on."}}, nil
	}

	got := svc.IngestDocument(context.Background(), ingestJob("job-1", "dave"))

	if got.CurrentStep != jobModel.Complete {
		t.Fatalf("embedding failure should not fail the job, got %s", got.CurrentStep)
	}
	if got.JobPayload.IndexBuilt || !strings.HasPrefix(got.JobPayload.StatusDetail, "fallback mode") {
		t.Errorf("unexpected payload %+v", got.JobPayload)
	}
	if sessions.Get("dave").Index() != nil {
		t.Error("index should be absent after embedding failure")
	}
	if store.CollectionCount() != 0 {
		t.Errorf("no collection should survive, have %d", store.CollectionCount())
	}
}

func TestIngestDocument_ExtractError(t *testing.T) {
	svc, sessions, _ := newTestService(t, nil, errors.New("not a pdf"))

	got := svc.IngestDocument(context.Background(), ingestJob("job-1", "erin"))

	if got.CurrentStep != jobModel.Error || got.Error.Code != 422 {
		t.Errorf("expected extraction error, got %s %+v", got.CurrentStep, got.Error)
	}
	if sessions.Get("erin").Document() != nil {
		t.Error("failed extraction should not touch the session")
	}
}

func TestJoinPages(t *testing.T) {
	got := joinPages([]rawPage{{Content: " one \n"}, {Content: "two"}})
	if got != "one\n\ntwo" {
		t.Errorf("got %q", got)
	}
}

func TestDocType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.pdf", "PDF"},
		{"A.PDF", "PDF"},
		{"notes.docx", "ERROR"},
	}
	for _, tt := range tests {
		if got := docType(tt.path); string(got) != tt.want {
			t.Errorf("docType(%s) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	ok := jobModel.Job{CurrentStep: jobModel.Complete, JobPayload: jobModel.JobPayload{IndexBuilt: true, ChunkCount: 4}}
	if !strings.Contains(Describe(ok), "4 chunks") {
		t.Errorf("got %q", Describe(ok))
	}
	failed := jobModel.Job{CurrentStep: jobModel.Error, Error: jobModel.JobError{Message: "bad"}}
	if !strings.Contains(Describe(failed), "bad") {
		t.Errorf("got %q", Describe(failed))
	}
}
