package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"

	UploadStatusSuccess    = "success"
	UploadStatusProcessing = "processing"
	UploadStatusError      = "error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	SessionId string            `json:"session_id" example:"default"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type IngestResult struct {
	FileName     string `json:"file_name" example:"lecture-3.pdf"`
	PageCount    int    `json:"page_count" example:"12"`
	ChunkCount   int    `json:"chunk_count" example:"48"`
	IndexBuilt   bool   `json:"index_built" example:"true"`
	StatusDetail string `json:"status_detail,omitempty"`
}

type Result struct {
	Status       string        `json:"status"`
	CurrentStep  string        `json:"current_step"`
	IngestResult *IngestResult `json:"ingest_result,omitempty"`
}

// ErrorResponse is the body of every 4xx and 5xx answer.
type ErrorResponse struct {
	Error JobOutgoingError `json:"error"`
}

type UploadResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"File processed: 48 chunks indexed"`
	Path    string `json:"path" example:"uploads/2f1c0d9e-8a43-4a8e-9d7e-3f3a8a0b6c11.pdf"`
	JobId   string `json:"jobId" example:"6b0f1c2e-6a7b-4c5d-8e9f-0a1b2c3d4e5f"`
	Chunks  int    `json:"chunks" example:"48"`
}

type QuestionDTO struct {
	Id       int    `json:"id" example:"1"`
	Text     string `json:"text" example:"What role does chlorophyll play in photosynthesis?"`
	Category string `json:"category" example:"Definition"`
}

type QuestionsResponse struct {
	Questions []QuestionDTO `json:"questions"`
}

type ScoreDTO struct {
	Id    int     `json:"id" example:"1"`
	Score float64 `json:"score" example:"4"`
}

type EvaluationResponse struct {
	Strengths  []string   `json:"strengths" example:"Biology"`
	Weaknesses []string   `json:"weaknesses" example:"Chemistry"`
	Scores     []ScoreDTO `json:"scores"`
}

type HelloResponse struct {
	Message string `json:"message" example:"Hello World"`
}

// requests---------------------

type GenerateQuestionsRequest struct {
	QuestionCount int `json:"questionCount" example:"5"`
}

type RegenerateRequest struct {
	QuestionCount int      `json:"questionCount" example:"5"`
	Weaknesses    []string `json:"weaknesses" example:"Chemistry"`
}

type AnswerDTO struct {
	Id   int    `json:"id" example:"1"`
	Text string `json:"text" example:"It absorbs light energy."`
}

type SubmitAnswersRequest struct {
	Answers []AnswerDTO `json:"answers"`
}
