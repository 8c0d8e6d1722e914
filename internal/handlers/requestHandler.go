package handlers

import (
	"net/http"

	"github.com/spevenexe/S25-NLP-project/internal/adapter"
	"github.com/spevenexe/S25-NLP-project/internal/api"
	"github.com/spevenexe/S25-NLP-project/internal/quiz"
)

type QuizHandler struct {
	quiz quiz.Service
}

func NewQuizHandler(quizService quiz.Service) *QuizHandler {
	return &QuizHandler{quiz: quizService}
}

// Hello godoc
// @Summary      Liveness check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.HelloResponse
// @Router       /hello [get]
func Hello(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.HelloResponse{Message: "Hello World"})
}

// GenerateQuestions godoc
// @Summary      Generate quiz questions
// @Description  Samples passages of the session's document and asks the model for one question per passage. Falls back to template questions when no document or model is available.
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        X-Session-Id  header    string                        false  "Session key, defaults to \"default\""
// @Param        request       body      api.GenerateQuestionsRequest  true   "Number of questions"
// @Success      200           {object}  api.QuestionsResponse
// @Failure      400           {object}  api.ErrorResponse  "Malformed body or questionCount too large"
// @Failure      500           {object}  api.ErrorResponse
// @Router       /generateQuestions [post]
func (h *QuizHandler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var req api.GenerateQuestionsRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Bad Request: "+err.Error())
		return
	}

	questions, err := h.quiz.GenerateQuestions(r.Context(), sessionFrom(r.Context()), req.QuestionCount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToQuestionsResponse(questions))
}

// RegenerateTailoredQuestions godoc
// @Summary      Generate questions focused on weak topics
// @Description  Same as generateQuestions but steers each question toward one of the given weaknesses.
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        X-Session-Id  header    string                 false  "Session key, defaults to \"default\""
// @Param        request       body      api.RegenerateRequest  true   "Number of questions and topics to focus on"
// @Success      200           {object}  api.QuestionsResponse
// @Failure      400           {object}  api.ErrorResponse
// @Failure      500           {object}  api.ErrorResponse
// @Router       /regenerateTailoredQuestions [post]
func (h *QuizHandler) RegenerateTailoredQuestions(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var req api.RegenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Bad Request: "+err.Error())
		return
	}

	questions, err := h.quiz.RegenerateTailoredQuestions(r.Context(), sessionFrom(r.Context()), req.QuestionCount, req.Weaknesses)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToQuestionsResponse(questions))
}

// SubmitAnswers godoc
// @Summary      Score answers
// @Description  Scores each answer from 0 to 5 against the last generated batch and groups the results into strengths and weaknesses.
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        X-Session-Id  header    string                    false  "Session key, defaults to \"default\""
// @Param        request       body      api.SubmitAnswersRequest  true   "Answers keyed by question id"
// @Success      200           {object}  api.EvaluationResponse
// @Failure      400           {object}  api.ErrorResponse  "Unknown or duplicate question id"
// @Failure      500           {object}  api.ErrorResponse
// @Router       /submitAnswers [post]
func (h *QuizHandler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var req api.SubmitAnswersRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Bad Request: "+err.Error())
		return
	}

	result, err := h.quiz.EvaluateAnswers(r.Context(), sessionFrom(r.Context()), adapter.ToAnswerSubmissions(req.Answers))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToEvaluationResponse(result))
}
