package adapter

import (
	"github.com/spevenexe/S25-NLP-project/internal/api"
	"github.com/spevenexe/S25-NLP-project/internal/domain/quizModel"
)

// ToQuestionsResponse drops dialogues and outcomes, which stay server side.
func ToQuestionsResponse(questions []quizModel.Question) api.QuestionsResponse {
	out := make([]api.QuestionDTO, len(questions))
	for i, q := range questions {
		out[i] = api.QuestionDTO{Id: q.Id, Text: q.Text, Category: q.Category}
	}
	return api.QuestionsResponse{Questions: out}
}

func ToAnswerSubmissions(answers []api.AnswerDTO) []quizModel.AnswerSubmission {
	out := make([]quizModel.AnswerSubmission, len(answers))
	for i, a := range answers {
		out[i] = quizModel.AnswerSubmission{Id: a.Id, Text: a.Text}
	}
	return out
}

func ToEvaluationResponse(result quizModel.EvaluationResult) api.EvaluationResponse {
	scores := make([]api.ScoreDTO, len(result.Scores))
	for i, s := range result.Scores {
		scores[i] = api.ScoreDTO{Id: s.Id, Score: s.Value}
	}
	return api.EvaluationResponse{
		Strengths:  nonNil(result.Strengths),
		Weaknesses: nonNil(result.Weaknesses),
		Scores:     scores,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
