package quizModel

import (
	"context"
	"time"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Dialogue is an append-only conversation. Append never touches the receiver's backing array,
// so a stored dialogue can be continued by several evaluations without interference.
type Dialogue []Turn

func NewDialogue(systemPrompt string) Dialogue {
	if systemPrompt == "" {
		return Dialogue{}
	}
	return Dialogue{{Role: RoleSystem, Content: systemPrompt}}
}

func (d Dialogue) Append(role Role, content string) Dialogue {
	next := make(Dialogue, len(d), len(d)+1)
	copy(next, d)
	return append(next, Turn{Role: role, Content: content})
}

// LastContent is the content of the final turn, empty for an empty dialogue.
func (d Dialogue) LastContent() string {
	if len(d) == 0 {
		return ""
	}
	return d[len(d)-1].Content
}

// Outcome tells how a question or a score was produced.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFallback Outcome = "fallback"
	OutcomeFatal    Outcome = "fatal"
)

type Question struct {
	Id       int      `json:"id"`
	Text     string   `json:"text"`
	Category string   `json:"category"`
	Dialogue Dialogue `json:"dialogue,omitempty"`
	Outcome  Outcome  `json:"outcome"`
}

// Batch is the latest set of questions handed to a session.
type Batch struct {
	Id        string     `json:"id"`
	SessionId string     `json:"session_id"`
	CreatedAt time.Time  `json:"created_at"`
	Questions []Question `json:"questions"`
}

func (b *Batch) Lookup(id int) (Question, bool) {
	if b == nil {
		return Question{}, false
	}
	for _, q := range b.Questions {
		if q.Id == id {
			return q, true
		}
	}
	return Question{}, false
}

type AnswerSubmission struct {
	Id   int    `json:"id"`
	Text string `json:"text"`
}

type Score struct {
	Id    int     `json:"id"`
	Value float64 `json:"score"`
}

type CategoryStat struct {
	Scores []float64
	Total  float64
}

func (c CategoryStat) Add(score float64) CategoryStat {
	scores := make([]float64, len(c.Scores), len(c.Scores)+1)
	copy(scores, c.Scores)
	return CategoryStat{Scores: append(scores, score), Total: c.Total + score}
}

func (c CategoryStat) Average() float64 {
	if len(c.Scores) == 0 {
		return 0
	}
	return c.Total / float64(len(c.Scores))
}

// AnswerReport records how one answer was scored. It is not part of the HTTP response.
type AnswerReport struct {
	Id       int     `json:"id"`
	Category string  `json:"category"`
	Outcome  Outcome `json:"outcome"`
	Reason   string  `json:"reason,omitempty"`
}

type EvaluationResult struct {
	Strengths  []string       `json:"strengths"`
	Weaknesses []string       `json:"weaknesses"`
	Scores     []Score        `json:"scores"`
	Report     []AnswerReport `json:"-"`
	Random     bool           `json:"-"`
}

// BatchStore keeps the latest batch per session.
type BatchStore interface {
	GetBatch(ctx context.Context, sessionId string) (Batch, bool)
	SaveBatch(ctx context.Context, batch Batch) error
	DeleteBatch(ctx context.Context, sessionId string)
}
