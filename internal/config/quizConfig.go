package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// Category is a question category and the instruction used to generate it.
type Category struct {
	Name   string `yaml:"name"`
	Prompt string `yaml:"prompt"`
}

// Prompts holds the prompt templates. Placeholders are written as {name}.
type Prompts struct {
	System          string `yaml:"system"`
	EvaluatorSystem string `yaml:"evaluator_system"`
	Excerpt         string `yaml:"excerpt"`
	TailoredExcerpt string `yaml:"tailored_excerpt"`
	Evaluation      string `yaml:"evaluation"`
	GroundedContext string `yaml:"grounded_context"`
	Topic           string `yaml:"topic"`
	KnownTopics     string `yaml:"known_topics"`
}

// QuizConfig is the content side of the quiz: categories, prompts and fallback material.
type QuizConfig struct {
	Categories       []Category `yaml:"categories"`
	Prompts          Prompts    `yaml:"prompts"`
	FallbackStems    []string   `yaml:"fallback_stems"`
	FallbackTopics   []string   `yaml:"fallback_topics"`
	PlaceholderLabel string     `yaml:"placeholder_label"`
	RandomStrengths  []string   `yaml:"random_strengths"`
	RandomWeaknesses []string   `yaml:"random_weaknesses"`
}

// LoadQuizConfig reads the quiz file at path. A missing file yields the built-in defaults,
// and any field left empty in the file is filled from them.
func LoadQuizConfig(path string) (*QuizConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultQuizConfig(), nil
		}
		return nil, err
	}
	var cfg QuizConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyQuizDefaults(&cfg)
	return &cfg, nil
}

func (c *QuizConfig) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		names = append(names, cat.Name)
	}
	return names
}

// CategoryPrompt returns the instruction for a category, or a generic one for unknown names.
func (c *QuizConfig) CategoryPrompt(name string) string {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat.Prompt
		}
	}
	return "Generate a question about this excerpt"
}

func DefaultQuizConfig() *QuizConfig {
	return &QuizConfig{
		Categories: []Category{
			{Name: "Explain Concept", Prompt: "Generate a question asking to explain a concept from this excerpt"},
			{Name: "Definition", Prompt: "Generate a question asking for a definition from this excerpt"},
			{Name: "Application", Prompt: "Generate a question about applying concepts from this excerpt"},
			{Name: "Compare/Contrast", Prompt: "Generate a question comparing or contrasting ideas from this excerpt"},
		},
		Prompts: Prompts{
			System:          "You are a helpful chatbot who generates flashcard-like quiz questions.",
			EvaluatorSystem: "You are a careful examiner who grades short study answers against the provided material.",
			Excerpt: "Consider the following excerpt, which is surrounded by lines of \"###\":\n###\n{excerpt}\n###\n" +
				"{instruction}. Do not print anything else. Do not mention the excerpt, the text, or the author. " +
				"The question should be standalone.",
			TailoredExcerpt: "Consider the following excerpt, which is surrounded by lines of \"###\":\n###\n{excerpt}\n###\n" +
				"{instruction}. The question should be focused on one of the listed topics:\n{topics}\n" +
				"Do not print anything else. Do not mention the excerpt, the text, or the author. " +
				"The question should be standalone.",
			Evaluation: "This is my answer:\n{answer}\n\n" +
				"Evaluate the answer on a scale from 0 to 5, where:\n" +
				"0: Completely incorrect or irrelevant\n" +
				"1: Mostly incorrect with minor relevant elements\n" +
				"2: Partially correct but missing key information\n" +
				"3: Mostly correct with minor errors or omissions\n" +
				"4: Correct but could be more comprehensive\n" +
				"5: Completely correct and comprehensive\n\n" +
				"Return only the numeric score.",
			GroundedContext: "Context: {context}\n\nQuestion: {question}",
			Topic:           "What specific field of study would you say this topic is in? {known}Just print the field of study and nothing else.",
			KnownTopics: "This is a list of identified topics:\n{labels}\n" +
				"If the field of study matches one of these, print the element exactly. Otherwise, list its field of study. ",
		},
		FallbackStems: []string{
			"What is the main idea of",
			"Explain the concept of",
			"How does the author describe",
			"What evidence supports",
			"Compare and contrast",
			"Analyze the relationship between",
			"What are the implications of",
			"Describe the significance of",
			"How would you apply the concept of",
			"What conclusions can be drawn about",
		},
		FallbackTopics: []string{
			"the introduction",
			"the methodology",
			"the results section",
			"the discussion",
			"the literature review",
			"the theoretical framework",
			"the case study",
			"the author's argument",
			"the data analysis",
			"the conclusion",
		},
		PlaceholderLabel: "None identified",
		RandomStrengths:  []string{"Biology", "Computer Science"},
		RandomWeaknesses: []string{"Mathematics"},
	}
}

func applyQuizDefaults(cfg *QuizConfig) {
	def := DefaultQuizConfig()
	if len(cfg.Categories) == 0 {
		cfg.Categories = def.Categories
	}
	if len(cfg.FallbackStems) == 0 {
		cfg.FallbackStems = def.FallbackStems
	}
	if len(cfg.FallbackTopics) == 0 {
		cfg.FallbackTopics = def.FallbackTopics
	}
	if cfg.PlaceholderLabel == "" {
		cfg.PlaceholderLabel = def.PlaceholderLabel
	}
	if len(cfg.RandomStrengths) == 0 {
		cfg.RandomStrengths = def.RandomStrengths
	}
	if len(cfg.RandomWeaknesses) == 0 {
		cfg.RandomWeaknesses = def.RandomWeaknesses
	}

	p := &cfg.Prompts
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&p.System, def.Prompts.System)
	fill(&p.EvaluatorSystem, def.Prompts.EvaluatorSystem)
	fill(&p.Excerpt, def.Prompts.Excerpt)
	fill(&p.TailoredExcerpt, def.Prompts.TailoredExcerpt)
	fill(&p.Evaluation, def.Prompts.Evaluation)
	fill(&p.GroundedContext, def.Prompts.GroundedContext)
	fill(&p.Topic, def.Prompts.Topic)
	fill(&p.KnownTopics, def.Prompts.KnownTopics)
}
