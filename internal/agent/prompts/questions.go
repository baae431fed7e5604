package prompts

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
)

//go:embed questions.yaml
var questionsYAML []byte

// QuestionBank holds canned phrasings per field.
type QuestionBank struct {
	byField map[model.Field][]string
}

// ParseQuestionBank decodes a YAML mapping of field key or label to a list
// of phrasings.
func ParseQuestionBank(data []byte) (*QuestionBank, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	qb := &QuestionBank{byField: make(map[model.Field][]string, len(raw))}
	for key, phrasings := range raw {
		f, ok := model.ParseField(key)
		if !ok {
			return nil, fmt.Errorf("question bank: unknown field %q", key)
		}
		for _, p := range phrasings {
			if p = strings.TrimSpace(p); p != "" {
				qb.byField[f] = append(qb.byField[f], p)
			}
		}
	}
	return qb, nil
}

// DefaultQuestionBank returns the embedded bank.
func DefaultQuestionBank() *QuestionBank {
	qb, err := ParseQuestionBank(questionsYAML)
	if err != nil {
		panic(err)
	}
	return qb
}

// Ask returns a random phrasing for f, or a generic question when the bank
// has none. A nil rng uses the global source.
func (qb *QuestionBank) Ask(f model.Field, rng *rand.Rand) string {
	var options []string
	if qb != nil {
		options = qb.byField[f]
	}
	if len(options) == 0 {
		return fmt.Sprintf("Could you tell me about your %s?", strings.ToLower(f.Label()))
	}
	if rng == nil {
		return options[rand.IntN(len(options))]
	}
	return options[rng.IntN(len(options))]
}

// Phrasings returns a copy of the phrasings for f.
func (qb *QuestionBank) Phrasings(f model.Field) []string {
	return append([]string(nil), qb.byField[f]...)
}
