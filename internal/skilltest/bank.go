package skilltest

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"
)

//go:embed questions.yaml
var defaultQuestions []byte

// Test metadata shared by every skill.
const (
	QuestionsPerTest = 10
	TimeLimitSeconds = 300
	PassingScore     = 70
)

var ErrUnknownSkill = errors.New("no test available for this skill")

// Question is a bank entry. Answer is the index of the correct option and ID is the
// question's position within its skill.
type Question struct {
	ID         int      `yaml:"-" json:"bankId"`
	Text       string   `yaml:"text" json:"question"`
	Options    []string `yaml:"options" json:"options"`
	Answer     int      `yaml:"answer" json:"correctAnswer"`
	Difficulty string   `yaml:"difficulty" json:"difficulty"`
}

type bankFile struct {
	Skills []struct {
		Name      string     `yaml:"name"`
		Questions []Question `yaml:"questions"`
	} `yaml:"skills"`
}

// Bank is the read-only question bank, keyed by skill name.
type Bank struct {
	skills    []string
	questions map[string][]Question
}

// LoadBank parses a YAML question bank.
func LoadBank(data []byte) (*Bank, error) {
	var file bankFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}

	b := &Bank{questions: make(map[string][]Question, len(file.Skills))}
	for _, s := range file.Skills {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, errors.New("question bank: skill without a name")
		}
		if _, dup := b.questions[name]; dup {
			return nil, fmt.Errorf("question bank: duplicate skill %q", name)
		}
		for i := range s.Questions {
			q := &s.Questions[i]
			if q.Answer < 0 || q.Answer >= len(q.Options) {
				return nil, fmt.Errorf("question bank: %s question %d has answer %d outside its %d options", name, i, q.Answer, len(q.Options))
			}
			q.ID = i
		}
		b.skills = append(b.skills, name)
		b.questions[name] = s.Questions
	}
	return b, nil
}

// DefaultBank returns the embedded question bank.
func DefaultBank() (*Bank, error) {
	return LoadBank(defaultQuestions)
}

// Skills lists skills in bank order.
func (b *Bank) Skills() []string {
	out := make([]string, len(b.skills))
	copy(out, b.skills)
	return out
}

func (b *Bank) Has(skill string) bool {
	_, ok := b.questions[skill]
	return ok
}

// Questions returns a copy of the skill's questions.
func (b *Bank) Questions(skill string) ([]Question, error) {
	qs, ok := b.questions[skill]
	if !ok {
		return nil, ErrUnknownSkill
	}
	out := make([]Question, len(qs))
	copy(out, qs)
	return out, nil
}

// Question looks up a single question by its bank ID.
func (b *Bank) Question(skill string, id int) (Question, error) {
	qs, ok := b.questions[skill]
	if !ok {
		return Question{}, ErrUnknownSkill
	}
	if id < 0 || id >= len(qs) {
		return Question{}, fmt.Errorf("%s has no question %d", skill, id)
	}
	return qs[id], nil
}
