package skilltest

import (
	"math/rand"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func testBank(t *testing.T) *Bank {
	t.Helper()
	bank, err := DefaultBank()
	require.NoError(t, err)
	return bank
}

func TestDefaultBank_Skills(t *testing.T) {
	bank := testBank(t)

	assert.Equal(t, []string{"Web Development", "Cooking", "Mobile App Development", "Photography", "Machine Learning"}, bank.Skills())
	for _, skill := range bank.Skills() {
		qs, err := bank.Questions(skill)
		require.NoError(t, err)
		assert.Len(t, qs, 10, skill)
	}
	assert.True(t, bank.Has("Cooking"))
	assert.False(t, bank.Has("Knitting"))
}

func TestLoadBank_RejectsAnswerOutOfRange(t *testing.T) {
	_, err := LoadBank([]byte(`
skills:
  - name: "Broken"
    questions:
      - text: "q"
        options: ["a", "b"]
        answer: 2
        difficulty: easy
`))
	assert.Error(t, err)
}

func TestEngine_SelectCountAndUnknownSkill(t *testing.T) {
	engine := NewEngine(testBank(t), rand.New(rand.NewSource(1)))

	qs, err := engine.Select("Photography")
	require.NoError(t, err)
	assert.Len(t, qs, QuestionsPerTest)

	_, err = engine.Select("Knitting")
	assert.ErrorIs(t, err, ErrUnknownSkill)
}

func TestEngine_SelectSmallBankReturnsAll(t *testing.T) {
	bank, err := LoadBank([]byte(`
skills:
  - name: "Tiny"
    questions:
      - {text: "one", options: ["a", "b"], answer: 0, difficulty: easy}
      - {text: "two", options: ["a", "b"], answer: 1, difficulty: easy}
      - {text: "three", options: ["a", "b"], answer: 1, difficulty: hard}
`))
	require.NoError(t, err)

	qs, err := NewEngine(bank, rand.New(rand.NewSource(7))).Select("Tiny")
	require.NoError(t, err)
	assert.Len(t, qs, 3)
}

func TestEngine_SeededSelectionIsDeterministic(t *testing.T) {
	bank := testBank(t)
	a, err := NewEngine(bank, rand.New(rand.NewSource(42))).Select("Cooking")
	require.NoError(t, err)
	b, err := NewEngine(bank, rand.New(rand.NewSource(42))).Select("Cooking")
	require.NoError(t, err)

	assert.Equal(t, a, b)

	// the bank itself is never reordered
	original, _ := bank.Questions("Cooking")
	again, _ := bank.Questions("Cooking")
	assert.Equal(t, original, again)
}

func TestEngine_StartStampsSession(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	engine := NewEngine(testBank(t), rand.New(rand.NewSource(3))).WithClock(func() time.Time { return now })

	sess, err := engine.Start("Machine Learning")
	require.NoError(t, err)

	assert.Equal(t, "Machine Learning", sess.Skill)
	assert.Equal(t, now, sess.StartTime)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), sess.ID)
	assert.Equal(t, now.Add(6*time.Minute), Deadline(sess, time.Minute))
}

func TestClientQuestions_HidesAnswers(t *testing.T) {
	qs := []Question{
		{Text: "a", Options: []string{"x", "y"}, Answer: 1, Difficulty: "easy"},
		{Text: "b", Options: []string{"x", "y"}, Answer: 0, Difficulty: "hard"},
	}
	out := ClientQuestions(qs)

	require.Len(t, out, 2)
	assert.Equal(t, ClientQuestion{ID: 0, Question: "a", Options: []string{"x", "y"}, Difficulty: "easy"}, out[0])
	assert.Equal(t, 1, out[1].ID)
}

func sessionWithAnswers(answers ...int) *Session {
	s := &Session{ID: "s", Skill: "Cooking"}
	for _, a := range answers {
		s.Questions = append(s.Questions, Question{Text: "q", Options: []string{"a", "b", "c", "d"}, Answer: a})
	}
	return s
}

func TestGradeSession(t *testing.T) {
	sess := sessionWithAnswers(0, 1, 2, 3, 0, 1, 2, 3, 0, 1)

	t.Run("eight of ten passes", func(t *testing.T) {
		answers := []*int{intPtr(0), intPtr(1), intPtr(2), intPtr(3), intPtr(0), intPtr(1), intPtr(2), intPtr(3), intPtr(3), intPtr(3)}
		g := GradeSession(sess, answers)
		assert.Equal(t, 8, g.Correct)
		assert.Equal(t, 10, g.Total)
		assert.Equal(t, 80, g.Score)
		assert.True(t, g.Passed)
		assert.False(t, g.Results[8].IsCorrect)
		assert.Equal(t, 0, g.Results[8].CorrectAnswer)
		assert.Equal(t, 3, *g.Results[8].UserAnswer)
	})

	t.Run("seven of ten passes at threshold", func(t *testing.T) {
		answers := []*int{intPtr(0), intPtr(1), intPtr(2), intPtr(3), intPtr(0), intPtr(1), intPtr(2)}
		g := GradeSession(sess, answers)
		assert.Equal(t, 70, g.Score)
		assert.True(t, g.Passed)
		assert.Nil(t, g.Results[9].UserAnswer)
	})

	t.Run("nil and negative are unanswered", func(t *testing.T) {
		answers := []*int{nil, intPtr(-1), intPtr(2)}
		g := GradeSession(sess, answers)
		assert.Equal(t, 1, g.Correct)
		assert.Equal(t, 10, g.Score)
		assert.False(t, g.Passed)
		assert.Nil(t, g.Results[0].UserAnswer)
		assert.Nil(t, g.Results[1].UserAnswer)
	})

	t.Run("same inputs same grade", func(t *testing.T) {
		answers := []*int{intPtr(0), intPtr(0)}
		assert.Equal(t, GradeSession(sess, answers), GradeSession(sess, answers))
	})
}

func TestScore_Rounding(t *testing.T) {
	assert.Equal(t, 67, Score(2, 3))
	assert.Equal(t, 33, Score(1, 3))
	assert.Equal(t, 100, Score(3, 3))
	assert.Equal(t, 0, Score(0, 0))
	assert.Equal(t, 70, Score(7, 10))
}

func TestNewCertificateID(t *testing.T) {
	a, err := NewCertificateID()
	require.NoError(t, err)
	b, err := NewCertificateID()
	require.NoError(t, err)

	assert.Regexp(t, `^[0-9a-f]{32}$`, a)
	assert.NotEqual(t, a, b)
}
