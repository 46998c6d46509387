package skilltest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookingBank = `
skills:
  - name: Cooking
    questions:
      - text: Boiling point of water?
        options: ["90", "100"]
        answer: 1
        difficulty: easy
      - text: Knife?
        options: ["chef", "spoon"]
        answer: 0
        difficulty: medium
      - text: Salt?
        options: ["NaCl", "KCl", "H2O"]
        answer: 0
        difficulty: easy
`

func cookingTestBank(t *testing.T) *Bank {
	t.Helper()
	bank, err := LoadBank([]byte(cookingBank))
	require.NoError(t, err)
	return bank
}

// testSession picks the bank's third and first questions, in that order.
func testSession(t *testing.T, bank *Bank, start time.Time) *Session {
	t.Helper()
	qs, err := bank.Questions("Cooking")
	require.NoError(t, err)
	return &Session{
		ID:        "0123456789abcdef0123456789abcdef",
		Skill:     "Cooking",
		StartTime: start,
		Questions: []Question{qs[2], qs[0]},
	}
}

func TestBank_QuestionLookup(t *testing.T) {
	bank := cookingTestBank(t)

	q, err := bank.Question("Cooking", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, q.ID)
	assert.Equal(t, "Knife?", q.Text)

	_, err = bank.Question("Cooking", 3)
	assert.Error(t, err)
	_, err = bank.Question("Cooking", -1)
	assert.Error(t, err)
	_, err = bank.Question("Baking", 0)
	assert.ErrorIs(t, err, ErrUnknownSkill)
}

func TestSignedCodec_RoundTrip(t *testing.T) {
	bank := cookingTestBank(t)
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	codec := NewSignedCodec("secret", bank, time.Minute).WithClock(func() time.Time { return start.Add(2 * time.Minute) })
	ctx := context.Background()

	token, err := codec.Issue(ctx, testSession(t, bank, start))
	require.NoError(t, err)
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")

	got, err := codec.Open(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, testSession(t, bank, start), got)
	assert.NoError(t, codec.Consume(ctx, got))
}

func TestSignedCodec_TokenHidesAnswerKey(t *testing.T) {
	bank := cookingTestBank(t)
	token, err := NewSignedCodec("secret", bank, time.Minute).Issue(context.Background(), testSession(t, bank, time.Now()))
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var claims map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &claims))
	assert.NotContains(t, claims, "questions")
	assert.Equal(t, []interface{}{float64(2), float64(0)}, claims["questionIds"])
	for _, leaked := range []string{"correctAnswer", "answer", "options", "Boiling"} {
		assert.NotContains(t, string(payload), leaked)
	}
}

func TestSignedCodec_Tampered(t *testing.T) {
	bank := cookingTestBank(t)
	start := time.Now().UTC().Truncate(time.Millisecond)
	ctx := context.Background()
	codec := NewSignedCodec("secret", bank, time.Minute)
	token, err := codec.Issue(ctx, testSession(t, bank, start))
	require.NoError(t, err)

	_, err = NewSignedCodec("other-secret", bank, time.Minute).Open(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forged := parts[0] + "." + parts[1] + "x." + parts[2]
	_, err = codec.Open(ctx, forged)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = codec.Open(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = codec.Open(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSignedCodec_RejectsUnknownQuestions(t *testing.T) {
	bank := cookingTestBank(t)
	sign := func(skill string, ids []int) string {
		claims := sessionClaims{
			Skill:       skill,
			QuestionIDs: ids,
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "x",
				Audience:  jwt.ClaimStrings{SessionAudience},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		return token
	}
	codec := NewSignedCodec("secret", bank, time.Minute)
	ctx := context.Background()

	_, err := codec.Open(ctx, sign("Cooking", []int{0, 7}))
	assert.ErrorIs(t, err, ErrInvalidSession)
	_, err = codec.Open(ctx, sign("Baking", []int{0}))
	assert.ErrorIs(t, err, ErrInvalidSession)
	_, err = codec.Open(ctx, sign("Cooking", nil))
	assert.ErrorIs(t, err, ErrInvalidSession)

	got, err := codec.Open(ctx, sign("Cooking", []int{1}))
	require.NoError(t, err)
	require.Len(t, got.Questions, 1)
	assert.Equal(t, 0, got.Questions[0].Answer)
}

func TestSignedCodec_RequiresSessionAudience(t *testing.T) {
	bank := cookingTestBank(t)
	sign := func(aud ...string) string {
		claims := sessionClaims{
			Skill:       "Cooking",
			QuestionIDs: []int{0},
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "x",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		if len(aud) > 0 {
			claims.Audience = aud
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		return token
	}
	codec := NewSignedCodec("secret", bank, time.Minute)
	ctx := context.Background()

	_, err := codec.Open(ctx, sign())
	assert.ErrorIs(t, err, ErrInvalidSession)
	_, err = codec.Open(ctx, sign("access"))
	assert.ErrorIs(t, err, ErrInvalidSession)
	_, err = codec.Open(ctx, sign(SessionAudience))
	assert.NoError(t, err)
}

func TestSignedCodec_RejectsOtherAlgorithms(t *testing.T) {
	claims := sessionClaims{
		Skill:       "Cooking",
		QuestionIDs: []int{0, 1},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "x",
			Audience:  jwt.ClaimStrings{SessionAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewSignedCodec("secret", cookingTestBank(t), time.Minute).Open(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSignedCodec_Expired(t *testing.T) {
	bank := cookingTestBank(t)
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()
	token, err := NewSignedCodec("secret", bank, time.Minute).Issue(ctx, testSession(t, bank, start))
	require.NoError(t, err)

	late := NewSignedCodec("secret", bank, time.Minute).WithClock(func() time.Time { return start.Add(7 * time.Minute) })
	_, err = late.Open(ctx, token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	inGrace := NewSignedCodec("secret", bank, time.Minute).WithClock(func() time.Time { return start.Add(5*time.Minute + 30*time.Second) })
	_, err = inGrace.Open(ctx, token)
	assert.NoError(t, err)
}

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_RejectsMalformedToken(t *testing.T) {
	store, _ := newTestRedisStore(t)

	_, err := store.Open(context.Background(), "../../etc")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestRedisStore_ConsumeOnce(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	sess := testSession(t, cookingTestBank(t), time.Now().UTC().Truncate(time.Millisecond))
	token, err := store.Issue(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, token)
	assert.Equal(t, 6*time.Minute, mr.TTL(redisKeyPrefix+sess.ID))

	got, err := store.Open(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, sess.Skill, got.Skill)
	assert.True(t, sess.StartTime.Equal(got.StartTime))
	assert.Equal(t, sess.Questions, got.Questions)

	require.NoError(t, store.Consume(ctx, got))
	assert.ErrorIs(t, store.Consume(ctx, got), ErrSessionConsumed)

	_, err = store.Open(ctx, token)
	assert.ErrorIs(t, err, ErrSessionConsumed)
}

func TestRedisStore_ClassifiesMissingSessions(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	_, err := store.Open(ctx, "fedcba9876543210fedcba9876543210")
	assert.ErrorIs(t, err, ErrInvalidSession)

	sess := testSession(t, cookingTestBank(t), time.Now().UTC())
	token, err := store.Issue(ctx, sess)
	require.NoError(t, err)

	mr.FastForward(6*time.Minute + time.Second)
	_, err = store.Open(ctx, token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	mr.FastForward(markerRetention)
	_, err = store.Open(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
