package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"skillswap_backend/internal/models"
	"skillswap_backend/internal/repositories"
	"skillswap_backend/internal/services/dto"
	"skillswap_backend/internal/testutil"
	"skillswap_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRatingServiceForTest() *ratingService {
	svc := NewRatingService(
		repositories.NewUserRepository(),
		repositories.NewVideoRepository(),
		NewNotificationService(repositories.NewNotificationRepository(), nil),
	).(*ratingService)
	var mu sync.Mutex
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}
	return svc
}

func intPtr(v int) *int { return &v }

func TestAverage(t *testing.T) {
	assert.Equal(t, 0.0, Average(nil))
	assert.Equal(t, 4.0, Average([]int{5, 3}))
	assert.Equal(t, 2.7, Average([]int{1, 3, 4}))
	assert.Equal(t, 3.3, Average([]int{3, 3, 4}))
}

func TestRate_UpsertAndAverage(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	raters := []*models.User{
		testutil.CreateUser(t, db, "rater1"),
		testutil.CreateUser(t, db, "rater2"),
		testutil.CreateUser(t, db, "rater3"),
	}
	for _, r := range raters {
		testutil.Match(t, db, owner, r)
	}
	testutil.AddVideo(t, db, owner.ID, "Guitar")
	svc := newRatingServiceForTest()

	rate := func(rater *models.User, stars int) *dto.RateVideoResponse {
		resp, err := svc.Rate(ctx, db, rater.ID, &dto.RateVideoRequest{
			VideoOwnerUsername: "owner", Skill: "Guitar", Rating: intPtr(stars),
		})
		require.NoError(t, err)
		return resp
	}

	resp := rate(raters[0], 5)
	assert.Equal(t, 5.0, resp.AverageRating)
	assert.Equal(t, 1, resp.TotalRatings)

	// same rater again replaces the earlier value
	resp = rate(raters[0], 4)
	assert.Equal(t, 4.0, resp.AverageRating)
	assert.Equal(t, 1, resp.TotalRatings)

	rate(raters[0], 5)
	resp = rate(raters[1], 3)
	assert.Equal(t, 4.0, resp.AverageRating)
	assert.Equal(t, 2, resp.TotalRatings)

	rate(raters[0], 1)
	resp = rate(raters[2], 4)
	assert.Equal(t, 2.7, resp.AverageRating)
	assert.Equal(t, 3, resp.TotalRatings)

	list, err := svc.GetRatings(ctx, db, "owner", "Guitar")
	require.NoError(t, err)
	assert.Equal(t, 2.7, list.AverageRating)
	require.Len(t, list.Ratings, 3)
	// insertion order survives updates
	assert.Equal(t, "rater1", list.Ratings[0].Username)
	assert.Equal(t, 1, list.Ratings[0].Rating)
	assert.Equal(t, "rater2", list.Ratings[1].Username)
	assert.Equal(t, "rater3", list.Ratings[2].Username)

	var notes int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", owner.ID, models.NotificationVideoRated).Count(&notes).Error)
	assert.EqualValues(t, 6, notes)
}

func TestRate_ConcurrentRatersKeepOneRowEach(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	raters := []*models.User{
		testutil.CreateUser(t, db, "rater1"),
		testutil.CreateUser(t, db, "rater2"),
		testutil.CreateUser(t, db, "rater3"),
	}
	for _, r := range raters {
		testutil.Match(t, db, owner, r)
	}
	testutil.AddVideo(t, db, owner.ID, "Guitar")
	svc := newRatingServiceForTest()

	// every rater submits the same score several times at once
	const repeats = 3
	var wg sync.WaitGroup
	for i, r := range raters {
		for n := 0; n < repeats; n++ {
			wg.Add(1)
			go func(rater *models.User, stars int) {
				defer wg.Done()
				_, err := svc.Rate(ctx, db, rater.ID, &dto.RateVideoRequest{
					VideoOwnerUsername: "owner", Skill: "Guitar", Rating: intPtr(stars),
				})
				assert.NoError(t, err)
			}(r, i+2)
		}
	}
	wg.Wait()

	list, err := svc.GetRatings(ctx, db, "owner", "Guitar")
	require.NoError(t, err)
	assert.Equal(t, 3, list.TotalRatings)
	assert.Equal(t, 3.0, list.AverageRating)
	byRater := map[string]int{}
	for _, r := range list.Ratings {
		byRater[r.Username] = r.Rating
	}
	assert.Equal(t, map[string]int{"rater1": 2, "rater2": 3, "rater3": 4}, byRater)

	var rows int64
	require.NoError(t, db.Model(&models.VideoRating{}).Where("owner_id = ?", owner.ID).Count(&rows).Error)
	assert.EqualValues(t, 3, rows)
}

func TestRate_Rejections(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	friend := testutil.CreateUser(t, db, "friend")
	stranger := testutil.CreateUser(t, db, "stranger")
	testutil.Match(t, db, owner, friend)
	testutil.AddVideo(t, db, owner.ID, "Guitar")
	svc := newRatingServiceForTest()

	tests := []struct {
		name    string
		raterID string
		req     dto.RateVideoRequest
		want    *apperrors.AppError
	}{
		{"rating too high", friend.ID, dto.RateVideoRequest{VideoOwnerUsername: "owner", Skill: "Guitar", Rating: intPtr(6)}, apperrors.ErrInvalidRating},
		{"rating zero", friend.ID, dto.RateVideoRequest{VideoOwnerUsername: "owner", Skill: "Guitar", Rating: intPtr(0)}, apperrors.ErrInvalidRating},
		{"unknown owner", friend.ID, dto.RateVideoRequest{VideoOwnerUsername: "ghost", Skill: "Guitar", Rating: intPtr(3)}, apperrors.ErrVideoOwnerNotFound},
		{"self rating", owner.ID, dto.RateVideoRequest{VideoOwnerUsername: "owner", Skill: "Guitar", Rating: intPtr(3)}, apperrors.ErrSelfRating},
		{"not matched", stranger.ID, dto.RateVideoRequest{VideoOwnerUsername: "owner", Skill: "Guitar", Rating: intPtr(3)}, apperrors.ErrNotMatched},
		{"no video", friend.ID, dto.RateVideoRequest{VideoOwnerUsername: "owner", Skill: "Cooking", Rating: intPtr(3)}, apperrors.ErrVideoNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Rate(ctx, db, tt.raterID, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := svc.Rate(ctx, db, friend.ID, &dto.RateVideoRequest{VideoOwnerUsername: "owner", Skill: "Guitar"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)

	var count int64
	require.NoError(t, db.Model(&models.VideoRating{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetRatings_Empty(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateUser(t, db, "owner")

	resp, err := newRatingServiceForTest().GetRatings(context.Background(), db, "owner", "Guitar")
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.AverageRating)
	assert.Equal(t, 0, resp.TotalRatings)
	assert.Empty(t, resp.Ratings)
}

func TestGetAllRatingsForOwner_OnlyRatedSkills(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	a := testutil.CreateUser(t, db, "ratera")
	b := testutil.CreateUser(t, db, "raterb")
	testutil.Match(t, db, owner, a)
	testutil.Match(t, db, owner, b)
	testutil.AddVideo(t, db, owner.ID, "Guitar")
	testutil.AddVideo(t, db, owner.ID, "Yoga")
	testutil.AddVideo(t, db, owner.ID, "Spanish")
	svc := newRatingServiceForTest()

	for _, r := range []struct {
		rater *models.User
		skill string
		stars int
	}{{a, "Guitar", 5}, {b, "Guitar", 4}, {a, "Yoga", 2}} {
		_, err := svc.Rate(ctx, db, r.rater.ID, &dto.RateVideoRequest{
			VideoOwnerUsername: "owner", Skill: r.skill, Rating: intPtr(r.stars),
		})
		require.NoError(t, err)
	}

	summary, err := svc.GetAllRatingsForOwner(ctx, db, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]dto.RatingSummary{
		"Guitar": {AverageRating: 4.5, TotalRatings: 2},
		"Yoga":   {AverageRating: 2.0, TotalRatings: 1},
	}, summary)
}
