package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/math-practice-service/internal/cache"
	"github.com/SAP-F-2025/math-practice-service/internal/events"
	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/SAP-F-2025/math-practice-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memoryCache is an in-process CacheService for tests.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	data, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) DeletePattern(context.Context, string) error { return nil }

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

func TestNormalizedScorer(t *testing.T) {
	scorer := NewNormalizedScorer()

	tests := []struct {
		name   string
		answer models.Answer
		given  string
		want   bool
	}{
		{name: "exact", answer: models.SingleAnswer("42"), given: "42", want: true},
		{name: "case and spaces", answer: models.SingleAnswer("X = 2"), given: " x=2 ", want: true},
		{name: "inner whitespace", answer: models.SingleAnswer("3/4"), given: "3 / 4", want: true},
		{name: "any acceptable answer", answer: models.MultipleAnswers("0.5", "1/2"), given: "1/2", want: true},
		{name: "wrong", answer: models.SingleAnswer("42"), given: "41", want: false},
		{name: "blank", answer: models.SingleAnswer("42"), given: "   ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scorer.Score(&models.Problem{Answer: tt.answer}, tt.given))
		})
	}
}

type resultFixture struct {
	repo      *MockRepository
	cache     *memoryCache
	publisher *events.MockEventPublisher
	svc       ResultService
}

func newResultFixture() *resultFixture {
	repo := newMockRepository()
	memCache := newMemoryCache()
	eventService, publisher := newTestEvents()
	return &resultFixture{
		repo:      repo,
		cache:     memCache,
		publisher: publisher,
		svc:       NewResultService(repo, testLogger(), testValidator(), memCache, eventService, NewNormalizedScorer()),
	}
}

func activeProblem() *models.Problem {
	return &models.Problem{
		ID:         problemA,
		Type:       models.ProblemOpenEnded,
		Topic:      "arithmetic",
		Question:   "6 * 7",
		Answer:     models.SingleAnswer("42"),
		Difficulty: models.DifficultyEasy,
		Points:     3,
		IsActive:   true,
	}
}

func openAssignment() *models.Assignment {
	a := &models.Assignment{
		ID:                    "cccccccc-0000-0000-0000-000000000001",
		IsActive:              true,
		DueDate:               testNow.Add(time.Hour),
		AllowMultipleAttempts: true,
		MaxAttempts:           2,
		ShowCorrectAnswers:    false,
	}
	a.SetProblems([]string{problemA})
	a.SetStudents([]string{studentID})
	return a
}

func TestResultService_Submit_Practice(t *testing.T) {
	ctx := context.Background()
	f := newResultFixture()

	f.repo.problems.On("GetByID", ctx, problemA).Return(activeProblem(), nil)
	f.repo.results.On("CountAttempts", ctx, studentID, problemA, (*string)(nil)).Return(int64(4), nil)
	f.repo.results.On("Create", ctx, mock.AnythingOfType("*models.Result")).Return(nil)
	require.NoError(t, f.cache.Set(ctx, cache.UserStatsKey(studentID), StatsResponse{TotalAttempts: 1}, time.Minute))

	resp, err := f.svc.Submit(ctx, &SubmitResultRequest{ProblemID: problemA, UserAnswer: " 42 "}, studentID)

	require.NoError(t, err)
	assert.True(t, resp.IsCorrect)
	assert.Equal(t, 3, resp.PointsEarned)
	assert.Equal(t, 5, resp.AttemptNumber)
	assert.Equal(t, "42", resp.Result.UserAnswer)
	require.NotNil(t, resp.CorrectAnswer, "practice mode reveals the answer")
	assert.Nil(t, resp.AttemptsRemaining)

	assert.False(t, f.cache.has(cache.UserStatsKey(studentID)), "stats cache invalidated")
	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventResultSubmitted, published[0].Type)
}

func TestResultService_Submit_Assignment(t *testing.T) {
	ctx := context.Background()

	t.Run("attempt numbers increase until the limit", func(t *testing.T) {
		f := newResultFixture()
		assignment := openAssignment()
		assignmentID := assignment.ID

		f.repo.problems.On("GetByID", ctx, problemA).Return(activeProblem(), nil)
		f.repo.assignments.On("GetByIDForUpdate", ctx, assignmentID).Return(assignment, nil)
		f.repo.results.On("CountAttempts", ctx, studentID, problemA, &assignmentID).Return(int64(0), nil).Once()
		f.repo.results.On("CountAttempts", ctx, studentID, problemA, &assignmentID).Return(int64(1), nil).Once()
		f.repo.results.On("CountAttempts", ctx, studentID, problemA, &assignmentID).Return(int64(2), nil).Once()
		f.repo.results.On("Create", ctx, mock.AnythingOfType("*models.Result")).Return(nil).Twice()

		req := func() *SubmitResultRequest {
			id := assignmentID
			return &SubmitResultRequest{ProblemID: problemA, UserAnswer: "41", AssignmentID: &id}
		}

		first, err := f.svc.Submit(ctx, req(), studentID)
		require.NoError(t, err)
		assert.Equal(t, 1, first.AttemptNumber)
		assert.False(t, first.IsCorrect)
		assert.Equal(t, 0, first.PointsEarned)
		assert.Nil(t, first.CorrectAnswer, "answer hidden when showCorrectAnswers is off")
		assert.Equal(t, 1, *first.AttemptsRemaining)

		second, err := f.svc.Submit(ctx, req(), studentID)
		require.NoError(t, err)
		assert.Equal(t, 2, second.AttemptNumber)

		_, err = f.svc.Submit(ctx, req(), studentID)
		assert.ErrorIs(t, err, ErrAttemptLimitExceeded)
		assert.True(t, IsConflict(err))
		f.repo.assertExpectations(t)
	})

	t.Run("single attempt when multiple attempts are off", func(t *testing.T) {
		f := newResultFixture()
		assignment := openAssignment()
		assignment.AllowMultipleAttempts = false
		assignment.MaxAttempts = 5
		assignmentID := assignment.ID

		f.repo.problems.On("GetByID", ctx, problemA).Return(activeProblem(), nil)
		f.repo.assignments.On("GetByIDForUpdate", ctx, assignmentID).Return(assignment, nil)
		f.repo.results.On("CountAttempts", ctx, studentID, problemA, &assignmentID).Return(int64(1), nil)

		_, err := f.svc.Submit(ctx, &SubmitResultRequest{ProblemID: problemA, UserAnswer: "42", AssignmentID: &assignmentID}, studentID)
		assert.ErrorIs(t, err, ErrAttemptLimitExceeded)
		f.repo.results.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejections", func(t *testing.T) {
		tests := []struct {
			name    string
			mutate  func(a *models.Assignment)
			userID  string
			wantErr error
		}{
			{name: "past due", mutate: func(a *models.Assignment) { a.DueDate = testNow }, userID: studentID, wantErr: ErrAssignmentClosed},
			{name: "inactive", mutate: func(a *models.Assignment) { a.IsActive = false }, userID: studentID, wantErr: ErrAssignmentClosed},
			{name: "not assigned", mutate: func(a *models.Assignment) {}, userID: "someone-else", wantErr: ErrAssignmentNotFound},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newResultFixture()
				assignment := openAssignment()
				tt.mutate(assignment)
				assignmentID := assignment.ID

				f.repo.problems.On("GetByID", ctx, problemA).Return(activeProblem(), nil)
				f.repo.assignments.On("GetByIDForUpdate", ctx, assignmentID).Return(assignment, nil)

				_, err := f.svc.Submit(ctx, &SubmitResultRequest{ProblemID: problemA, UserAnswer: "42", AssignmentID: &assignmentID}, tt.userID)
				assert.ErrorIs(t, err, tt.wantErr)
				f.repo.results.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("problem outside the assignment", func(t *testing.T) {
		f := newResultFixture()
		assignment := openAssignment()
		assignmentID := assignment.ID
		other := activeProblem()
		other.ID = problemB

		f.repo.problems.On("GetByID", ctx, problemB).Return(other, nil)
		f.repo.assignments.On("GetByIDForUpdate", ctx, assignmentID).Return(assignment, nil)

		_, err := f.svc.Submit(ctx, &SubmitResultRequest{ProblemID: problemB, UserAnswer: "42", AssignmentID: &assignmentID}, studentID)
		var errs ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Equal(t, "problemId", errs[0].Field)
	})
}

func TestResultService_Submit_ProblemChecks(t *testing.T) {
	ctx := context.Background()
	f := newResultFixture()

	inactive := activeProblem()
	inactive.IsActive = false
	f.repo.problems.On("GetByID", ctx, problemA).Return(inactive, nil)
	f.repo.problems.On("GetByID", ctx, problemB).Return(nil, repositoriesNotFound())

	_, err := f.svc.Submit(ctx, &SubmitResultRequest{ProblemID: problemA, UserAnswer: "42"}, studentID)
	assert.ErrorIs(t, err, ErrProblemNotFound)

	_, err = f.svc.Submit(ctx, &SubmitResultRequest{ProblemID: problemB, UserAnswer: "42"}, studentID)
	assert.ErrorIs(t, err, ErrProblemNotFound)

	_, err = f.svc.Submit(ctx, &SubmitResultRequest{ProblemID: "not-a-uuid", UserAnswer: ""}, studentID)
	assert.True(t, IsValidation(err))
}

func TestResultService_GetStats(t *testing.T) {
	ctx := context.Background()
	f := newResultFixture()

	f.repo.results.On("GetStats", ctx, studentID).Return(&repositories.ResultStats{
		TotalAttempts:   3,
		CorrectAttempts: 2,
		PointsEarned:    7,
		TimeSpent:       100,
		ByTopic: []repositories.TopicStats{
			{Topic: "algebra", TotalAttempts: 3, CorrectAttempts: 2, PointsEarned: 7},
		},
	}, nil).Once()

	stats, err := f.svc.GetStats(ctx, studentID)
	require.NoError(t, err)
	assert.Equal(t, 66.67, stats.Accuracy)
	assert.Equal(t, 33.33, stats.AverageTimeSpent)
	require.Len(t, stats.ByTopic, 1)
	assert.Equal(t, 66.67, stats.ByTopic[0].Accuracy)

	// second call is served from the cache
	cached, err := f.svc.GetStats(ctx, studentID)
	require.NoError(t, err)
	assert.Equal(t, stats, cached)
	f.repo.results.AssertNumberOfCalls(t, "GetStats", 1)
}

func TestResultService_ListByUser(t *testing.T) {
	ctx := context.Background()
	f := newResultFixture()

	assignmentID := "cccccccc-0000-0000-0000-000000000001"
	f.repo.results.On("List", ctx, mock.MatchedBy(func(rf repositories.ResultFilters) bool {
		return *rf.UserID == studentID && rf.AssignmentID != nil && *rf.AssignmentID == assignmentID && rf.Limit == 5 && rf.Offset == 5
	})).Return([]*models.Result{{ID: "r1", Problem: activeProblem()}}, int64(6), nil)

	resp, err := f.svc.ListByUser(ctx, studentID, ResultListParams{Page: 2, Limit: 5, AssignmentID: " " + assignmentID + " "})
	require.NoError(t, err)
	assert.Equal(t, PaginationResponse{Page: 2, Limit: 5, Total: 6, Pages: 2}, resp.Pagination)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "6 * 7", resp.Results[0].Problem.Question)
	assert.Empty(t, resp.Results[0].Problem.Type)
}

func TestResultService_ListByUser_InvalidAssignmentID(t *testing.T) {
	ctx := context.Background()
	f := newResultFixture()

	_, err := f.svc.ListByUser(ctx, studentID, ResultListParams{AssignmentID: "abc"})

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "assignmentId", errs[0].Field)
	f.repo.results.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

// Page ceil(T/L) asks the store for the remainder slice, not a full page.
func TestResultService_ListByUser_LastPage(t *testing.T) {
	tests := []struct {
		total      int64
		limit      int
		wantPages  int
		wantOffset int
		wantSize   int
	}{
		{total: 57, limit: 10, wantPages: 6, wantOffset: 50, wantSize: 7},
		{total: 30, limit: 10, wantPages: 3, wantOffset: 20, wantSize: 10},
		{total: 1, limit: 10, wantPages: 1, wantOffset: 0, wantSize: 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("total=%d", tt.total), func(t *testing.T) {
			ctx := context.Background()
			f := newResultFixture()

			stored := make([]*models.Result, tt.total)
			for i := range stored {
				stored[i] = &models.Result{ID: fmt.Sprintf("r%d", i), Problem: activeProblem()}
			}
			f.repo.results.On("List", ctx, mock.AnythingOfType("repositories.ResultFilters")).
				Return(func(rf repositories.ResultFilters) []*models.Result {
					end := min(rf.Offset+rf.Limit, len(stored))
					return stored[rf.Offset:end]
				}, tt.total, nil)

			resp, err := f.svc.ListByUser(ctx, studentID, ResultListParams{Page: tt.wantPages, Limit: tt.limit})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPages, resp.Pagination.Pages)
			require.Len(t, resp.Results, tt.wantSize)
			assert.Equal(t, fmt.Sprintf("r%d", tt.wantOffset), resp.Results[0].ID)
		})
	}
}
