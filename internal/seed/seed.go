package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/math-practice-service/internal/auth"
	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/SAP-F-2025/math-practice-service/internal/repositories"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

// Summary counts what a run created and what it found already present.
type Summary struct {
	UsersCreated       int `json:"usersCreated"`
	UsersReused        int `json:"usersReused"`
	ProblemsCreated    int `json:"problemsCreated"`
	ProblemsReused     int `json:"problemsReused"`
	AssignmentsCreated int `json:"assignmentsCreated"`
	AssignmentsReused  int `json:"assignmentsReused"`
	ResultsCreated     int `json:"resultsCreated"`
}

type userSeed struct {
	username string
	email    string
	role     models.UserRole
}

type problemSeed struct {
	teacher      int
	problemType  models.ProblemType
	topic        string
	question     string
	answer       string
	wrongAnswers []string
	difficulty   models.DifficultyLevel
	points       int
}

type assignmentSeed struct {
	teacher            int
	title              string
	description        string
	problems           []int
	students           []int
	dueIn              time.Duration
	multipleAttempts   bool
	maxAttempts        int
	showCorrectAnswers bool
}

type resultSeed struct {
	assignment int
	student    int
	problem    int
	answer     string
	correct    bool
	timeSpent  int
}

var (
	teacherSeeds = []userSeed{
		{username: "kovacs_anna", email: "kovacs.anna@example.com", role: models.RoleTeacher},
		{username: "nagy_peter", email: "nagy.peter@example.com", role: models.RoleTeacher},
	}

	studentSeeds = []userSeed{
		{username: "toth_balazs", email: "toth.balazs@example.com", role: models.RoleStudent},
		{username: "varga_eszter", email: "varga.eszter@example.com", role: models.RoleStudent},
		{username: "horvath_daniel", email: "horvath.daniel@example.com", role: models.RoleStudent},
		{username: "kiss_zsofia", email: "kiss.zsofia@example.com", role: models.RoleStudent},
	}

	problemSeeds = []problemSeed{
		{teacher: 0, problemType: models.ProblemMultipleChoice, topic: "algebra", question: "Solve: $2x + 3 = 7$", answer: "x = 2", wrongAnswers: []string{"x = 1", "x = 3", "x = 4"}, difficulty: models.DifficultyEasy, points: 1},
		{teacher: 0, problemType: models.ProblemOpenEnded, topic: "algebra", question: "Solve: $3x - 5 = 16$", answer: "7", difficulty: models.DifficultyEasy, points: 2},
		{teacher: 0, problemType: models.ProblemMultipleChoice, topic: "algebra", question: "Expand $(x+2)^2$", answer: "$x^2 + 4x + 4$", wrongAnswers: []string{"$x^2 + 2x + 4$", "$x^2 + 4x + 2$", "$x^2 + 2x + 2$"}, difficulty: models.DifficultyMedium, points: 3},
		{teacher: 1, problemType: models.ProblemOpenEnded, topic: "geometry", question: "What is the area of a square with 5 cm sides?", answer: "25", difficulty: models.DifficultyEasy, points: 1},
		{teacher: 1, problemType: models.ProblemMultipleChoice, topic: "geometry", question: "What is the area of a circle with a 3 cm radius? (π ≈ 3.14)", answer: "28.26", wrongAnswers: []string{"18.84", "9.42", "6.28"}, difficulty: models.DifficultyMedium, points: 2},
		{teacher: 1, problemType: models.ProblemOpenEnded, topic: "geometry", question: "A right triangle has legs of 3 cm and 4 cm. How long is the hypotenuse?", answer: "5", difficulty: models.DifficultyMedium, points: 3},
		{teacher: 0, problemType: models.ProblemMultipleChoice, topic: "arithmetic", question: "What is 7 × 8?", answer: "56", wrongAnswers: []string{"48", "54", "64"}, difficulty: models.DifficultyEasy, points: 1},
		{teacher: 0, problemType: models.ProblemOpenEnded, topic: "arithmetic", question: "What is 125 ÷ 5?", answer: "25", difficulty: models.DifficultyEasy, points: 1},
		{teacher: 1, problemType: models.ProblemMultipleChoice, topic: "arithmetic", question: "What is 15% of 200?", answer: "30", wrongAnswers: []string{"20", "25", "35"}, difficulty: models.DifficultyMedium, points: 2},
	}

	assignmentSeeds = []assignmentSeed{
		{teacher: 0, title: "Basic algebra", description: "Practice simple algebraic equations", problems: []int{0, 1}, students: []int{0, 1}, dueIn: 7 * 24 * time.Hour, multipleAttempts: true, maxAttempts: 3, showCorrectAnswers: true},
		{teacher: 1, title: "Geometry basics", description: "Area and perimeter", problems: []int{3, 4}, students: []int{2, 3}, dueIn: 10 * 24 * time.Hour, multipleAttempts: false, maxAttempts: 1, showCorrectAnswers: false},
	}

	resultSeeds = []resultSeed{
		{assignment: 0, student: 0, problem: 0, answer: "x = 2", correct: true, timeSpent: 45},
		{assignment: 0, student: 0, problem: 1, answer: "6", correct: false, timeSpent: 120},
		{assignment: 0, student: 1, problem: 0, answer: "x = 2", correct: true, timeSpent: 30},
	}
)

// Seeder fills an empty store with demo accounts and content. Running it
// again reuses rows matched by email, (creator, question) and
// (teacher, title) instead of duplicating them.
type Seeder struct {
	repo   repositories.Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewSeeder(repo repositories.Repository, logger *slog.Logger) *Seeder {
	return &Seeder{repo: repo, logger: logger, now: time.Now}
}

func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		teachers, err := s.seedUsers(ctx, tx, teacherSeeds, summary)
		if err != nil {
			return err
		}
		students, err := s.seedUsers(ctx, tx, studentSeeds, summary)
		if err != nil {
			return err
		}

		problems, err := s.seedProblems(ctx, tx, teachers, summary)
		if err != nil {
			return err
		}

		assignments, created, err := s.seedAssignments(ctx, tx, teachers, students, problems, summary)
		if err != nil {
			return err
		}

		return s.seedResults(ctx, tx, assignments, created, students, problems, summary)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	s.logger.Info("Database seeded",
		"users_created", summary.UsersCreated,
		"problems_created", summary.ProblemsCreated,
		"assignments_created", summary.AssignmentsCreated,
		"results_created", summary.ResultsCreated)
	return summary, nil
}

func (s *Seeder) seedUsers(ctx context.Context, tx repositories.Repository, seeds []userSeed, summary *Summary) ([]*models.User, error) {
	users := make([]*models.User, len(seeds))
	for i, seed := range seeds {
		existing, err := tx.User().GetByEmail(ctx, seed.email)
		if err == nil {
			users[i] = existing
			summary.UsersReused++
			continue
		}
		if !repositories.IsNotFoundError(err) {
			return nil, err
		}

		hash, err := auth.HashPassword(DefaultPassword)
		if err != nil {
			return nil, err
		}
		user := &models.User{Username: seed.username, Email: seed.email, PasswordHash: hash, Role: seed.role}
		if err := tx.User().Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", seed.email, err)
		}
		users[i] = user
		summary.UsersCreated++
	}
	return users, nil
}

func (s *Seeder) seedProblems(ctx context.Context, tx repositories.Repository, teachers []*models.User, summary *Summary) ([]*models.Problem, error) {
	problems := make([]*models.Problem, len(problemSeeds))
	for i, seed := range problemSeeds {
		creatorID := teachers[seed.teacher].ID
		existing, err := tx.Problem().FindByCreatorAndQuestion(ctx, creatorID, seed.question)
		if err == nil {
			problems[i] = existing
			summary.ProblemsReused++
			continue
		}
		if !repositories.IsNotFoundError(err) {
			return nil, err
		}

		wrong := seed.wrongAnswers
		if wrong == nil {
			wrong = []string{}
		}
		problem := &models.Problem{
			Type:         seed.problemType,
			Topic:        seed.topic,
			Question:     seed.question,
			Answer:       models.SingleAnswer(seed.answer),
			WrongAnswers: wrong,
			CreatedBy:    creatorID,
			Difficulty:   seed.difficulty,
			Points:       seed.points,
			IsActive:     true,
		}
		if err := tx.Problem().Create(ctx, problem); err != nil {
			return nil, fmt.Errorf("failed to create problem %q: %w", seed.question, err)
		}
		problems[i] = problem
		summary.ProblemsCreated++
	}
	return problems, nil
}

// seedAssignments also reports which assignments this run created; sample
// results are only recorded against those.
func (s *Seeder) seedAssignments(
	ctx context.Context,
	tx repositories.Repository,
	teachers, students []*models.User,
	problems []*models.Problem,
	summary *Summary,
) ([]*models.Assignment, []bool, error) {
	assignments := make([]*models.Assignment, len(assignmentSeeds))
	created := make([]bool, len(assignmentSeeds))

	for i, seed := range assignmentSeeds {
		teacherID := teachers[seed.teacher].ID
		existing, err := tx.Assignment().FindByTeacherAndTitle(ctx, teacherID, seed.title)
		if err == nil {
			assignments[i] = existing
			summary.AssignmentsReused++
			continue
		}
		if !repositories.IsNotFoundError(err) {
			return nil, nil, err
		}

		problemIDs := make([]string, len(seed.problems))
		totalPoints := 0
		for j, idx := range seed.problems {
			problemIDs[j] = problems[idx].ID
			totalPoints += problems[idx].EffectivePoints()
		}
		studentIDs := make([]string, len(seed.students))
		for j, idx := range seed.students {
			studentIDs[j] = students[idx].ID
		}

		assignment := &models.Assignment{
			Title:                 seed.title,
			Description:           seed.description,
			TeacherID:             teacherID,
			DueDate:               s.now().Add(seed.dueIn),
			IsActive:              true,
			AllowMultipleAttempts: seed.multipleAttempts,
			MaxAttempts:           seed.maxAttempts,
			ShowCorrectAnswers:    seed.showCorrectAnswers,
			TotalPoints:           totalPoints,
		}
		assignment.SetProblems(problemIDs)
		assignment.SetStudents(studentIDs)

		if err := tx.Assignment().Create(ctx, assignment); err != nil {
			return nil, nil, fmt.Errorf("failed to create assignment %q: %w", seed.title, err)
		}
		assignments[i] = assignment
		created[i] = true
		summary.AssignmentsCreated++
	}
	return assignments, created, nil
}

func (s *Seeder) seedResults(
	ctx context.Context,
	tx repositories.Repository,
	assignments []*models.Assignment,
	created []bool,
	students []*models.User,
	problems []*models.Problem,
	summary *Summary,
) error {
	attempts := make(map[string]int)
	for _, seed := range resultSeeds {
		if !created[seed.assignment] {
			continue
		}

		assignmentID := assignments[seed.assignment].ID
		problem := problems[seed.problem]
		userID := students[seed.student].ID

		key := userID + "/" + problem.ID + "/" + assignmentID
		attempts[key]++

		points := 0
		if seed.correct {
			points = problem.EffectivePoints()
		}
		result := &models.Result{
			UserID:        userID,
			ProblemID:     problem.ID,
			AssignmentID:  &assignmentID,
			UserAnswer:    seed.answer,
			IsCorrect:     seed.correct,
			TimeSpent:     seed.timeSpent,
			AttemptNumber: attempts[key],
			PointsEarned:  points,
		}
		if err := tx.Result().Create(ctx, result); err != nil {
			return fmt.Errorf("failed to create result: %w", err)
		}
		summary.ResultsCreated++
	}
	return nil
}
