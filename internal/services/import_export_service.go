package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/SAP-F-2025/math-practice-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const (
	importListSeparator = "|"
	resultsSheet        = "Results"
)

var requiredImportColumns = []string{"type", "topic", "question", "answer"}

type importExportService struct {
	repo     repositories.Repository
	logger   *slog.Logger
	problems ProblemService
}

func NewImportExportService(repo repositories.Repository, logger *slog.Logger, problems ProblemService) ImportExportService {
	return &importExportService{
		repo:     repo,
		logger:   logger,
		problems: problems,
	}
}

// ===== IMPORT OPERATIONS =====

// ImportProblems reads problems from an .xlsx or .csv file. Rows go through
// the same all-or-nothing batch path as bulk creation; errors are reported
// as rows[i].<field> with i counting data rows from 0.
func (s *importExportService) ImportProblems(ctx context.Context, fileName string, r io.Reader, creatorID string) (*models.ImportSummary, error) {
	start := time.Now()
	s.logger.Info("Starting file import", "filename", fileName, "creator_id", creatorID)

	var fileType models.ImportFileType
	var records [][]string
	var err error

	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".csv":
		fileType = models.ImportCSV
		records, err = readCSV(r)
	case ".xlsx":
		fileType = models.ImportXLSX
		records, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
	if err != nil {
		return nil, err
	}

	problems, ignored, err := parseProblemRecords(records, creatorID)
	if err != nil {
		return nil, err
	}
	if len(ignored) > 0 {
		s.logger.Warn("Ignoring unknown import columns", "filename", fileName, "columns", ignored)
	}

	created, err := s.problems.CreateBatch(ctx, "rows", problems)
	if err != nil {
		return nil, err
	}

	summary := &models.ImportSummary{
		FileName:        fileName,
		FileType:        fileType,
		TotalRows:       len(problems),
		CreatedCount:    len(created),
		CreatedProblems: make([]string, len(created)),
		IgnoredColumns:  ignored,
		ProcessingTime:  time.Since(start).String(),
	}
	for i, p := range created {
		summary.CreatedProblems[i] = p.ID
	}

	s.logger.Info("File import completed",
		"filename", fileName,
		"file_type", fileType,
		"created_count", summary.CreatedCount)
	return summary, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, ValidationErrors{*NewValidationError("file", fmt.Sprintf("failed to read CSV: %v", err), nil)}
	}
	return records, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ValidationErrors{*NewValidationError("file", fmt.Sprintf("failed to open Excel file: %v", err), nil)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ValidationErrors{*NewValidationError("file", "Excel file has no sheets", nil)}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return rows, nil
}

// parseProblemRecords turns a header row plus data rows into problems.
// Blank rows are skipped. Header cells outside models.ImportColumns are
// returned as ignored.
func parseProblemRecords(records [][]string, creatorID string) ([]*models.Problem, []string, error) {
	if len(records) < 2 {
		return nil, nil, ValidationErrors{*NewValidationError("file", "must have a header row and at least one data row", len(records))}
	}

	known := make(map[string]bool, len(models.ImportColumns))
	for _, col := range models.ImportColumns {
		known[col] = true
	}

	headerMap := make(map[string]int)
	var ignored []string
	for i, header := range records[0] {
		name := strings.ToLower(strings.TrimSpace(header))
		if name == "" {
			continue
		}
		if !known[name] {
			ignored = append(ignored, name)
			continue
		}
		headerMap[name] = i
	}

	var errs ValidationErrors
	for _, col := range requiredImportColumns {
		if _, ok := headerMap[col]; !ok {
			errs = append(errs, *NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col))
		}
	}
	if len(errs) > 0 {
		return nil, nil, errs
	}

	var problems []*models.Problem
	for _, record := range records[1:] {
		if isBlankRecord(record) {
			continue
		}
		index := len(problems)
		problem, rowErrs := parseProblemRecord(record, headerMap, creatorID)
		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs.WithPrefix(fmt.Sprintf("rows[%d]", index))...)
		}
		problems = append(problems, problem)
	}

	if len(errs) > 0 {
		return nil, nil, errs
	}
	return problems, ignored, nil
}

func parseProblemRecord(record []string, headerMap map[string]int, creatorID string) (*models.Problem, ValidationErrors) {
	column := func(name string) string {
		if i, ok := headerMap[name]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	problem := &models.Problem{
		Type:         models.ProblemType(strings.ToLower(column("type"))),
		Topic:        column("topic"),
		Question:     column("question"),
		WrongAnswers: splitList(column("wrong_answers")),
		CreatedBy:    creatorID,
		Difficulty:   models.DifficultyLevel(strings.ToLower(column("difficulty"))),
		Points:       models.DefaultProblemPoints,
		IsActive:     true,
	}

	if answers := splitList(column("answer")); len(answers) == 1 {
		problem.Answer = models.SingleAnswer(answers[0])
	} else if len(answers) > 1 {
		problem.Answer = models.MultipleAnswers(answers...)
	}

	if url := column("img_url"); url != "" {
		problem.ImgURL = &url
	}

	var errs ValidationErrors
	if raw := column("points"); raw != "" {
		points, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, *NewValidationError("points", "must be an integer", raw))
		} else {
			problem.Points = points
		}
	}
	return problem, errs
}

func splitList(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return []string{}
	}
	parts := strings.Split(cell, importListSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ===== EXPORT OPERATIONS =====

// ExportAssignmentResults writes the results of an owned assignment as an
// xlsx workbook to w and returns a suggested file name.
func (s *importExportService) ExportAssignmentResults(ctx context.Context, assignmentID, teacherID string, w io.Writer) (string, error) {
	assignment, err := s.repo.Assignment().GetByID(ctx, assignmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return "", ErrAssignmentNotFound
		}
		return "", fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment.TeacherID != teacherID {
		return "", ErrAssignmentNotFound
	}

	results, _, err := s.repo.Result().List(ctx, repositories.ResultFilters{
		AssignmentID: &assignmentID,
		SortBy:       "created_at",
		SortOrder:    "desc",
	})
	if err != nil {
		return "", fmt.Errorf("failed to list assignment results: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(resultsSheet)
	if err != nil {
		return "", fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headers := []interface{}{
		"Student", "Email", "Question", "Topic", "User Answer", "Correct",
		"Points Earned", "Attempt", "Time Spent (s)", "Submitted At",
	}
	if err := f.SetSheetRow(resultsSheet, "A1", &headers); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range results {
		row := []interface{}{"", "", "", "", r.UserAnswer, r.IsCorrect, r.PointsEarned, r.AttemptNumber, r.TimeSpent, r.CreatedAt.Format(time.RFC3339)}
		if r.User != nil {
			row[0], row[1] = r.User.Username, r.User.Email
		}
		if r.Problem != nil {
			row[2], row[3] = r.Problem.Question, r.Problem.Topic
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		if err := f.SetSheetRow(resultsSheet, cell, &row); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Assignment results exported", "assignment_id", assignmentID, "rows", len(results))
	return fmt.Sprintf("assignment-%s-results.xlsx", assignmentID), nil
}
