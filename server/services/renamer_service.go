package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"creativerenamer/archive"
	"creativerenamer/diff"
	"creativerenamer/html5"
	"creativerenamer/importer"
	"creativerenamer/internal/config"
	"creativerenamer/matching"
	"creativerenamer/rename"
	apperrors "creativerenamer/server/errors"
)

// Формат журнала переименования
const (
	LogFormatCSV  = "csv"
	LogFormatXLSX = "xlsx"
)

// ErrNoCandidates в листе не найдено ни одного имени
var ErrNoCandidates = errors.New("no creative names found in the sheet")

var sheetExtensions = map[string]bool{".xlsx": true, ".xlsm": true, ".csv": true}

// Upload загруженный файл
type Upload struct {
	Filename string
	Data     []byte
}

// Empty true, если файл не передан
func (u Upload) Empty() bool {
	return u.Filename == "" && len(u.Data) == 0
}

// MatchRequest входные данные preview/rename/log
type MatchRequest struct {
	Archive Upload
	Sheet   Upload
	// Threshold nil = порог из конфигурации
	Threshold    *float64
	SheetName    string
	ColumnHeader string
	ColumnIndex  *int
	// Strategy пустая строка = стратегия из конфигурации
	Strategy string
}

// SheetInfo откуда взяты имена
type SheetInfo struct {
	Format    string `json:"format"`
	SheetName string `json:"sheet_name,omitempty"`
	Column    int    `json:"column"`
	HeaderRow int    `json:"header_row"`
	Strategy  string `json:"strategy"`
}

// PreviewResponse результат предпросмотра
type PreviewResponse struct {
	Preview         []matching.Result `json:"preview"`
	SheetNamesCount int               `json:"sheet_names_count"`
	Threshold       int               `json:"threshold"`
	Strategy        string            `json:"strategy"`
	FailedEntries   int               `json:"failed_entries"`
	Sheet           SheetInfo         `json:"sheet"`
}

// RenameResult переименованный архив
type RenameResult struct {
	Archive      []byte
	Filename     string
	TotalEntries int
	Renamed      int
}

// LogResult журнал переименования в выбранном формате
type LogResult struct {
	Format  string
	Rows    []rename.LogRow
	Payload []byte
}

// CompareRequest входные данные сравнения
type CompareRequest struct {
	Archive1 Upload
	Archive2 Upload
	// PathMode пустая строка = режим из конфигурации
	PathMode string
}

// RenamerService конвейеры preview, rename, log, compare и проверки HTML5
// Сервис не хранит состояния между запросами.
type RenamerService struct {
	matchOptions   matching.Options
	sheetOptions   importer.SheetOptions
	compareOptions diff.Options
	archiveOptions archive.OpenOptions
	validator      *html5.Validator
}

// NewRenamerService создает сервис с параметрами по умолчанию из конфигурации
func NewRenamerService(cfg *config.Config) *RenamerService {
	return &RenamerService{
		matchOptions:   cfg.MatchOptions(),
		sheetOptions:   cfg.SheetOptions(),
		compareOptions: cfg.CompareOptions(),
		archiveOptions: cfg.ArchiveOptions(),
		validator:      html5.NewValidator(),
	}
}

// matchRun общий результат сопоставления для preview, rename и log
type matchRun struct {
	archive *archive.Archive
	sheet   *importer.SheetResult
	engine  *matching.Engine
	results []matching.Result
}

// Preview сопоставляет элементы архива с именами из листа
func (s *RenamerService) Preview(ctx context.Context, req MatchRequest) (*PreviewResponse, error) {
	run, err := s.match(ctx, req)
	if err != nil {
		return nil, err
	}

	return &PreviewResponse{
		Preview:         run.results,
		SheetNamesCount: len(run.sheet.Names),
		Threshold:       run.engine.Threshold(),
		Strategy:        string(run.engine.Strategy()),
		FailedEntries:   len(run.archive.Failed()),
		Sheet: SheetInfo{
			Format:    run.sheet.Format,
			SheetName: run.sheet.SheetName,
			Column:    run.sheet.Column,
			HeaderRow: run.sheet.HeaderRow,
			Strategy:  run.sheet.Strategy,
		},
	}, nil
}

// Rename строит переименованную копию архива
func (s *RenamerService) Rename(ctx context.Context, req MatchRequest) (*RenameResult, error) {
	run, err := s.match(ctx, req)
	if err != nil {
		return nil, err
	}

	plan := rename.BuildPlan(run.results)
	var buf bytes.Buffer
	if err := rename.NewWriter().Write(ctx, &buf, run.archive, plan); err != nil {
		return nil, mapContextError(err, "write renamed archive")
	}

	return &RenameResult{
		Archive:      buf.Bytes(),
		Filename:     rename.ArchiveName,
		TotalEntries: plan.Len(),
		Renamed:      plan.RenamedCount(),
	}, nil
}

// Log строит журнал переименования (CSV или XLSX)
func (s *RenamerService) Log(ctx context.Context, req MatchRequest, format string) (*LogResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = LogFormatCSV
	}
	if format != LogFormatCSV && format != LogFormatXLSX {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("Unsupported log format %q (use csv or xlsx)", format), nil)
	}

	run, err := s.match(ctx, req)
	if err != nil {
		return nil, err
	}

	rows := rename.BuildLog(rename.BuildPlan(run.results))
	var buf bytes.Buffer
	if format == LogFormatXLSX {
		err = rename.WriteXLSX(&buf, rows)
	} else {
		err = rename.WriteCSV(&buf, rows)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("encode rename log", err)
	}

	return &LogResult{Format: format, Rows: rows, Payload: buf.Bytes()}, nil
}

// Compare сравнивает два архива по путям и содержимому
func (s *RenamerService) Compare(ctx context.Context, req CompareRequest) (*diff.Result, error) {
	if err := requireZip(req.Archive1, "zip1"); err != nil {
		return nil, err
	}
	if err := requireZip(req.Archive2, "zip2"); err != nil {
		return nil, err
	}

	opts := s.compareOptions
	if req.PathMode != "" {
		opts.PathMode = diff.PathMode(req.PathMode)
	}
	engine, err := diff.NewEngine(opts)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid path_mode (use full or basename)", err)
	}

	a, err := s.openArchive(ctx, req.Archive1, "zip1")
	if err != nil {
		return nil, err
	}
	b, err := s.openArchive(ctx, req.Archive2, "zip2")
	if err != nil {
		return nil, err
	}

	result, err := engine.Compare(ctx, a, b)
	if err != nil {
		switch {
		case errors.Is(err, diff.ErrDuplicatePath):
			return nil, apperrors.NewValidationError(
				"Two entries of one archive map to the same path; use path_mode=full", err)
		case errors.Is(err, archive.ErrAllEntriesFailed):
			return nil, apperrors.NewFormatError("No readable entries in archive", err)
		default:
			return nil, mapContextError(err, "compare archives")
		}
	}
	return result, nil
}

// ValidateHTML5 проверяет архив HTML5-креатива
func (s *RenamerService) ValidateHTML5(ctx context.Context, upload Upload) (*html5.Report, error) {
	if err := requireZip(upload, "zip_file"); err != nil {
		return nil, err
	}
	a, err := s.openArchive(ctx, upload, "zip_file")
	if err != nil {
		return nil, err
	}
	report, err := s.validator.Validate(ctx, a)
	if err != nil {
		return nil, mapContextError(err, "validate html5")
	}
	return report, nil
}

// match проверяет входные данные, читает лист и архив, затем сопоставляет
// Проверки выполняются до разбора файлов, разбор до сопоставления.
func (s *RenamerService) match(ctx context.Context, req MatchRequest) (*matchRun, error) {
	if err := requireZip(req.Archive, "zip_file"); err != nil {
		return nil, err
	}
	if err := requireSheet(req.Sheet); err != nil {
		return nil, err
	}

	opts := s.matchOptions
	if req.Threshold != nil {
		opts.Threshold = *req.Threshold
	}
	if req.Strategy != "" {
		opts.Strategy = matching.Strategy(req.Strategy)
	}
	engine, err := matching.NewEngine(opts)
	if err != nil {
		switch {
		case errors.Is(err, matching.ErrInvalidThreshold):
			return nil, apperrors.NewValidationError("Threshold must be between 0 and 1 (or 0 and 100)", err)
		case errors.Is(err, matching.ErrUnknownStrategy):
			return nil, apperrors.NewValidationError("Unknown strategy (use greedy or exclusive)", err)
		default:
			return nil, apperrors.NewInternalError("create matching engine", err)
		}
	}

	sheetOpts := s.sheetOptions
	sheetOpts.SheetName = strings.TrimSpace(req.SheetName)
	sheetOpts.ColumnHeader = strings.TrimSpace(req.ColumnHeader)
	sheetOpts.ColumnIndex = req.ColumnIndex
	sheet, err := importer.ReadCandidateNames(req.Sheet.Data, req.Sheet.Filename, sheetOpts)
	if err != nil {
		switch {
		case errors.Is(err, importer.ErrNoNameColumn):
			return nil, apperrors.NewFormatError("Could not find a column with creative names in the sheet", err).
				WithContext(req.Sheet.Filename)
		default:
			return nil, apperrors.NewFormatError("Sheet cannot be parsed", err).WithContext(req.Sheet.Filename)
		}
	}
	if len(sheet.Names) == 0 {
		return nil, apperrors.NewValidationError(
			"No creative names found in the sheet. Check the sheet name or column header.", ErrNoCandidates)
	}

	a, err := s.openArchive(ctx, req.Archive, "zip_file")
	if err != nil {
		return nil, err
	}

	results, err := engine.Match(ctx, matching.RefsFromEntries(a.Entries()), matching.CandidatesFromNames(sheet.Names))
	if err != nil {
		return nil, mapContextError(err, "match entries")
	}

	return &matchRun{archive: a, sheet: sheet, engine: engine, results: results}, nil
}

// openArchive открывает архив и переводит ошибки пакета archive в ошибки API
func (s *RenamerService) openArchive(ctx context.Context, upload Upload, field string) (*archive.Archive, error) {
	a, err := archive.OpenBytes(ctx, upload.Data, s.archiveOptions)
	if err != nil {
		switch {
		case errors.Is(err, archive.ErrInvalidArchive):
			return nil, apperrors.NewFormatError(fmt.Sprintf("%s is not a valid ZIP archive", field), err).
				WithContext(upload.Filename)
		case errors.Is(err, archive.ErrAllEntriesFailed):
			return nil, apperrors.NewFormatError(fmt.Sprintf("%s has no readable entries", field), err).
				WithContext(upload.Filename)
		default:
			return nil, mapContextError(err, "open "+field)
		}
	}
	if a.Len() == 0 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s contains no files", field), nil).
			WithContext(upload.Filename)
	}
	return a, nil
}

func requireZip(u Upload, field string) error {
	if u.Empty() {
		return apperrors.NewValidationError(fmt.Sprintf("%s is required", field), nil)
	}
	if !strings.EqualFold(filepath.Ext(u.Filename), ".zip") {
		return apperrors.NewValidationError(fmt.Sprintf("%s must be a .zip archive", field), nil)
	}
	return nil
}

func requireSheet(u Upload) error {
	if u.Empty() {
		return apperrors.NewValidationError("sheet is required", nil)
	}
	if !sheetExtensions[strings.ToLower(filepath.Ext(u.Filename))] {
		return apperrors.NewValidationError("sheet must be an .xlsx, .xlsm or .csv file", nil)
	}
	return nil
}

// mapContextError отмена запроса не маскируется под внутреннюю ошибку
func mapContextError(err error, operation string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperrors.NewInternalError(operation, err).WithContext(operation)
}
