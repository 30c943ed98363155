package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"testcase-generator/internal/apperr"
	"testcase-generator/internal/domain"
	"testcase-generator/internal/repository"
	"testcase-generator/internal/storage"
)

var errExportsDisabled = apperr.New(apperr.KindFeatureDisabled, "Export storage is not configured")

// ExportResult describes an uploaded export document.
type ExportResult struct {
	Key      string
	Location string
	URL      string
	Count    int
}

// ExportService writes a user's test cases to object storage. Every key lives
// under <prefix>/<owner id>/ so listing and deleting stay owner-scoped.
type ExportService interface {
	Export(ctx context.Context, ownerID string) (*ExportResult, error)
	List(ctx context.Context, ownerID string) ([]storage.ObjectInfo, error)
	DeleteAll(ctx context.Context, ownerID string) error
}

type exportService struct {
	cases  repository.TestCaseRepository
	store  storage.Service
	opts   storage.UploadOptions
	urlTTL time.Duration
	now    func() time.Time
}

// NewExportService returns a service that answers FeatureDisabled for every
// call when store is nil or no bucket is configured.
func NewExportService(cases repository.TestCaseRepository, store storage.Service, opts storage.UploadOptions, urlTTL time.Duration) ExportService {
	if urlTTL <= 0 {
		urlTTL = 15 * time.Minute
	}
	return &exportService{
		cases:  cases,
		store:  store,
		opts:   opts,
		urlTTL: urlTTL,
		now:    time.Now,
	}
}

type exportDocument struct {
	UserID     string         `json:"userId"`
	ExportedAt time.Time      `json:"exportedAt"`
	Count      int            `json:"count"`
	TestCases  []exportRecord `json:"testCases"`
}

type exportRecord struct {
	ID             string          `json:"_id"`
	FunctionName   string          `json:"functionName"`
	Input          json.RawMessage `json:"input"`
	ExpectedOutput json.RawMessage `json:"expectedOutput"`
	Description    string          `json:"description,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (s *exportService) check(ownerID string) error {
	if s.store == nil || s.opts.Bucket == "" {
		return errExportsDisabled
	}
	if ownerID == "" {
		return apperr.New(apperr.KindUnauthenticated, "owner is required")
	}
	return nil
}

func (s *exportService) Export(ctx context.Context, ownerID string) (*ExportResult, error) {
	if err := s.check(ownerID); err != nil {
		return nil, err
	}

	cases, err := s.cases.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal(err, "list test cases for export")
	}

	now := s.now().UTC()
	doc := exportDocument{
		UserID:     ownerID,
		ExportedAt: now,
		Count:      len(cases),
		TestCases:  make([]exportRecord, len(cases)),
	}
	for i, tc := range cases {
		doc.TestCases[i] = toExportRecord(tc)
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, apperr.Internal(err, "encode export")
	}

	name := fmt.Sprintf("%s-%s.json", now.Format("20060102T150405Z"), uuid.NewString()[:8])
	relKey := storage.ObjectKey(ownerID, name)
	opts := s.opts
	opts.ContentType = "application/json"

	location, err := s.store.PutObject(ctx, relKey, bytes.NewReader(body), opts)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindUpstreamError, "Failed to upload export")
	}

	fullKey := storage.ObjectKey(s.opts.KeyPrefix, relKey)
	url, err := s.store.GetObjectURL(ctx, s.opts.Bucket, fullKey, s.urlTTL)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindUpstreamError, "Failed to sign export URL")
	}

	return &ExportResult{
		Key:      fullKey,
		Location: location,
		URL:      url,
		Count:    len(cases),
	}, nil
}

func (s *exportService) List(ctx context.Context, ownerID string) ([]storage.ObjectInfo, error) {
	if err := s.check(ownerID); err != nil {
		return nil, err
	}
	objects, err := s.store.ListObjects(ctx, s.opts.Bucket, s.ownerPrefix(ownerID))
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindUpstreamError, "Failed to list exports")
	}
	return objects, nil
}

func (s *exportService) DeleteAll(ctx context.Context, ownerID string) error {
	if err := s.check(ownerID); err != nil {
		return err
	}
	if err := s.store.DeletePrefix(ctx, s.opts.Bucket, s.ownerPrefix(ownerID)); err != nil {
		return apperr.Wrap(err, apperr.KindUpstreamError, "Failed to delete exports")
	}
	return nil
}

// ownerPrefix ends with a slash so one user id never matches another's prefix.
func (s *exportService) ownerPrefix(ownerID string) string {
	return strings.TrimSuffix(storage.ObjectKey(s.opts.KeyPrefix, ownerID), "/") + "/"
}

func toExportRecord(tc domain.TestCase) exportRecord {
	return exportRecord{
		ID:             tc.ID,
		FunctionName:   tc.FunctionName,
		Input:          tc.Input,
		ExpectedOutput: tc.ExpectedOutput,
		Description:    tc.Description,
		CreatedAt:      tc.CreatedAt,
		UpdatedAt:      tc.UpdatedAt,
	}
}
