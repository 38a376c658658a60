package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/config"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/metrics"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/models"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/policy"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/storage"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/logger"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var modelContentTypes = map[string]string{
	".stl": "model/stl",
	".obj": "model/obj",
	".3mf": "model/3mf",
}

func contentTypeForExtension(ext string) string {
	if ct, ok := modelContentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

type CatalogueQuery struct {
	Page   int
	Limit  int
	Search string
}

type CataloguePage struct {
	Files       []models.File `json:"files"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	TotalFiles  int64         `json:"totalFiles"`
}

type UploadInput struct {
	Name        string
	Description string
	FileName    string
	Size        int64
	Content     io.Reader
	Thumbnail   string
}

type UpdateInput struct {
	Name        *string
	Description *string
}

type CatalogueService struct {
	DB       *gorm.DB
	Store    storage.ObjectStore
	Audit    AuditRecorder
	Limits   config.UploadConfig
	PageSize int
}

func NewCatalogueService(db *gorm.DB, store storage.ObjectStore, audit AuditRecorder, uploadCfg config.UploadConfig, pageSize int) *CatalogueService {
	return &CatalogueService{
		DB:       db,
		Store:    store,
		Audit:    auditOrNoop(audit),
		Limits:   uploadCfg,
		PageSize: pageSize,
	}
}

func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}

func (s *CatalogueService) List(ctx context.Context, q CatalogueQuery) (*CataloguePage, error) {
	limit := q.Limit
	if limit < 1 {
		limit = s.PageSize
	}
	params := utils.NewPagination(q.Page, limit)

	filtered := func() *gorm.DB {
		query := s.DB.WithContext(ctx).Model(&models.File{})
		if term := strings.TrimSpace(q.Search); term != "" {
			query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(term))+"%")
		}
		return query
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, err
	}

	totalPages := utils.TotalPages(total, params.Limit)
	files := make([]models.File, 0, params.Limit)
	if params.Page <= totalPages {
		if err := utils.ApplyPagination(filtered(), params).
			Preload("Owner").
			Order("created_at DESC").
			Order("id DESC").
			Find(&files).Error; err != nil {
			return nil, err
		}
	}

	return &CataloguePage{
		Files:       files,
		TotalPages:  totalPages,
		CurrentPage: params.Page,
		TotalFiles:  total,
	}, nil
}

func (s *CatalogueService) Get(ctx context.Context, id uuid.UUID) (*models.File, error) {
	var file models.File
	if err := s.DB.WithContext(ctx).Preload("Owner").First(&file, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

// Open returns the record and a stream of its primary blob. The caller
// closes the stream.
func (s *CatalogueService) Open(ctx context.Context, id uuid.UUID) (*models.File, io.ReadCloser, error) {
	file, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.Store.Download(ctx, file.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			logger.Error("catalogue_blob_missing", err, map[string]interface{}{
				"file_id":     file.ID.String(),
				"storage_key": file.StorageKey,
			})
		}
		return nil, nil, err
	}
	return file, rc, nil
}

func (s *CatalogueService) validateUpload(in UploadInput) (string, *Thumbnail, error) {
	if strings.TrimSpace(in.Name) == "" {
		return "", nil, invalid("name", "name is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return "", nil, invalid("description", "description is required")
	}
	if in.Content == nil || in.FileName == "" {
		return "", nil, invalid("file", "file is required")
	}

	ext := strings.ToLower(filepath.Ext(in.FileName))
	allowed := false
	for _, candidate := range s.Limits.AllowedExtensions {
		if ext == candidate {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", nil, invalid("file", fmt.Sprintf("only %s files are allowed", strings.Join(s.Limits.AllowedExtensions, ", ")))
	}
	if in.Size <= 0 {
		return "", nil, invalid("file", "file is empty")
	}
	if s.Limits.MaxFileBytes > 0 && in.Size > s.Limits.MaxFileBytes {
		return "", nil, invalid("file", fmt.Sprintf("file exceeds %d bytes", s.Limits.MaxFileBytes))
	}

	if strings.TrimSpace(in.Thumbnail) == "" {
		if s.Limits.RequireThumbnail {
			return "", nil, invalid("thumbnail", "thumbnail is required")
		}
		return ext, nil, nil
	}
	thumb, err := DecodeThumbnail(in.Thumbnail, s.Limits.MaxThumbnailBytes)
	if err != nil {
		return "", nil, err
	}
	return ext, thumb, nil
}

func (s *CatalogueService) Upload(ctx context.Context, actor policy.Actor, in UploadInput) (*models.File, error) {
	ext, thumb, err := s.validateUpload(in)
	if err != nil {
		metrics.Uploads.WithLabelValues("rejected").Inc()
		return nil, err
	}

	if err := policy.Evaluate(policy.Request{Actor: actor, Action: policy.ActionUpload}); err != nil {
		metrics.Uploads.WithLabelValues("denied").Inc()
		return nil, err
	}

	fileID := uuid.New()
	owner := actor.ID.String()
	storageKey := path.Join(storage.ModelPrefix, owner, fileID.String()+ext)
	contentType := contentTypeForExtension(ext)

	if err := s.Store.Upload(ctx, storageKey, in.Content, in.Size, contentType); err != nil {
		metrics.Uploads.WithLabelValues(metrics.OutcomeFailure).Inc()
		return nil, fmt.Errorf("failed storing model file: %w", err)
	}

	record := models.File{
		BaseModel:   models.BaseModel{ID: fileID},
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		FileName:    filepath.Base(in.FileName),
		Size:        in.Size,
		ContentType: contentType,
		StorageKey:  storageKey,
		StorageURL:  s.Store.PublicURL(storageKey),
		OwnerID:     actor.ID,
	}

	keys := []string{storageKey}
	if thumb != nil {
		thumbKey := path.Join(storage.ThumbnailPrefix, owner, fileID.String()+thumb.Extension)
		if err := s.Store.Upload(ctx, thumbKey, bytes.NewReader(thumb.Data), int64(len(thumb.Data)), thumb.ContentType); err != nil {
			s.cleanup(keys, "thumbnail_upload_failed")
			metrics.Uploads.WithLabelValues(metrics.OutcomeFailure).Inc()
			return nil, fmt.Errorf("failed storing thumbnail: %w", err)
		}
		keys = append(keys, thumbKey)
		thumbURL := s.Store.PublicURL(thumbKey)
		record.ThumbnailKey = &thumbKey
		record.ThumbnailURL = &thumbURL
	}

	if err := s.DB.WithContext(ctx).Create(&record).Error; err != nil {
		s.cleanup(keys, "record_create_failed")
		metrics.Uploads.WithLabelValues(metrics.OutcomeFailure).Inc()
		return nil, fmt.Errorf("failed creating file record: %w", err)
	}

	metrics.Uploads.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.UploadBytes.Add(float64(in.Size))
	s.Audit.Record(ctx, AuditEntry{
		UserID:       uuidPtr(actor.ID),
		Action:       models.AuditFileUpload,
		ResourceType: "file",
		ResourceID:   uuidPtr(record.ID),
		Details: map[string]interface{}{
			"name":      record.Name,
			"file_name": record.FileName,
			"size":      record.Size,
		},
	})

	return s.Get(ctx, record.ID)
}

// cleanup removes blobs written by a failed upload. It runs on a fresh
// context so a cancelled request still releases what it stored.
func (s *CatalogueService) cleanup(keys []string, reason string) {
	ctx := context.Background()
	for _, key := range keys {
		if err := s.Store.Delete(ctx, key); err != nil {
			logger.Error("upload_compensation_failed", err, map[string]interface{}{
				"storage_key": key,
				"reason":      reason,
			})
			continue
		}
		logger.Warn("upload_compensated", map[string]interface{}{
			"storage_key": key,
			"reason":      reason,
		})
	}
}

func (s *CatalogueService) Update(ctx context.Context, actor policy.Actor, id uuid.UUID, in UpdateInput) (*models.File, error) {
	if in.Name == nil && in.Description == nil {
		return nil, invalid("body", "name or description is required")
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("name", "name must not be empty")
		}
		updates["name"] = name
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if description == "" {
			return nil, invalid("description", "description must not be empty")
		}
		updates["description"] = description
	}

	file, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := policy.Evaluate(policy.Request{Actor: actor, Action: policy.ActionEditFile, OwnerID: file.OwnerID}); err != nil {
		return nil, err
	}

	if err := s.DB.WithContext(ctx).Model(&models.File{}).Where("id = ?", file.ID).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, AuditEntry{
		UserID:       uuidPtr(actor.ID),
		Action:       models.AuditFileUpdate,
		ResourceType: "file",
		ResourceID:   uuidPtr(file.ID),
		Details:      updates,
	})

	return s.Get(ctx, file.ID)
}

func (s *CatalogueService) Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	file, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.Evaluate(policy.Request{Actor: actor, Action: policy.ActionDeleteFile, OwnerID: file.OwnerID}); err != nil {
		return err
	}

	// The record delete only commits once the primary blob is gone, so a
	// failed storage call leaves the catalogue entry intact.
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.File{}, "id = ?", file.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrFileNotFound
		}
		if err := s.Store.Delete(ctx, file.StorageKey); err != nil {
			return fmt.Errorf("failed deleting model file: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if file.ThumbnailKey != nil {
		if err := s.Store.Delete(ctx, *file.ThumbnailKey); err != nil {
			logger.Error("thumbnail_delete_failed", err, map[string]interface{}{
				"file_id":       file.ID.String(),
				"thumbnail_key": *file.ThumbnailKey,
			})
		}
	}

	s.Audit.Record(ctx, AuditEntry{
		UserID:       uuidPtr(actor.ID),
		Action:       models.AuditFileDelete,
		ResourceType: "file",
		ResourceID:   uuidPtr(file.ID),
		Details: map[string]interface{}{
			"name":        file.Name,
			"storage_key": file.StorageKey,
		},
	})
	return nil
}
