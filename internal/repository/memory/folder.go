package memory

import (
	"context"
	"fmt"
	"sort"

	"applytrack/internal/domain"
	"applytrack/internal/domain/models"
	"applytrack/internal/domain/repositories"
)

// FolderRepository implements repositories.FolderRepository on a Store
type FolderRepository struct {
	store *Store
}

// NewFolderRepository creates a folder repository backed by store
func NewFolderRepository(store *Store) repositories.FolderRepository {
	return &FolderRepository{store: store}
}

func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	s := r.store
	defer s.lock(ctx)()
	if s.FailWith != nil {
		return s.FailWith
	}

	folder.ID = s.newID()
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = s.now()
	}
	if folder.UpdatedAt.IsZero() {
		folder.UpdatedAt = folder.CreatedAt
	}
	s.folders[folder.ID] = *folder
	return nil
}

func (r *FolderRepository) GetByID(ctx context.Context, id, userID string) (*models.Folder, error) {
	s := r.store
	defer s.rlock(ctx)()
	if s.FailWith != nil {
		return nil, s.FailWith
	}

	folder, ok := s.folders[id]
	if !ok || folder.UserID != userID {
		return nil, folderNotFound(id)
	}
	return &folder, nil
}

// List returns folders newest first; ties break on id so the order is stable
func (r *FolderRepository) List(ctx context.Context, userID string) ([]models.Folder, error) {
	s := r.store
	defer s.rlock(ctx)()
	if s.FailWith != nil {
		return nil, s.FailWith
	}

	folders := []models.Folder{}
	for _, folder := range s.folders {
		if folder.UserID == userID {
			folders = append(folders, folder)
		}
	}
	sort.Slice(folders, func(i, j int) bool {
		if !folders[i].CreatedAt.Equal(folders[j].CreatedAt) {
			return folders[i].CreatedAt.After(folders[j].CreatedAt)
		}
		return folders[i].ID < folders[j].ID
	})
	return folders, nil
}

func (r *FolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	s := r.store
	defer s.lock(ctx)()
	if s.FailWith != nil {
		return s.FailWith
	}

	existing, ok := s.folders[folder.ID]
	if !ok || existing.UserID != folder.UserID {
		return folderNotFound(folder.ID)
	}
	folder.CreatedAt = existing.CreatedAt
	s.folders[folder.ID] = *folder
	return nil
}

// Delete mirrors the postgres ON DELETE RESTRICT foreign key
func (r *FolderRepository) Delete(ctx context.Context, id, userID string) error {
	s := r.store
	defer s.lock(ctx)()
	if s.FailWith != nil {
		return s.FailWith
	}

	folder, ok := s.folders[id]
	if !ok || folder.UserID != userID {
		return folderNotFound(id)
	}
	for _, job := range s.jobs {
		if job.FolderID != nil && *job.FolderID == id {
			return &domain.ConflictError{
				Message:      "folder contains applications; move or delete them first",
				ResourceType: "folder",
				ResourceID:   id,
			}
		}
	}
	delete(s.folders, id)
	return nil
}

func folderNotFound(id string) error {
	return &domain.NotFoundError{
		Message:      fmt.Sprintf("folder %s not found", id),
		ResourceType: "folder",
		ResourceID:   id,
	}
}
