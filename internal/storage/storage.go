package storage

import (
	"context"
	"errors"
	"time"

	"taskvault/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// ErrDuplicateUsername is returned when a username is already taken.
var ErrDuplicateUsername = errors.New("username already exists")

// Storage is the persistence contract for users, profiles and tasks.
//
// Every task operation is parameterized by the owner's user id and filters
// on it inside the query itself. That predicate is the authorization
// mechanism of the whole system: a task owned by another user is
// indistinguishable from one that does not exist, and there is no separate
// permission check that could race with the data access.
type Storage interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, username, passwordDigest string) (*models.User, error)

	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	CreateProfile(ctx context.Context, userID uuid.UUID, patch models.ProfilePatch) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, patch models.ProfilePatch) (*models.Profile, error)

	ListTasks(ctx context.Context, userID uuid.UUID) ([]models.Task, error)
	GetTask(ctx context.Context, id int64, userID uuid.UUID) (*models.Task, error)
	CreateTask(ctx context.Context, userID uuid.UUID, in models.TaskCreate) (*models.Task, error)
	UpdateTask(ctx context.Context, id int64, userID uuid.UUID, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id int64, userID uuid.UUID) (bool, error)
}

type gormStorage struct {
	db *gorm.DB
}

// New builds a GORM-backed Storage.
func New(db *gorm.DB) Storage {
	return &gormStorage{db: db}
}

func (s *gormStorage) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormStorage) CreateUser(ctx context.Context, username, passwordDigest string) (*models.User, error) {
	user := models.User{
		ID:       uuid.Must(uuid.NewV4()),
		Username: username,
		Password: passwordDigest,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return &user, nil
}

func (s *gormStorage) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *gormStorage) CreateProfile(ctx context.Context, userID uuid.UUID, patch models.ProfilePatch) (*models.Profile, error) {
	profile := models.Profile{
		ID:          uuid.Must(uuid.NewV4()),
		UserID:      userID,
		DisplayName: patch.DisplayName,
		Email:       patch.Email,
		Bio:         patch.Bio,
		AvatarURL:   patch.AvatarURL,
	}
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile applies the supplied fields to the caller's profile,
// creating the row on first write.
func (s *gormStorage) UpdateProfile(ctx context.Context, userID uuid.UUID, patch models.ProfilePatch) (*models.Profile, error) {
	values := map[string]interface{}{"updated_at": time.Now()}
	if patch.DisplayName != nil {
		values["display_name"] = *patch.DisplayName
	}
	if patch.Email != nil {
		values["email"] = *patch.Email
	}
	if patch.Bio != nil {
		values["bio"] = *patch.Bio
	}
	if patch.AvatarURL != nil {
		values["avatar_url"] = *patch.AvatarURL
	}

	result := s.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Updates(values)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return s.CreateProfile(ctx, userID, patch)
	}
	return s.GetProfile(ctx, userID)
}

// ListTasks returns every task owned by userID, newest first. Ordering is
// created_at descending with id descending as tiebreak, so the result is
// stable for fixed data.
func (s *gormStorage) ListTasks(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	tasks := []models.Task{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *gormStorage) GetTask(ctx context.Context, id int64, userID uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *gormStorage) CreateTask(ctx context.Context, userID uuid.UUID, in models.TaskCreate) (*models.Task, error) {
	task := models.Task{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    models.PriorityMedium,
		DueDate:     in.DueDate,
	}
	if in.Completed != nil {
		task.Completed = *in.Completed
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.IsImportant != nil {
		task.IsImportant = *in.IsImportant
	}
	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies only the supplied fields to the row matching
// (id, userID) and refreshes updated_at. Returns nil when no such row
// exists for this owner.
func (s *gormStorage) UpdateTask(ctx context.Context, id int64, userID uuid.UUID, patch models.TaskPatch) (*models.Task, error) {
	values := map[string]interface{}{"updated_at": time.Now()}
	if patch.Title != nil {
		values["title"] = *patch.Title
	}
	if patch.Description != nil {
		values["description"] = *patch.Description
	}
	if patch.Completed != nil {
		values["completed"] = *patch.Completed
	}
	if patch.Priority != nil {
		values["priority"] = *patch.Priority
	}
	if patch.DueDate != nil {
		values["due_date"] = *patch.DueDate
	}
	if patch.IsImportant != nil {
		values["is_important"] = *patch.IsImportant
	}

	result := s.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(values)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return s.GetTask(ctx, id, userID)
}

// DeleteTask hard-deletes the row matching (id, userID) and reports whether
// anything was removed.
func (s *gormStorage) DeleteTask(ctx context.Context, id int64, userID uuid.UUID) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Task{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
