package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PresetRepository persists presets. Every method filters by userID.
// CreatePreset and UpdatePreset return ErrInvalidWorkoutReference when
// WorkoutID is set but not owned by userID.
type PresetRepository interface {
	CreatePreset(ctx context.Context, preset Preset) (*Preset, error)
	GetPreset(ctx context.Context, userID, presetID string) (*Preset, error)
	ListPresets(ctx context.Context, userID string) ([]Preset, error)
	UpdatePreset(ctx context.Context, preset Preset) (*Preset, error)
	DeletePreset(ctx context.Context, userID, presetID string) (*Preset, error)
}

// PresetInput is the writable part of a preset.
type PresetInput struct {
	Title     string
	WorkoutID *string
}

// PresetService manages workout presets.
type PresetService struct {
	repo PresetRepository
	now  func() time.Time
}

// NewPresetService constructs a PresetService.
func NewPresetService(repo PresetRepository) *PresetService {
	return &PresetService{repo: repo, now: time.Now}
}

// Create stores a new preset for userID.
func (s *PresetService) Create(ctx context.Context, userID string, input PresetInput) (*Preset, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	return s.repo.CreatePreset(ctx, Preset{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		WorkoutID: normalizeID(input.WorkoutID),
		CreatedAt: s.now().UTC(),
	})
}

// Get fetches a preset owned by userID.
func (s *PresetService) Get(ctx context.Context, userID, presetID string) (*Preset, error) {
	return s.repo.GetPreset(ctx, userID, presetID)
}

// List returns all presets owned by userID.
func (s *PresetService) List(ctx context.Context, userID string) ([]Preset, error) {
	return s.repo.ListPresets(ctx, userID)
}

// Update replaces the title and workout link of a preset owned by userID.
func (s *PresetService) Update(ctx context.Context, userID, presetID string, input PresetInput) (*Preset, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	return s.repo.UpdatePreset(ctx, Preset{
		ID:        presetID,
		UserID:    userID,
		Title:     title,
		WorkoutID: normalizeID(input.WorkoutID),
	})
}

// Delete removes a preset owned by userID and returns it.
func (s *PresetService) Delete(ctx context.Context, userID, presetID string) (*Preset, error) {
	return s.repo.DeletePreset(ctx, userID, presetID)
}
