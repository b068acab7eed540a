package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/persistence"
)

const presetColumns = `id, user_id, title, workout_id, created_at`

func scanPreset(row pgx.Row) (*domain.Preset, error) {
	var p domain.Preset
	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.WorkoutID, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePreset inserts a preset. A workout reference must belong to the same user.
func (s *Store) CreatePreset(ctx context.Context, preset domain.Preset) (*domain.Preset, error) {
	const stmt = `INSERT INTO presets (id, user_id, title, workout_id, created_at)
        SELECT $1::uuid, $2::uuid, $3::text, $4::uuid, $5::timestamptz
        WHERE $4::uuid IS NULL OR EXISTS (SELECT 1 FROM workouts WHERE id = $4 AND user_id = $2)
        RETURNING ` + presetColumns

	created, err := scanPreset(s.db.QueryRow(ctx, stmt, preset.ID, preset.UserID, preset.Title, preset.WorkoutID, preset.CreatedAt))
	if err != nil {
		if missingRow(err) {
			return nil, domain.ErrInvalidWorkoutReference
		}
		return nil, wrap(err, "preset_insert")
	}
	return created, nil
}

// GetPreset returns domain.ErrPresetNotFound unless userID owns the preset.
func (s *Store) GetPreset(ctx context.Context, userID, presetID string) (*domain.Preset, error) {
	const query = `SELECT ` + presetColumns + ` FROM presets WHERE id = $1 AND user_id = $2`

	p, err := scanPreset(s.db.QueryRow(ctx, query, presetID, userID))
	if err != nil {
		return nil, notFoundOr(err, domain.ErrPresetNotFound, "preset_get")
	}
	return p, nil
}

// ListPresets returns the user's presets, newest first.
func (s *Store) ListPresets(ctx context.Context, userID string) ([]domain.Preset, error) {
	const query = `SELECT ` + presetColumns + ` FROM presets WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, wrap(err, "preset_list")
	}
	defer rows.Close()

	presets := make([]domain.Preset, 0)
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, wrap(err, "preset_list")
		}
		presets = append(presets, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(err, "preset_list")
	}
	return presets, nil
}

// UpdatePreset changes title and workout link. The workout reference is
// locked for the duration of the update.
func (s *Store) UpdatePreset(ctx context.Context, preset domain.Preset) (*domain.Preset, error) {
	const update = `UPDATE presets SET title = $3, workout_id = $4
        WHERE id = $1 AND user_id = $2
        RETURNING ` + presetColumns

	var updated *domain.Preset
	err := persistence.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		if preset.WorkoutID != nil {
			var one int
			err := tx.QueryRow(ctx, `SELECT 1 FROM workouts WHERE id = $1 AND user_id = $2 FOR SHARE`, *preset.WorkoutID, preset.UserID).Scan(&one)
			if err != nil {
				if missingRow(err) {
					return domain.ErrInvalidWorkoutReference
				}
				return err
			}
		}
		var err error
		updated, err = scanPreset(tx.QueryRow(ctx, update, preset.ID, preset.UserID, preset.Title, preset.WorkoutID))
		if err != nil {
			return notFoundOr(err, domain.ErrPresetNotFound, "preset_update")
		}
		return nil
	})
	if err != nil {
		return nil, wrap(err, "preset_update")
	}
	return updated, nil
}

// DeletePreset removes the preset and returns it. Workouts started from it
// keep existing with their preset link cleared.
func (s *Store) DeletePreset(ctx context.Context, userID, presetID string) (*domain.Preset, error) {
	const stmt = `DELETE FROM presets WHERE id = $1 AND user_id = $2 RETURNING ` + presetColumns

	p, err := scanPreset(s.db.QueryRow(ctx, stmt, presetID, userID))
	if err != nil {
		return nil, notFoundOr(err, domain.ErrPresetNotFound, "preset_delete")
	}
	return p, nil
}
