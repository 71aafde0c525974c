package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/scool-backend/internal/domain"
)

// DefaultGroupManagerID backfills study_group.manager_id on databases
// created before groups had a manager.
const DefaultGroupManagerID uint = 4

type MigrateOptions struct {
	DefaultGroupManagerID uint
}

func (s *PostgresService) AutoMigrateAll(opts MigrateOptions) error {
	if err := AutoMigrateAll(s.db, opts); err != nil {
		return err
	}
	s.log.Info("Schema migrated", "driver", s.db.Dialector.Name())
	return nil
}

func AutoMigrateAll(db *gorm.DB, opts MigrateOptions) error {
	if opts.DefaultGroupManagerID == 0 {
		opts.DefaultGroupManagerID = DefaultGroupManagerID
	}
	if err := MigrateGroupManager(db, opts.DefaultGroupManagerID); err != nil {
		return err
	}
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := EnsureGroupManagerConstraint(db); err != nil {
		return err
	}
	return EnsureIndexes(db)
}

// MigrateGroupManager adds the required study_group.manager_id column to a
// table that predates it. Existing rows get defaultManagerID; the default is
// not kept afterwards on postgres. A missing table or an existing column is a
// no-op.
func MigrateGroupManager(db *gorm.DB, defaultManagerID uint) error {
	m := db.Migrator()
	if !m.HasTable(&types.Group{}) || m.HasColumn(&types.Group{}, "manager_id") {
		return nil
	}
	if defaultManagerID == 0 {
		return fmt.Errorf("group manager migration: default manager id required")
	}
	table := types.Group{}.TableName()

	if db.Dialector.Name() == "postgres" {
		return db.Transaction(func(tx *gorm.DB) error {
			stmts := []string{
				fmt.Sprintf(`ALTER TABLE %s ADD COLUMN manager_id bigint NOT NULL DEFAULT %d`, table, defaultManagerID),
				fmt.Sprintf(`ALTER TABLE %s ALTER COLUMN manager_id DROP DEFAULT`, table),
			}
			for _, stmt := range stmts {
				if err := tx.Exec(stmt).Error; err != nil {
					return fmt.Errorf("group manager migration: %w", err)
				}
			}
			return nil
		})
	}

	if err := db.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN manager_id integer NOT NULL DEFAULT %d`, table, defaultManagerID)).Error; err != nil {
		return fmt.Errorf("group manager migration: %w", err)
	}
	return nil
}

// EnsureGroupManagerConstraint deletes groups with their manager. sqlite
// cannot add constraints to an existing table, so there the service layer
// alone enforces it.
func EnsureGroupManagerConstraint(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	stmt := `
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_study_group_manager') THEN
		ALTER TABLE study_group
			ADD CONSTRAINT fk_study_group_manager
			FOREIGN KEY (manager_id) REFERENCES educational_manager(profile_id) ON DELETE CASCADE;
	END IF;
END $$;`
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("ensure group manager constraint: %w", err)
	}
	return nil
}

func EnsureIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_message_unread ON message (dialog_id, from_user_id) WHERE is_read = false`,
		`CREATE INDEX IF NOT EXISTS idx_timetable_group_date ON timetable (group_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_performance_student_date ON academic_performance (student_id, date)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
	}
	return nil
}
