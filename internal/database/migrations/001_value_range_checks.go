package migrations

import "gorm.io/gorm"

// Range checks mirroring the clinical bounds enforced at log creation.
func init() {
	Register("001_value_range_checks", func(db *gorm.DB) error {
		stmts := []string{
			`ALTER TABLE blood_pressure_logs ADD CONSTRAINT check_systolic_range CHECK (systolic > 0 AND systolic < 300)`,
			`ALTER TABLE blood_pressure_logs ADD CONSTRAINT check_diastolic_range CHECK (diastolic > 0 AND diastolic < 200)`,
			`ALTER TABLE sugar_logs ADD CONSTRAINT check_sugar_value_range CHECK (value > 0 AND value < 1000)`,
		}
		for _, stmt := range stmts {
			if err := db.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	}, func(db *gorm.DB) error {
		stmts := []string{
			`ALTER TABLE blood_pressure_logs DROP CONSTRAINT IF EXISTS check_systolic_range`,
			`ALTER TABLE blood_pressure_logs DROP CONSTRAINT IF EXISTS check_diastolic_range`,
			`ALTER TABLE sugar_logs DROP CONSTRAINT IF EXISTS check_sugar_value_range`,
		}
		for _, stmt := range stmts {
			if err := db.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
