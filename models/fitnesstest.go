package models

import "github.com/uptrace/bun"

// FitnessTest is a catalog entry for one assessable test. Reference data,
// immutable at runtime.
type FitnessTest struct {
	bun.BaseModel `bun:"table:fitness_tests,alias:ft"`

	FitnessTestID int64  `bun:"fitness_test_id,pk,autoincrement" json:"fitnessTestID"`
	Name          string `bun:"name,notnull,unique" json:"name"`
	DisplayName   string `bun:"display_name,notnull" json:"displayName"`
	Description   string `bun:"description,notnull,default:''" json:"description,omitempty"`
	Unit          string `bun:"unit,notnull,default:''" json:"unit,omitempty"`
	IsActive      bool   `bun:"is_active,notnull,default:true" json:"isActive"`
}
