package entities

import (
	"context"

	"github.com/bcre/estate-import/internal/core"
	db "github.com/bcre/estate-import/internal/database"
)

func init() {
	registerRealtors()
	registerListings()
}

// RealtorFieldSpecs defines the expected CSV columns for realtor data.
// Email and phone are checked for presence only; format validation is
// left to the destination application.
var RealtorFieldSpecs = []core.FieldSpec{
	{Name: "name", Type: core.FieldText, Required: true},
	{Name: "photo", Type: core.FieldText},
	{Name: "description", Type: core.FieldText},
	{Name: "phone", Type: core.FieldText, Required: true},
	{Name: "email", Type: core.FieldText, Required: true},
	{Name: "is_mvp", Type: core.FieldBool},
	{Name: "hire_date", Type: core.FieldDate},
}

func registerRealtors() {
	core.Register(core.EntityDefinition{
		Info: core.EntityInfo{
			Key:   "realtor",
			Label: "Realtors",
			Table: "realtors_realtor",
		},
		FieldSpecs: RealtorFieldSpecs,
		BuildParams: func(row []string, idx core.HeaderIndex) (any, error) {
			return db.InsertRealtorParams{
				Name:        core.ToPgText(getCell(row, idx, "name")),
				Photo:       core.ToPgText(getCell(row, idx, "photo")),
				Description: core.ToPgText(getCell(row, idx, "description")),
				Phone:       core.ToPgText(getCell(row, idx, "phone")),
				Email:       core.ToPgText(getCell(row, idx, "email")),
				IsMvp:       core.BoolOrDefault(getCell(row, idx, "is_mvp"), false),
				HireDate:    core.ToPgDate(getCell(row, idx, "hire_date")),
			}, nil
		},
		Insert: func(ctx context.Context, dbtx core.DBTX, params any) (int64, error) {
			return db.New(dbtx).InsertRealtor(ctx, params.(db.InsertRealtorParams))
		},
	})
}
