package entities

import (
	"context"

	"github.com/bcre/estate-import/internal/core"
	db "github.com/bcre/estate-import/internal/database"
)

// Districts is the fixed set of geographic district labels a listing may
// carry. Matching is exact: labels are stored verbatim.
var Districts = []string{
	"Islands", "Kwai Tsing", "Sai Kung", "Tsuen Wan", "Tuen Mun",
	"Yuen Long", "Wong Tai Sin", "Sha Tin", "Tai Po", "Kowloon City",
	"Kwun Tong", "Sham Shui Po", "Yau Tsim Mong", "Central & Western",
	"Eastern", "Southern", "Wan Chai", "North",
}

// ListingFieldSpecs defines the expected CSV columns for listing data.
// Photo columns hold path strings only; no files are transferred.
var ListingFieldSpecs = []core.FieldSpec{
	{Name: "realtor_id", Type: core.FieldInt, Required: true},
	{Name: "title", Type: core.FieldText, Required: true},
	{Name: "address", Type: core.FieldText},
	{Name: "street", Type: core.FieldText},
	{Name: "district", Type: core.FieldEnum, EnumValues: Districts},
	{Name: "description", Type: core.FieldText},
	{Name: "price", Type: core.FieldInt, Required: true},
	{Name: "bedrooms", Type: core.FieldInt},
	{Name: "bathrooms", Type: core.FieldNumeric},
	{Name: "clubhouse", Type: core.FieldInt},
	{Name: "sqft", Type: core.FieldInt},
	{Name: "estate_size", Type: core.FieldFloat},
	{Name: "is_published", Type: core.FieldBool},
	{Name: "list_date", Type: core.FieldDate},
	{Name: "photo_main", Type: core.FieldText},
	{Name: "photo_1", Type: core.FieldText},
	{Name: "photo_2", Type: core.FieldText},
	{Name: "photo_3", Type: core.FieldText},
	{Name: "photo_4", Type: core.FieldText},
	{Name: "photo_5", Type: core.FieldText},
	{Name: "photo_6", Type: core.FieldText},
}

func registerListings() {
	core.Register(core.EntityDefinition{
		Info: core.EntityInfo{
			Key:   "listing",
			Label: "Listings",
			Table: "listings_listing",
		},
		FieldSpecs: ListingFieldSpecs,
		BuildParams: func(row []string, idx core.HeaderIndex) (any, error) {
			return db.InsertListingParams{
				RealtorID:   core.ToPgInt8(getCell(row, idx, "realtor_id")),
				Title:       core.ToPgText(getCell(row, idx, "title")),
				Address:     core.ToPgText(getCell(row, idx, "address")),
				Street:      core.ToPgText(getCell(row, idx, "street")),
				District:    core.ToPgText(getCell(row, idx, "district")),
				Description: core.ToPgText(getCell(row, idx, "description")),
				Price:       core.ToPgInt8(getCell(row, idx, "price")),
				Bedrooms:    core.ToPgInt8(getCell(row, idx, "bedrooms")),
				Bathrooms:   core.ToPgNumeric(getCell(row, idx, "bathrooms")),
				Clubhouse:   core.ToPgInt8(getCell(row, idx, "clubhouse")),
				Sqft:        core.ToPgInt8(getCell(row, idx, "sqft")),
				EstateSize:  core.ToPgFloat8(getCell(row, idx, "estate_size")),
				IsPublished: core.BoolOrDefault(getCell(row, idx, "is_published"), false),
				ListDate:    core.ToPgDate(getCell(row, idx, "list_date")),
				PhotoMain:   core.ToPgText(getCell(row, idx, "photo_main")),
				Photo1:      core.ToPgText(getCell(row, idx, "photo_1")),
				Photo2:      core.ToPgText(getCell(row, idx, "photo_2")),
				Photo3:      core.ToPgText(getCell(row, idx, "photo_3")),
				Photo4:      core.ToPgText(getCell(row, idx, "photo_4")),
				Photo5:      core.ToPgText(getCell(row, idx, "photo_5")),
				Photo6:      core.ToPgText(getCell(row, idx, "photo_6")),
			}, nil
		},
		Insert: func(ctx context.Context, dbtx core.DBTX, params any) (int64, error) {
			return db.New(dbtx).InsertListing(ctx, params.(db.InsertListingParams))
		},
		Resolve: func(ctx context.Context, r *core.RealtorResolver, params any) error {
			return r.Resolve(ctx, params.(db.InsertListingParams).RealtorID.Int64)
		},
	})
}
