package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertListing = `
INSERT INTO listings_listing (
	realtor_id, title, address, street, district, description,
	price, bedrooms, bathrooms, clubhouse, sqft, estate_size,
	is_published, list_date,
	photo_main, photo_1, photo_2, photo_3, photo_4, photo_5, photo_6
) VALUES (
	$1, $2, $3, $4, $5, $6,
	$7, $8, $9, $10, $11, $12,
	$13, $14,
	$15, $16, $17, $18, $19, $20, $21
)
RETURNING id
`

// InsertListingParams holds the typed column values for one listing row.
type InsertListingParams struct {
	RealtorID   pgtype.Int8
	Title       pgtype.Text
	Address     pgtype.Text
	Street      pgtype.Text
	District    pgtype.Text
	Description pgtype.Text
	Price       pgtype.Int8
	Bedrooms    pgtype.Int8
	Bathrooms   pgtype.Numeric
	Clubhouse   pgtype.Int8
	Sqft        pgtype.Int8
	EstateSize  pgtype.Float8
	IsPublished pgtype.Bool
	ListDate    pgtype.Date
	PhotoMain   pgtype.Text
	Photo1      pgtype.Text
	Photo2      pgtype.Text
	Photo3      pgtype.Text
	Photo4      pgtype.Text
	Photo5      pgtype.Text
	Photo6      pgtype.Text
}

// InsertListing inserts one listing and returns the assigned identity.
func (q *Queries) InsertListing(ctx context.Context, arg InsertListingParams) (int64, error) {
	row := q.db.QueryRow(ctx, insertListing,
		arg.RealtorID,
		arg.Title,
		arg.Address,
		arg.Street,
		arg.District,
		arg.Description,
		arg.Price,
		arg.Bedrooms,
		arg.Bathrooms,
		arg.Clubhouse,
		arg.Sqft,
		arg.EstateSize,
		arg.IsPublished,
		arg.ListDate,
		arg.PhotoMain,
		arg.Photo1,
		arg.Photo2,
		arg.Photo3,
		arg.Photo4,
		arg.Photo5,
		arg.Photo6,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}
