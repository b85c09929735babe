package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertRealtor = `
INSERT INTO realtors_realtor (
	name, photo, description, phone, email, is_mvp, hire_date
) VALUES (
	$1, $2, $3, $4, $5, $6, $7
)
RETURNING id
`

// InsertRealtorParams holds the typed column values for one realtor row.
type InsertRealtorParams struct {
	Name        pgtype.Text
	Photo       pgtype.Text
	Description pgtype.Text
	Phone       pgtype.Text
	Email       pgtype.Text
	IsMvp       pgtype.Bool
	HireDate    pgtype.Date
}

// InsertRealtor inserts one realtor and returns the assigned identity.
func (q *Queries) InsertRealtor(ctx context.Context, arg InsertRealtorParams) (int64, error) {
	row := q.db.QueryRow(ctx, insertRealtor,
		arg.Name,
		arg.Photo,
		arg.Description,
		arg.Phone,
		arg.Email,
		arg.IsMvp,
		arg.HireDate,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const realtorExists = `
SELECT EXISTS (SELECT 1 FROM realtors_realtor WHERE id = $1)
`

// RealtorExists reports whether a realtor with the given id is stored.
func (q *Queries) RealtorExists(ctx context.Context, id int64) (bool, error) {
	row := q.db.QueryRow(ctx, realtorExists, id)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}
