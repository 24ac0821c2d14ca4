package service

import (
	"context"
	"time"

	"github.com/noah-isme/campus-notice-api/internal/models"
)

// displayDateLayout matches the board client's en-GB "01 Jan 2024" dates.
const displayDateLayout = "02 Jan 2006"

// loginTimeLayout is ISO-8601 with millisecond precision, as browsers emit it.
const loginTimeLayout = "2006-01-02T15:04:05.000Z07:00"

type documentStore interface {
	Read(ctx context.Context) models.Document
	Update(ctx context.Context, fn func(doc *models.Document) error) error
	Location() string
}

// nextID derives an id from the creation time, bumped past max so ids stay unique and increasing.
func nextID(now time.Time, max int64) int64 {
	id := now.UnixMilli()
	if id <= max {
		id = max + 1
	}
	return id
}
