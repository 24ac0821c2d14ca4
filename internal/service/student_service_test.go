package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-notice-api/internal/dto"
	"github.com/noah-isme/campus-notice-api/internal/models"
	appErrors "github.com/noah-isme/campus-notice-api/pkg/errors"
)

func TestStudentServiceCreateAppends(t *testing.T) {
	store := newMockDocumentStore(models.NewDocument())
	svc := NewStudentService(store, nil, nil, nil)
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	svc.now = func() time.Time { return at }

	first, err := svc.Create(context.Background(), dto.CreateStudentLoginRequest{Name: "Asha", Dept: "CSE"})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), dto.CreateStudentLoginRequest{Name: "Ravi", Dept: "ECE"})
	require.NoError(t, err)

	assert.Equal(t, at.UnixMilli(), first.ID)
	assert.Equal(t, first.ID+1, second.ID)
	assert.Equal(t, "2024-01-01T04:30:00.000Z", first.LoginTime)

	students, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Asha", students[0].Name)
	assert.Equal(t, "Ravi", students[1].Name)

	latest, err := svc.ListLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ravi", latest[0].Name)
}

func TestStudentServiceCreateValidation(t *testing.T) {
	store := newMockDocumentStore(models.Document{Students: []models.StudentLogin{{ID: 1, Name: "Asha", Dept: "CSE"}}})
	svc := NewStudentService(store, nil, nil, nil)

	for _, req := range []dto.CreateStudentLoginRequest{{Name: "Asha"}, {Dept: "CSE"}, {}} {
		_, err := svc.Create(context.Background(), req)
		appErr := appErrors.FromError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
		assert.Equal(t, "Name and Dept are required", appErr.Message)
	}
	assert.Equal(t, 0, store.writes)
	assert.Len(t, store.Read(context.Background()).Students, 1)
}

func TestStudentServiceCreateStoreFailure(t *testing.T) {
	store := newMockDocumentStore(models.NewDocument())
	store.updateErr = errStoreDown
	svc := NewStudentService(store, nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateStudentLoginRequest{Name: "Asha", Dept: "CSE"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInternal.Status, appErr.Status)
	assert.Equal(t, "Error saving student data", appErr.Message)
	assert.Equal(t, "/srv/board/data.json", appErr.Detail)
	assert.ErrorIs(t, err, errStoreDown)
}
