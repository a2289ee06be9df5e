package database

import (
	"context"
	"testing"
	"time"

	"shopdash/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := New("sqlite://file::memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndListNotifications(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"evt-1", "evt-2", "evt-3"} {
		n := models.Notification{
			EventID:   id,
			Topic:     "orders/create",
			Title:     "New order",
			Severity:  models.SeveritySuccess,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, db.RecordNotification(ctx, models.NewNotificationRecord(n, "demo.myshopify.com")))
	}

	records, err := db.ListNotifications(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "evt-3", records[0].EventID)
	assert.Equal(t, "evt-2", records[1].EventID)
	assert.NotEmpty(t, records[0].ID)
	assert.Equal(t, "demo.myshopify.com", records[0].ShopDomain)

	all, err := db.ListNotifications(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecordNotificationIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	n := models.Notification{ID: "n-1", EventID: "evt-1", Topic: "products/update", CreatedAt: time.Now()}
	require.NoError(t, db.RecordNotification(ctx, models.NewNotificationRecord(n, "demo.myshopify.com")))
	require.NoError(t, db.RecordNotification(ctx, models.NewNotificationRecord(n, "demo.myshopify.com")))

	records, err := db.ListNotifications(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
