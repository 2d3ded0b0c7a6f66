package stats_test

import (
	"context"
	"testing"

	"github.com/libyanfood/site/internal/database"
	"github.com/libyanfood/site/internal/models"
	"github.com/libyanfood/site/internal/stats"
	"github.com/libyanfood/site/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsHandler(t *testing.T) {
	app := testutils.SetupSeededApp(t)
	token := testutils.AdminToken(t)

	require.NoError(t, database.DB.Create(&[]models.ContactMessage{
		{Name: "أ", Email: "a@x.ly", Message: "1"},
		{Name: "ب", Email: "b@x.ly", Message: "2", IsRead: true},
		{Name: "ج", Email: "c@x.ly", Message: "3"},
	}).Error)

	t.Run("Success - Seeded counts", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/stats", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var d stats.Dashboard
		testutils.DecodeData(t, resp, &d)
		assert.Equal(t, int64(6), d.Services)
		assert.Equal(t, int64(3), d.Projects)
		assert.Equal(t, int64(3), d.Testimonials)
		assert.Equal(t, int64(3), d.News)
		assert.Equal(t, int64(2), d.UnreadMessages)
		assert.Equal(t, int64(3), d.TotalMessages)
	})

	t.Run("Success - Inactive records not counted", func(t *testing.T) {
		require.NoError(t, database.DB.Model(&models.Service{}).Where("order_num > ?", 4).Update("is_active", false).Error)

		d, err := stats.Collect(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(4), d.Services)
	})

	t.Run("Error - Without token", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/stats", nil, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
	})
}
