package feed

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"trendora/storefront/internal/model"
)

func TestRelativeLabel(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		at   *time.Time
		want string
	}{
		{"no messages yet", nil, ""},
		{"minutes ago", ts(now.Add(-10 * time.Minute)), "2:50 PM"},
		{"just under a day", ts(now.Add(-24*time.Hour + time.Minute)), "3:01 PM"},
		{"just over a day", ts(now.Add(-24*time.Hour - time.Minute)), "Yesterday"},
		{"just under two days", ts(now.Add(-48*time.Hour + time.Minute)), "Yesterday"},
		{"older", ts(now.Add(-72 * time.Hour)), "Aug 27, 2026"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RelativeLabel(tc.at, now))
		})
	}
}

func TestViewForResolvesCounterpart(t *testing.T) {
	userID, vendorID := uuid.New(), uuid.New()
	c := model.Conversation{
		ID:         uuid.New(),
		UserID:     userID,
		VendorID:   vendorID,
		UserName:   "Ada",
		VendorName: "Acme Outfitters",
	}
	now := time.Now()

	// A user sees the vendor; any non-user role sees the user.
	assert.Equal(t, "Acme Outfitters", ViewFor(model.ByUser(userID), c, now).CounterpartName)
	assert.Equal(t, "Ada", ViewFor(model.ByVendor(vendorID), c, now).CounterpartName)
}

func TestFilterForRole(t *testing.T) {
	id := uuid.New()

	assert.Equal(t, model.ByUser(id), model.FilterForRole("user", id))
	assert.Equal(t, model.ByVendor(id), model.FilterForRole("vendor", id))
	assert.Equal(t, model.ByVendor(id), model.FilterForRole("admin", id))
}
