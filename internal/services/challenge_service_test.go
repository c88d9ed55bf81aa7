package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/echo-track/echo-track-api/internal/models"
	"github.com/echo-track/echo-track-api/pkg/apperr"
	"github.com/echo-track/echo-track-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMain(m *testing.M) {
	logger.InitLogger()
	os.Exit(m.Run())
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDurationDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"ten full days", date("2024-01-01"), date("2024-01-11"), 10},
		{"single day", date("2024-03-01"), date("2024-03-02"), 1},
		{"same instant", date("2024-01-01"), date("2024-01-01"), 0},
		{"inverted window clamps to zero", date("2024-01-11"), date("2024-01-01"), 0},
		{"partial day rounds up", date("2024-01-01"), date("2024-01-01").Add(36 * time.Hour), 2},
		{"one hour rounds up to a day", date("2024-01-01"), date("2024-01-01").Add(time.Hour), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DurationDays(tt.start, tt.end))
		})
	}
}

func TestDurationDaysNeverNegative(t *testing.T) {
	start := date("2024-06-01")
	for days := -30; days <= 30; days++ {
		end := start.AddDate(0, 0, days)
		got := DurationDays(start, end)
		assert.GreaterOrEqual(t, got, 0)
		if days > 0 {
			assert.Equal(t, days, got)
		}
	}
}

func TestResolveWindow(t *testing.T) {
	storedStart := date("2024-01-01")
	storedEnd := date("2024-01-11")

	ptr := func(t time.Time) *time.Time { return &t }

	t.Run("start only recomputes against stored end", func(t *testing.T) {
		newStart := date("2024-01-06")
		fields := resolveWindow(storedStart, storedEnd, &models.ChallengeUpdate{StartDate: ptr(newStart)})

		assert.Equal(t, newStart, fields["startDate"])
		assert.Equal(t, 5, fields["duration"])
		assert.NotContains(t, fields, "endDate")
	})

	t.Run("end only recomputes against stored start", func(t *testing.T) {
		newEnd := date("2024-01-31")
		fields := resolveWindow(storedStart, storedEnd, &models.ChallengeUpdate{EndDate: ptr(newEnd)})

		assert.Equal(t, newEnd, fields["endDate"])
		assert.Equal(t, 30, fields["duration"])
		assert.NotContains(t, fields, "startDate")
	})

	t.Run("both bounds replace the stored window", func(t *testing.T) {
		newStart := date("2024-02-01")
		newEnd := date("2024-02-08")
		fields := resolveWindow(storedStart, storedEnd, &models.ChallengeUpdate{
			StartDate: ptr(newStart),
			EndDate:   ptr(newEnd),
		})

		assert.Equal(t, newStart, fields["startDate"])
		assert.Equal(t, newEnd, fields["endDate"])
		assert.Equal(t, 7, fields["duration"])
	})

	t.Run("inverted window clamps duration to zero", func(t *testing.T) {
		fields := resolveWindow(storedStart, storedEnd, &models.ChallengeUpdate{
			StartDate: ptr(date("2024-03-01")),
			EndDate:   ptr(date("2024-02-01")),
		})

		assert.Equal(t, 0, fields["duration"])
	})
}

func TestCreateChallengeDropsClientSuppliedID(t *testing.T) {
	service := NewChallengeService(nil)

	clientID, err := primitive.ObjectIDFromHex("65b9a2f4e1d3c2b1a0f9e8d7")
	require.NoError(t, err)

	challenge := &models.Challenge{ID: clientID}
	_, err = service.CreateChallenge(context.Background(), challenge)

	require.Error(t, err)
	assert.True(t, challenge.ID.IsZero(), "client-supplied _id must not survive to the insert")
}

func TestCreateChallengeValidation(t *testing.T) {
	service := NewChallengeService(nil)

	t.Run("missing title", func(t *testing.T) {
		_, err := service.CreateChallenge(context.Background(), &models.Challenge{
			CreatedBy: "a@x.com",
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
	})

	t.Run("missing createdBy", func(t *testing.T) {
		_, err := service.CreateChallenge(context.Background(), &models.Challenge{
			Title: "30 days of running",
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
	})
}

func TestChallengeServiceRejectsMalformedIDs(t *testing.T) {
	service := NewChallengeService(nil)
	ctx := context.Background()

	t.Run("get", func(t *testing.T) {
		_, err := service.GetChallenge(ctx, "not-a-hex-id")
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
	})

	t.Run("update", func(t *testing.T) {
		_, err := service.UpdateChallenge(ctx, "123", &models.ChallengeUpdate{})
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
	})

	t.Run("increment participants", func(t *testing.T) {
		_, err := service.IncrementParticipants(ctx, "zzzz")
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
	})

	t.Run("delete", func(t *testing.T) {
		err := service.DeleteChallenge(ctx, "")
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
	})
}

func TestGetChallengesByCreatorRequiresEmail(t *testing.T) {
	service := NewChallengeService(nil)

	_, err := service.GetChallengesByCreator(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}
