package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(New(KindNotFound, "challenge not found")))
	assert.Equal(t, KindInvalidArgument, KindOf(Wrap(KindInvalidArgument, "invalid id", errors.New("bad hex"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain error")))
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := New(KindStorageUnavailable, "connection reset")
	wrapped := fmt.Errorf("fetching challenges: %w", inner)

	assert.Equal(t, KindStorageUnavailable, KindOf(wrapped))
	assert.Equal(t, "connection reset", MessageOf(wrapped))
}

func TestMessageOfHidesUnclassifiedDetails(t *testing.T) {
	err := errors.New("dial tcp 10.0.0.5:27017: i/o timeout")
	assert.Equal(t, "internal server error", MessageOf(err))
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := Wrap(KindStorageUnavailable, "failed to fetch tips", errors.New("server selection timeout"))
	assert.Contains(t, err.Error(), "failed to fetch tips")
	assert.Contains(t, err.Error(), "server selection timeout")
	assert.Equal(t, "server selection timeout", errors.Unwrap(err).Error())
}
