package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibechecc/points-backend/internal/models"
)

func TestDispatchStoresNotification(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	err := env.notifier.Dispatch(ctx, "bob", "vibe-1", "BOOST_RECEIVED", "title", "desc",
		models.NotificationMetadata{ContentID: "vibe-1", ActorID: "alice", Amount: 3})
	require.NoError(t, err)

	got, err := env.notifier.GetByRecipient(ctx, "bob", 1, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BOOST_RECEIVED", got[0].Type)
	assert.Equal(t, "alice", got[0].Metadata.ActorID)
	assert.Equal(t, models.NotificationStatusCreated, got[0].Status)
	assert.NotEmpty(t, got[0].DedupeKey)
}

func TestFanOutCapsRecipients(t *testing.T) {
	env := newTestEnv()
	env.cfg.Economy.NotificationFanOutLimit = 3
	ctx := context.Background()

	var followers []string
	for i := 0; i < 10; i++ {
		followers = append(followers, fmt.Sprintf("f%d", i))
	}
	env.follows.followers["alice"] = followers

	env.notifier.FanOutToFollowersAsync("alice", "vibe-1", "FOLLOWED_USER_BOOSTED", "t", "d",
		models.NotificationMetadata{ContentID: "vibe-1"})

	assert.Eventually(t, func() bool {
		n, _ := env.notifs.Count(ctx)
		return n == 3
	}, time.Second, 10*time.Millisecond)
}

func TestFanOutSkipsSubject(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.follows.followers["alice"] = []string{"alice", "bob"}

	env.notifier.FanOutToFollowersAsync("alice", "vibe-1", "FOLLOWED_USER_BOOSTED", "t", "d",
		models.NotificationMetadata{ContentID: "vibe-1"})

	assert.Eventually(t, func() bool {
		got, _ := env.notifs.FindByRecipient(ctx, "bob", 1, 10)
		return len(got) == 1
	}, time.Second, 10*time.Millisecond)

	got, err := env.notifs.FindByRecipient(ctx, "alice", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
