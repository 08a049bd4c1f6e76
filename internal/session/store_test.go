package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimmartinquisitive/talkflow-n8n/internal/chat"
)

func TestCreateBecomesCurrent(t *testing.T) {
	store := NewStore(nil)

	first, err := store.Create()
	require.NoError(t, err)
	second, err := store.Create()
	require.NoError(t, err)

	current, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, chat.DefaultSessionTitle, current.Title)
	assert.Empty(t, current.Messages)
}

func TestCurrentWithoutSessions(t *testing.T) {
	store := NewStore(nil)
	_, err := store.Current()
	assert.ErrorIs(t, err, chat.ErrNoCurrentSession)
}

func TestSelect(t *testing.T) {
	store := NewStore(nil)
	first, _ := store.Create()
	store.Create()

	require.NoError(t, store.Select(first.ID))
	current, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)

	assert.ErrorIs(t, store.Select("missing"), chat.ErrSessionNotFound)
}

func TestRename(t *testing.T) {
	store := NewStore(nil)
	sess, _ := store.Create()

	require.NoError(t, store.Rename(sess.ID, "Trip planning"))
	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Trip planning", got.Title)

	assert.ErrorIs(t, store.Rename("missing", "x"), chat.ErrSessionNotFound)
}

func TestToggleFavorite(t *testing.T) {
	store := NewStore(nil)
	sess, _ := store.Create()

	favorite, err := store.ToggleFavorite(sess.ID)
	require.NoError(t, err)
	assert.True(t, favorite)

	favorite, err = store.ToggleFavorite(sess.ID)
	require.NoError(t, err)
	assert.False(t, favorite)

	_, err = store.ToggleFavorite("missing")
	assert.ErrorIs(t, err, chat.ErrSessionNotFound)
}

func TestDeleteCurrentFallsBackToMostRecent(t *testing.T) {
	store := NewStore(nil)
	first, _ := store.Create()
	second, _ := store.Create()
	third, _ := store.Create()

	require.NoError(t, store.Delete(third.ID))
	current, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID, "most recently created remaining session becomes current")

	require.NoError(t, store.Delete(second.ID))
	require.NoError(t, store.Delete(first.ID))
	_, err = store.Current()
	assert.ErrorIs(t, err, chat.ErrNoCurrentSession)
}

func TestDeleteNonCurrentKeepsCurrent(t *testing.T) {
	store := NewStore(nil)
	first, _ := store.Create()
	second, _ := store.Create()

	require.NoError(t, store.Delete(first.ID))
	current, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)

	assert.ErrorIs(t, store.Delete("missing"), chat.ErrSessionNotFound)
}

func TestAppendMessagesKeepsOrder(t *testing.T) {
	store := NewStore(nil)
	sess, _ := store.Create()

	user := chat.NewUserMessage(sess.ID, "Hello", nil)
	assistant := chat.NewAssistantMessage(sess.ID, "Hi there")
	require.NoError(t, store.AppendMessages(sess.ID, user))
	require.NoError(t, store.AppendMessages(sess.ID, assistant))

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, chat.RoleUser, got.Messages[0].Role)
	assert.Equal(t, "Hello", got.Messages[0].Content)
	assert.Equal(t, chat.RoleAssistant, got.Messages[1].Role)
	assert.Equal(t, "Hi there", got.Messages[1].Content)
	assert.LessOrEqual(t, got.Messages[0].Timestamp, got.Messages[1].Timestamp)

	assert.ErrorIs(t, store.AppendMessages("missing", user), chat.ErrSessionNotFound)
}

func TestAppendFirstUserMessageSetsTitle(t *testing.T) {
	store := NewStore(nil)
	sess, _ := store.Create()

	long := strings.Repeat("a", 60)
	require.NoError(t, store.AppendMessages(sess.ID, chat.NewUserMessage(sess.ID, long, nil)))

	got, _ := store.Get(sess.ID)
	assert.Equal(t, strings.Repeat("a", 40)+"...", got.Title)

	// a later message does not retitle
	require.NoError(t, store.AppendMessages(sess.ID, chat.NewUserMessage(sess.ID, "second", nil)))
	got, _ = store.Get(sess.ID)
	assert.Equal(t, strings.Repeat("a", 40)+"...", got.Title)
}

func TestRenamedSessionKeepsUserTitle(t *testing.T) {
	store := NewStore(nil)
	sess, _ := store.Create()

	require.NoError(t, store.Rename(sess.ID, "My title"))
	require.NoError(t, store.AppendMessages(sess.ID, chat.NewUserMessage(sess.ID, "Hello", nil)))

	got, _ := store.Get(sess.ID)
	assert.Equal(t, "My title", got.Title)
}

func TestListInsertionOrder(t *testing.T) {
	store := NewStore(nil)
	first, _ := store.Create()
	second, _ := store.Create()
	third, _ := store.Create()

	list := store.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{first.ID, second.ID, third.ID}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestSnapshotsAreIsolated(t *testing.T) {
	store := NewStore(nil)
	sess, _ := store.Create()
	require.NoError(t, store.AppendMessages(sess.ID, chat.NewUserMessage(sess.ID, "Hello", nil)))

	got, _ := store.Get(sess.ID)
	got.Messages[0].Content = "mutated"
	got.Title = "mutated"

	fresh, _ := store.Get(sess.ID)
	assert.Equal(t, "Hello", fresh.Messages[0].Content)
	assert.NotEqual(t, "mutated", fresh.Title)
}

func TestRestore(t *testing.T) {
	store := NewStore(nil)
	sessions := []chat.Session{
		{ID: "a", Title: "first", Messages: []chat.Message{}},
		{ID: "b", Title: "second", Messages: []chat.Message{}},
	}
	store.Restore(sessions)

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)

	current, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, "b", current.ID, "most recently created persisted session becomes current")
}
