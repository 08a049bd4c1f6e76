package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimmartinquisitive/talkflow-n8n/internal/chat"
)

type recordingPersister struct {
	saved     []string
	renamed   []string
	deleted   []string
	favorites []string
	messages  []string
	fail      error
}

func (p *recordingPersister) SaveSession(s chat.Session) error {
	p.saved = append(p.saved, s.ID)
	return p.fail
}

func (p *recordingPersister) RenameSession(id, title string) error {
	p.renamed = append(p.renamed, id)
	return p.fail
}

func (p *recordingPersister) DeleteSession(id string) error {
	p.deleted = append(p.deleted, id)
	return p.fail
}

func (p *recordingPersister) SetFavorite(id string, favorite bool) error {
	p.favorites = append(p.favorites, id)
	return p.fail
}

func (p *recordingPersister) SaveMessage(m chat.Message) error {
	p.messages = append(p.messages, m.ID)
	return p.fail
}

func TestEveryMutationReachesPersister(t *testing.T) {
	persister := &recordingPersister{}
	store := NewStore(persister)

	sess, err := store.Create()
	require.NoError(t, err)
	require.NoError(t, store.Rename(sess.ID, "renamed"))
	_, err = store.ToggleFavorite(sess.ID)
	require.NoError(t, err)

	msg := chat.NewUserMessage(sess.ID, "Hello", nil)
	require.NoError(t, store.AppendMessages(sess.ID, msg))
	require.NoError(t, store.Delete(sess.ID))

	assert.Equal(t, []string{sess.ID}, persister.saved)
	assert.Equal(t, []string{sess.ID}, persister.favorites)
	assert.Equal(t, []string{msg.ID}, persister.messages)
	assert.Equal(t, []string{sess.ID}, persister.deleted)
	// only the explicit rename; auto-title does not fire on a renamed session
	assert.Equal(t, []string{sess.ID}, persister.renamed)
}

func TestPersisterFailureSurfaces(t *testing.T) {
	persister := &recordingPersister{fail: errors.New("disk full")}
	store := NewStore(persister)

	_, err := store.Create()
	assert.ErrorContains(t, err, "disk full")
}
