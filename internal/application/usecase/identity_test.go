package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/infrastructure/repository"
	"github.com/waste3d/coursehub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryReplayGuard struct {
	seen map[string]bool
	err  error
}

func (g *memoryReplayGuard) FirstSeen(_ context.Context, id string) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	if g.seen[id] {
		return false, nil
	}
	g.seen[id] = true
	return true, nil
}

func (g *memoryReplayGuard) Forget(_ context.Context, id string) error {
	delete(g.seen, id)
	return nil
}

func event(t *testing.T, typ string, data map[string]interface{}) IdentityEvent {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return IdentityEvent{Type: typ, Data: raw}
}

func userData(id, email, first, last, role string) map[string]interface{} {
	return map[string]interface{}{
		"id":              id,
		"first_name":      first,
		"last_name":       last,
		"email_addresses": []map[string]string{{"email_address": email}},
		"public_metadata": map[string]string{"role": role},
	}
}

func TestIdentityLifecycle(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	users := repository.NewUserRepository(db)
	uc := NewIdentityUseCase(users, &memoryReplayGuard{seen: map[string]bool{}}, testutil.Logger(t))

	require.NoError(t, uc.HandleEvent(ctx, "msg_1", event(t, EventUserCreated, userData("user_abc", "a@example.com", "Ada", "Lovelace", ""))))
	u, err := users.GetByExternalID(ctx, "user_abc")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", u.Name)
	assert.Equal(t, domain.RoleStudent, u.Role)

	require.NoError(t, uc.HandleEvent(ctx, "msg_2", event(t, EventUserUpdated, userData("user_abc", "ada@example.com", "Ada", "", "admin"))))
	u, err = users.GetByExternalID(ctx, "user_abc")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	// Replayed delivery is ignored.
	require.NoError(t, uc.HandleEvent(ctx, "msg_2", event(t, EventUserUpdated, userData("user_abc", "other@example.com", "X", "", ""))))
	u, err = users.GetByExternalID(ctx, "user_abc")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)

	require.NoError(t, uc.HandleEvent(ctx, "msg_3", event(t, EventUserDeleted, map[string]interface{}{"id": "user_abc"})))
	_, err = users.GetByExternalID(ctx, "user_abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIdentityUpdateOfUnknownUserCreatesIt(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	users := repository.NewUserRepository(db)
	uc := NewIdentityUseCase(users, &memoryReplayGuard{err: errors.New("redis down")}, testutil.Logger(t))

	require.NoError(t, uc.HandleEvent(ctx, "msg_1", event(t, EventUserUpdated, userData("user_new", "n@example.com", "N", "", ""))))
	_, err := users.GetByExternalID(ctx, "user_new")
	assert.NoError(t, err)
}

func TestIdentityRejectsMalformedEvents(t *testing.T) {
	ctx := context.Background()
	uc := NewIdentityUseCase(repository.NewUserRepository(testutil.DB(t)), nil, testutil.Logger(t))

	err := uc.HandleEvent(ctx, "", IdentityEvent{Type: EventUserCreated, Data: json.RawMessage(`[1]`)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	guard := &memoryReplayGuard{seen: map[string]bool{}}
	guarded := NewIdentityUseCase(repository.NewUserRepository(testutil.DB(t)), guard, testutil.Logger(t))
	err = guarded.HandleEvent(ctx, "msg_bad", IdentityEvent{Type: EventUserCreated, Data: json.RawMessage(`[1]`)})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, guard.seen["msg_bad"], "failed delivery must be released")

	err = uc.HandleEvent(ctx, "", event(t, EventUserCreated, map[string]interface{}{"first_name": "x"}))
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.NoError(t, uc.HandleEvent(ctx, "", event(t, "session.created", map[string]interface{}{"id": "sess_1"})))
}
