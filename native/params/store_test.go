package params_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"orgledger/native/params"
	"orgledger/state"
	"orgledger/storage"
)

func newStore(t *testing.T) (*params.Store, *state.Manager) {
	t.Helper()
	manager := state.NewManager(storage.NewMemDB())
	return params.NewStore(manager), manager
}

func TestSettingsAbsentByDefault(t *testing.T) {
	store, _ := newStore(t)

	_, ok, err := store.FeeBasisPoints()
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = store.MinPoolDepositBasisPoints()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSetAndGetBasisPoints(t *testing.T) {
	store, _ := newStore(t)

	require.NoError(t, store.SetFeeBasisPoints(250))
	fee, ok, err := store.FeeBasisPoints()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(250), fee)

	require.NoError(t, store.SetMinPoolDepositBasisPoints(500))
	min, ok, err := store.MinPoolDepositBasisPoints()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(500), min)
}

func TestSetRejectsOverTenThousand(t *testing.T) {
	store, _ := newStore(t)
	require.Error(t, store.SetFeeBasisPoints(10_001))
	require.NoError(t, store.SetFeeBasisPoints(10_000))
}

func TestMalformedValueSurfacesError(t *testing.T) {
	store, manager := newStore(t)
	require.NoError(t, manager.ParamSet(params.KeyFeeBasisPoints, []byte("plenty")))
	_, _, err := store.FeeBasisPoints()
	require.ErrorContains(t, err, "malformed")
}

func TestUnsetRemovesSetting(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, store.SetFeeBasisPoints(100))
	require.NoError(t, store.Unset(params.KeyFeeBasisPoints))
	_, ok, err := store.FeeBasisPoints()
	require.NoError(t, err)
	require.False(t, ok)
}
