package program

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type otherAccount struct{}

func (*otherAccount) Discriminator() uint8 { return 69 }

func TestDiscriminatorRegistry(t *testing.T) {
	registry := NewDiscriminatorRegistry()
	require.NoError(t, registry.RegisterAccount("FooBar", &FooBar{}))

	name, ok := registry.AccountName(69)
	require.True(t, ok)
	assert.Equal(t, "FooBar", name)

	_, ok = registry.AccountName(70)
	assert.False(t, ok)

	err := registry.RegisterAccount("Other", &otherAccount{})
	assert.True(t, errors.Is(err, ErrDuplicateDiscriminator))

	assert.Panics(t, func() {
		registry.MustRegisterAccount("Other", &otherAccount{})
	})

	name, _ = registry.AccountName(69)
	assert.Equal(t, "FooBar", name)
}
