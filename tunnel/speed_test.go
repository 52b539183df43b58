package tunnel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixedSpeed(t *testing.T) {
	require.Equal(t, 7, FixedSpeed(7).DefaultSpeed())
}

func TestUniformSpeed_StaysInBounds(t *testing.T) {
	u := NewUniformSpeed(2, 6, 99)
	for i := 0; i < 200; i++ {
		s := u.DefaultSpeed()
		require.GreaterOrEqual(t, s, 2)
		require.LessOrEqual(t, s, 6)
	}
}

func TestUniformSpeed_DegenerateRange(t *testing.T) {
	u := NewUniformSpeed(4, 4, 1)
	require.Equal(t, 4, u.DefaultSpeed())
}
