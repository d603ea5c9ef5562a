package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	require.Equal(t, "", Value[string](nil))
	require.Equal(t, 3, Value(Ptr(3)))
}

func TestPtrIfSet(t *testing.T) {
	require.Nil(t, PtrIfSet(""))
	require.Nil(t, PtrIfSet(0))
	require.Equal(t, "Lab", *PtrIfSet("Lab"))
}
