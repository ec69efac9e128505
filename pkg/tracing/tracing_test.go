package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetup_Disabled(t *testing.T) {
	t.Parallel()
	shutdown, err := Setup(context.Background(), Config{}, "lending", "test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
