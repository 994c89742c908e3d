package redact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	t.Parallel()

	require.Equal(t, "us***@example.com", Email("user@example.com"))
	require.Equal(t, "***@example.com", Email("ab@example.com"))
	require.Equal(t, "***@example.com", Email("a@example.com"))
	require.Equal(t, "***", Email("not-an-email"))
	require.Equal(t, "***", Email(""))

	// Юникодная локальная часть режется по рунам, не по байтам.
	require.Equal(t, "ив***@example.com", Email("иван@example.com"))
}

func TestTokenAndPassword(t *testing.T) {
	t.Parallel()

	require.Equal(t, "[REDACTED_TOKEN]", Token())
	require.Equal(t, "[REDACTED_PASSWORD]", Password())
}
