package jwt

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	tok, err := Issue("s3cret", 42, "customer", 1)
	require.NoError(t, err)

	parsed, err := ParseAuth("Bearer "+tok, "s3cret")
	require.NoError(t, err)

	mc := parsed.Claims.(jwt.MapClaims)
	require.Equal(t, float64(42), mc["sub"])
	require.Equal(t, "customer", mc["role"])
}

func TestParseAuth_WrongSecret(t *testing.T) {
	tok, err := Issue("s3cret", 42, "customer", 1)
	require.NoError(t, err)

	_, err = ParseAuth("Bearer "+tok, "other")
	require.Error(t, err)
}

func TestParseAuth_Expired(t *testing.T) {
	tok, err := Issue("s3cret", 42, "customer", -1)
	require.NoError(t, err)

	_, err = ParseAuth("Bearer "+tok, "s3cret")
	require.Error(t, err)
}

func TestParseAuth_MissingToken(t *testing.T) {
	_, err := ParseAuth("", "s3cret")
	require.Error(t, err)

	_, err = ParseAuth("Bearer ", "s3cret")
	require.Error(t, err)
}
