package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/horas-api/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateYParse(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u1", "jperez", "horas-api", 60)
	require.NoError(t, err)

	userID, username, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, "jperez", username)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u1", "jperez", "horas-api", 60)
	require.NoError(t, err)
	_, _, err = pkgjwt.Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestParse_TokenVencido(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u1", "jperez", "horas-api", -5)
	require.NoError(t, err)
	_, _, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "u1", "jperez", "horas-api", 60)
	assert.Error(t, err)
	_, _, err = pkgjwt.Parse("", "x")
	assert.Error(t, err)
}
