package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	date := time.Date(2025, 5, 25, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 5, 25, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(date, createdAt, "m-1")
	assert.NotContains(t, token, "=", "token should be URL safe without padding")

	gotDate, gotCreated, gotID, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, date.Equal(gotDate))
	assert.True(t, createdAt.Equal(gotCreated))
	assert.Equal(t, "m-1", gotID)
}

func TestEncodeToken_NormalisesToUTC(t *testing.T) {
	rome := time.FixedZone("CEST", 2*60*60)
	local := time.Date(2025, 5, 25, 2, 0, 0, 0, rome)

	_, gotCreated, _, err := DecodeToken(EncodeToken(local, local, "x"))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, gotCreated.Location())
	assert.True(t, local.Equal(gotCreated))
}

func TestDecodeToken_Invalid(t *testing.T) {
	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	cases := map[string]string{
		"not base64":    "%%%",
		"too few parts": enc("2025-05-25T00:00:00Z|x"),
		"empty id":      enc("2025-05-25T00:00:00Z|2025-05-25T00:00:00Z|"),
		"bad date":      enc("yesterday|2025-05-25T00:00:00Z|id"),
		"bad created":   enc("2025-05-25T00:00:00Z|later|id"),
	}
	for name, token := range cases {
		_, _, _, err := DecodeToken(token)
		assert.Error(t, err, name)
	}
}
