package holdRepo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyLayout(t *testing.T) {
	assert.Equal(t, "hold:salon1:2026-09-01:h1", holdKey("salon1", "2026-09-01", "h1"))
	assert.Equal(t, "holdidx:salon1:2026-09-01", indexKey("salon1", "2026-09-01"))
	assert.Equal(t, "holdsess:sess1:salon1:2026-09-01", sessionKey("sess1", "salon1", "2026-09-01"))
	assert.Equal(t, "holdown:sess1", ownerKey("sess1"))
	assert.Equal(t, "holdch:salon1:2026-09-01", changeChannel("salon1", "2026-09-01"))
}

func TestOwnerMemberRoundTrip(t *testing.T) {
	member := ownerMember("salon1", "2026-09-01", "h1")
	salonID, date, holdID, ok := parseOwnerMember(member)
	require.True(t, ok)
	assert.Equal(t, "salon1", salonID)
	assert.Equal(t, "2026-09-01", date)
	assert.Equal(t, "h1", holdID)

	_, _, _, ok = parseOwnerMember("garbage")
	assert.False(t, ok)
}
