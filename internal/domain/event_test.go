package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_EnrollsOrganizer(t *testing.T) {
	date := time.Date(2025, 1, 10, 18, 0, 0, 0, time.UTC)
	e := NewEvent("Launch", "Product launch party", date, "HQ", "user-1")

	require.Len(t, e.Participants, 1)
	assert.Equal(t, "user-1", e.Participants[0].UserID)
	assert.Equal(t, RoleOrganizer, e.Participants[0].Role)
	assert.Nil(t, e.Participants[0].Status)
	assert.Equal(t, "user-1", e.OrganizerID)
}

func TestEvent_AccessPredicates(t *testing.T) {
	e := NewEvent("Launch", "", time.Now(), "HQ", "owner")
	e.Participants = append(e.Participants, Participant{UserID: "guest", Role: RoleAttendee})

	assert.True(t, e.CanDelete("owner"))
	assert.False(t, e.CanDelete("guest"))
	assert.True(t, e.CanInvite("owner"))
	assert.False(t, e.CanInvite("guest"))

	// Reads and joins are open to any authenticated caller.
	assert.True(t, e.CanRead("stranger"))
	assert.True(t, e.CanJoin("stranger"))

	assert.True(t, e.IsParticipant("owner"))
	assert.True(t, e.IsParticipant("guest"))
	assert.False(t, e.IsParticipant("stranger"))
}

func TestRSVPStatus_Valid(t *testing.T) {
	assert.True(t, StatusGoing.Valid())
	assert.True(t, StatusMaybe.Valid())
	assert.True(t, StatusNotGoing.Valid())
	assert.False(t, RSVPStatus("going").Valid())
	assert.False(t, RSVPStatus("").Valid())
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleOrganizer.Valid())
	assert.True(t, RoleAttendee.Valid())
	assert.False(t, Role("admin").Valid())
}
