package membership

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMemberFromRequest(t *testing.T) {
	t.Run("copies applicant data", func(t *testing.T) {
		request := createTestRequest(t)
		request.SetContactDetails("+49 170 1234567", "Musterstr. 1, Berlin", "permanent")

		member, err := NewMemberFromRequest("M-2026-00001", request)
		require.NoError(t, err)

		assert.Equal(t, "M-2026-00001", member.MemberNumber)
		assert.Equal(t, request.ApplicantName, member.Name)
		assert.Equal(t, request.ApplicantEmail, member.Email)
		assert.Equal(t, request.Phone, member.Phone)
		assert.Equal(t, request.RequestedType, member.MemberType)
		assert.Equal(t, MemberStatusActive, member.Status)
		require.NotNil(t, member.SourceRequestID)
		assert.Equal(t, request.ID, *member.SourceRequestID)
	})

	t.Run("publishes MemberCreated event", func(t *testing.T) {
		request := createTestRequest(t)
		member, err := NewMemberFromRequest("M-2026-00002", request)
		require.NoError(t, err)

		events := member.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeMemberCreated, events[0].EventType())
	})

	t.Run("requires member number", func(t *testing.T) {
		request := createTestRequest(t)
		_, err := NewMemberFromRequest("", request)
		require.Error(t, err)
	})

	t.Run("requires source request", func(t *testing.T) {
		_, err := NewMemberFromRequest("M-2026-00003", nil)
		require.Error(t, err)
	})
}

func TestMember_Resign(t *testing.T) {
	request := createTestRequest(t)
	member, err := NewMemberFromRequest("M-2026-00001", request)
	require.NoError(t, err)

	require.NoError(t, member.Resign())
	assert.Equal(t, MemberStatusResigned, member.Status)
	assert.NotNil(t, member.ResignedAt)
	assert.False(t, member.IsActive())

	// Resigning twice is rejected
	require.Error(t, member.Resign())
}

func TestMember_UpdateContact(t *testing.T) {
	request := createTestRequest(t)
	member, err := NewMemberFromRequest("M-2026-00001", request)
	require.NoError(t, err)

	require.NoError(t, member.UpdateContact("new@example.org", "+49 30 555", "Neue Str. 2"))
	assert.Equal(t, "new@example.org", member.Email)

	require.Error(t, member.UpdateContact("broken@", "", ""))
}
