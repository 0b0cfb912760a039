package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnionIDsDeduplicates(t *testing.T) {
	// Creating a group with duplicated participants plus the creator
	// yields exactly the distinct set
	result := UnionIDs([]string{"u2", "u2", "u3"}, "u1")
	assert.ElementsMatch(t, []string{"u1", "u2", "u3"}, result)
}

func TestUnionIDsCreatorAlreadyPresent(t *testing.T) {
	result := UnionIDs([]string{"u1", "u2"}, "u1")
	assert.Equal(t, []string{"u1", "u2"}, result)
}

func TestUnionIDsSkipsEmpty(t *testing.T) {
	result := UnionIDs([]string{"", "u1"}, "")
	assert.Equal(t, []string{"u1"}, result)
}

func TestUnionIDsPreservesOrder(t *testing.T) {
	result := UnionIDs([]string{"b", "a"}, "c", "a")
	assert.Equal(t, []string{"b", "a", "c"}, result)
}

func TestRemoveIDAbsentIsNoOp(t *testing.T) {
	ids := []string{"u1", "u2"}
	assert.Equal(t, []string{"u1", "u2"}, RemoveID(ids, "u9"))
}

func TestRemoveID(t *testing.T) {
	assert.Equal(t, []string{"u1"}, RemoveID([]string{"u1", "u2"}, "u2"))
	assert.Empty(t, RemoveID([]string{"u1"}, "u1"))
}

func TestGroupAddParticipantIdempotent(t *testing.T) {
	group := Group{ParticipantIDs: []string{"u1", "u2"}}

	changed := group.AddParticipant("u2")
	assert.False(t, changed)
	assert.Equal(t, []string{"u1", "u2"}, []string(group.ParticipantIDs))

	changed = group.AddParticipant("u3")
	assert.True(t, changed)
	assert.Equal(t, []string{"u1", "u2", "u3"}, []string(group.ParticipantIDs))
}

func TestGroupRemoveParticipantIdempotent(t *testing.T) {
	group := Group{ParticipantIDs: []string{"u1", "u2"}}

	changed := group.RemoveParticipant("u9")
	assert.False(t, changed)
	assert.Equal(t, []string{"u1", "u2"}, []string(group.ParticipantIDs))

	changed = group.RemoveParticipant("u1")
	assert.True(t, changed)
	assert.Equal(t, []string{"u2"}, []string(group.ParticipantIDs))
}

func TestGroupHasParticipant(t *testing.T) {
	group := Group{ParticipantIDs: []string{"u1"}}
	assert.True(t, group.HasParticipant("u1"))
	assert.False(t, group.HasParticipant("u2"))
}
