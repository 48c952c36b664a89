package sectoral

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsVotingEligible(t *testing.T) {
	assert.False(t, IsVotingEligible(17, true))
	assert.True(t, IsVotingEligible(18, true))
	assert.False(t, IsVotingEligible(18, false))
	assert.False(t, IsVotingEligible(17, false))
}

func TestVoterAgeInconsistent(t *testing.T) {
	assert.True(t, VoterAgeInconsistent(17, true))
	assert.False(t, VoterAgeInconsistent(18, true))
	assert.False(t, VoterAgeInconsistent(17, false))
}
