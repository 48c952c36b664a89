package sectoral

// voting age per the 1987 Constitution
const votingAge = 18

// IsVotingEligible reports whether a resident may vote: of voting age and
// registered with the COMELEC.
func IsVotingEligible(age int, registeredVoter bool) bool {
	return age >= votingAge && registeredVoter
}

// VoterAgeInconsistent flags a registered voter below voting age. This is a
// data-entry warning surfaced to the encoder, not a hard error.
func VoterAgeInconsistent(age int, registeredVoter bool) bool {
	return registeredVoter && age < votingAge
}
