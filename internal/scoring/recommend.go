package scoring

// weakThreshold marks a signal as worth flagging to the user.
const weakThreshold = 0.5

// Compound messages take precedence over the individual messages of the
// signals they cover.
const (
	msgSalaryPair = "Compensation details are vague: no usable salary range or pay period is stated."
	msgNLPPair    = "The posting reads thin: few concrete skills and heavy buzzword phrasing."
	msgStaleness  = "The posting shows keep-alive behavior: old, mechanically reposted, with little real content change."
)

var individualMessages = map[string]string{
	SignalFreshness:         "The posting is old relative to its claimed publish date.",
	SignalLinkIntegrity:     "The application link is broken or loops through redirects.",
	SignalSalaryDisclosure:  "No salary range is disclosed.",
	SignalSourceCredibility: "The posting is not hosted on a recognized applicant tracking system.",
	SignalSkillDensity:      "Few concrete skills are named in the description.",
	SignalBuzzwordPenalty:   "The description leans heavily on buzzwords.",
	SignalCompPeriodClarity: "No pay period (hourly or annual) is stated.",
	SignalCadence:           "Updates arrive on a suspiciously regular schedule.",
	SignalChangeQuality:     "Reposts barely change the content.",
}

// Recommend derives user-facing messages from the weak signals. Related
// weak signals that co-occur collapse into one compound message: the salary
// pair, the NLP pair, and the cadence/change/freshness triple (two of the
// three suffice).
func Recommend(breakdown *Breakdown) []string {
	weak := make(map[string]bool)
	for _, e := range breakdown.entries() {
		if value, ok := e.signal.Value(); ok && value < weakThreshold {
			weak[e.name] = true
		}
	}
	if len(weak) == 0 {
		return nil
	}

	covered := make(map[string]bool)
	var messages []string

	if weak[SignalSalaryDisclosure] && weak[SignalCompPeriodClarity] {
		messages = append(messages, msgSalaryPair)
		covered[SignalSalaryDisclosure] = true
		covered[SignalCompPeriodClarity] = true
	}

	if weak[SignalSkillDensity] && weak[SignalBuzzwordPenalty] {
		messages = append(messages, msgNLPPair)
		covered[SignalSkillDensity] = true
		covered[SignalBuzzwordPenalty] = true
	}

	staleness := 0
	for _, name := range []string{SignalCadence, SignalChangeQuality, SignalFreshness} {
		if weak[name] {
			staleness++
		}
	}
	if staleness >= 2 {
		messages = append(messages, msgStaleness)
		covered[SignalCadence] = true
		covered[SignalChangeQuality] = true
		covered[SignalFreshness] = true
	}

	// Individual messages for weak signals no compound covered, in the
	// breakdown's stable order.
	for _, e := range breakdown.entries() {
		if weak[e.name] && !covered[e.name] {
			messages = append(messages, individualMessages[e.name])
		}
	}

	return messages
}
