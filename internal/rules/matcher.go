package rules

// FindFirstMatch returns the first enabled rule, in slice order, whose
// trigger condition matches pkt. Order is priority.
func FindFirstMatch(pkt Fields, rules []Rule) (Rule, bool) {
	for _, r := range rules {
		if !r.Enabled {
			continue
		}
		if Matches(pkt, r) {
			return r, true
		}
	}
	return Rule{}, false
}
