package probe

import "fmt"

const maxScore = 100

var nuanceLevels = map[string]bool{"surface": true, "deep": true, "profound": true}

// verify checks the properties every evaluation result must have and
// returns a description of each one that does not hold.
func verify(res matchResult, caller, target string) []string {
	var problems []string
	if res.ProfileA != caller || res.ProfileB != target {
		problems = append(problems, fmt.Sprintf("pair is %s/%s, want %s/%s", res.ProfileA, res.ProfileB, caller, target))
	}
	if res.CompatibilityScore < 0 || res.CompatibilityScore > maxScore {
		problems = append(problems, fmt.Sprintf("score %d out of range", res.CompatibilityScore))
	}
	seen := make(map[string]bool, len(res.Nuances))
	for _, n := range res.Nuances {
		if !nuanceLevels[n.NuanceLevel] {
			problems = append(problems, fmt.Sprintf("%s: unknown level %q", n.Category, n.NuanceLevel))
		}
		if len(n.SharedItems) == 0 {
			problems = append(problems, n.Category+": no shared items")
		}
		if seen[n.Category] {
			problems = append(problems, n.Category+": duplicated")
		}
		seen[n.Category] = true
	}
	return problems
}
