package models

// AgeGroup buckets an age into the cohort label leaderboards and benchmark
// comparisons group on.
func AgeGroup(age int) string {
	switch {
	case age < 13:
		return "under_13"
	case age <= 15:
		return "13-15"
	case age <= 18:
		return "16-18"
	case age <= 21:
		return "19-21"
	case age <= 25:
		return "22-25"
	default:
		return "26_plus"
	}
}
