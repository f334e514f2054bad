package generator

// Config drives the synthetic member data generator.
type Config struct {
	NumMembers     int
	NumGroups      int
	Seed           int64
	EnrollmentDays int
}

// DefaultConfig returns baseline settings matching the demo dataset: 500
// members spread across 20 groups, enrolled over the trailing three years.
func DefaultConfig() Config {
	return Config{
		NumMembers:     500,
		NumGroups:      20,
		Seed:           42,
		EnrollmentDays: 1095,
	}
}
