package model

// ManifestEntry records one accepted program in generation order.
type ManifestEntry struct {
	File   string      `yaml:"file"`
	Files  []string    `yaml:"files,omitempty"`
	Spec   VariantSpec `yaml:"spec"`
	Hash   string      `yaml:"hash"`
	Expect Expectation `yaml:"expect"`
}

// Manifest describes one generation run. It is written next to the corpus
// and is sufficient to re-render and verify every entry.
type Manifest struct {
	Seed      uint64            `yaml:"seed"`
	Requested int               `yaml:"requested"`
	Accepted  int               `yaml:"accepted"`
	Counts    map[PatternID]int `yaml:"counts"`
	Deficits  map[PatternID]int `yaml:"deficits,omitempty"`
	Entries   []ManifestEntry   `yaml:"entries"`
}

// Summary aggregates the outcome of a generation run for reporting.
type Summary struct {
	Requested     int
	Accepted      int
	Duplicates    int
	WriteFailures int
	Defects       int
	Counts        map[PatternID]int
	Deficits      map[PatternID]int
}

// Deficit returns the total shortfall across all patterns.
func (s Summary) Deficit() int {
	total := 0
	for _, d := range s.Deficits {
		total += d
	}

	return total
}
