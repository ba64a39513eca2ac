package core

import "time"

// DumpResults lists results of one dump run.
type DumpResults struct {
	Start    time.Time
	End      time.Time
	Basename string
	Dumped   []string
	Skipped  []string
	Failed   []string
	Archive  string // empty in directory mode
}
