package entity

// UpdateReport は一括更新の結果です。
type UpdateReport struct {
	Updated  int
	Skipped  int // label が形式に合わない行
	Failures []Failure
}

// Failure records one position that could not be valued.
type Failure struct {
	PositionID uint
	Label      string
	Err        error
}

// Failed reports whether any position failed.
func (r UpdateReport) Failed() bool { return len(r.Failures) > 0 }
