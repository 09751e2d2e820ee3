// Package progress models conversion progress as a stream of structured
// updates and turns each update, together with the book's size metrics, into
// a monotonic 0-100 percentage. The pipeline itself stays stateless: every
// percentage is recomputed from a single update plus the static book.
package progress

import "fmt"

// Stage identifies one phase of the conversion pipeline. Stages are ordered:
// the percentage estimator accumulates the full weight of every stage
// strictly before the current one.
type Stage int

const (
	StageInstalling Stage = iota
	StageConvertTextToWav
	StageConvertWavToAac
	StageMergingIntoM4b
	StageSavingImage
	StageUpdatingM4bMetadata

	stageCount
)

// stageInfo is one row of the fixed stage table.
type stageInfo struct {
	name   string
	weight float64
}

// stageTable maps every Stage to its display name and progress weight.
// Weights sum to 1.0; validateStageTable enforces both completeness and the
// sum at package load so a new stage cannot ship without a table entry.
var stageTable = [stageCount]stageInfo{
	StageInstalling:          {name: "installing", weight: 0.05},
	StageConvertTextToWav:    {name: "convert text to wav", weight: 0.50},
	StageConvertWavToAac:     {name: "convert wav to aac", weight: 0.20},
	StageMergingIntoM4b:      {name: "merging into m4b", weight: 0.20},
	StageSavingImage:         {name: "saving image", weight: 0.03},
	StageUpdatingM4bMetadata: {name: "updating m4b metadata", weight: 0.02},
}

func init() {
	if err := validateStageTable(); err != nil {
		panic(err)
	}
}

// validateStageTable checks that every stage has a named, weighted entry and
// that the weights sum to exactly 1.0 within float tolerance.
func validateStageTable() error {
	sum := 0.0
	for s, info := range stageTable {
		if info.name == "" {
			return fmt.Errorf("progress: stage %d has no table entry", s)
		}
		if info.weight <= 0 {
			return fmt.Errorf("progress: stage %q has non-positive weight %f", info.name, info.weight)
		}
		sum += info.weight
	}
	if diff := sum - 1.0; diff > 1e-9 || diff < -1e-9 {
		return fmt.Errorf("progress: stage weights sum to %f, want 1.0", sum)
	}
	return nil
}

// String returns the stage's display name.
func (s Stage) String() string {
	if s < 0 || s >= stageCount {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageTable[s].name
}

// Weight returns the stage's share of overall progress.
func (s Stage) Weight() float64 {
	return stageTable[s].weight
}

// perElement reports whether the stage iterates a book collection, in which
// case progress within the stage is weighted by element size.
func (s Stage) perElement() bool {
	switch s {
	case StageConvertTextToWav, StageConvertWavToAac, StageSavingImage:
		return true
	default:
		return false
	}
}
