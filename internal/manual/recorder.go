package manual

import "manuals-go/internal/model"

// Recorder observes the outcome of every upsert issued by the importer.
type Recorder interface {
	RecordUpsert(entity string, outcome model.UpsertOutcome)
}

// NopRecorder discards observations.
type NopRecorder struct{}

func (NopRecorder) RecordUpsert(string, model.UpsertOutcome) {}
