package manual

import (
	"fmt"
	"time"

	"manuals-go/internal/model"
)

// Entity names reported to the Recorder.
const (
	EntityGroup  = "group"
	EntityPath   = "path"
	EntityLesson = "lesson"
)

// ImportSummary counts upsert outcomes per entity.
type ImportSummary struct {
	Groups  OutcomeCounts
	Paths   OutcomeCounts
	Lessons OutcomeCounts
}

// OutcomeCounts tallies upserts by outcome.
type OutcomeCounts struct {
	Created   int
	Updated   int
	Unchanged int
}

func (c *OutcomeCounts) add(o model.UpsertOutcome) {
	switch o {
	case model.Created:
		c.Created++
	case model.Updated:
		c.Updated++
	default:
		c.Unchanged++
	}
}

// Total is the number of upserts counted.
func (c OutcomeCounts) Total() int {
	return c.Created + c.Updated + c.Unchanged
}

// Importer reconciles a schema snapshot into the store, one upsert at a time.
// Re-running it over an unchanged snapshot changes nothing.
type Importer struct {
	store    Store
	logger   Logger
	clock    Clock
	recorder Recorder
}

// NewImporter creates an Importer. A nil recorder discards observations.
func NewImporter(store Store, logger Logger, clock Clock, recorder Recorder) *Importer {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Importer{
		store:    store,
		logger:   logger,
		clock:    clock,
		recorder: recorder,
	}
}

// importRun is the state of a single Import call.
type importRun struct {
	*Importer
	baseURL string
	now     time.Time
	summary *ImportSummary
	seen    map[string]string // lesson code -> source relative path
}

// Import upserts every group, path and lesson described by schema.
//
// Groups are processed in snapshot order. Each group is planned and validated
// in full before its first upsert; the first error stops the run, and upserts
// already issued stay committed.
func (im *Importer) Import(schema *Schema, baseURL string) (*ImportSummary, error) {
	if schema == nil || schema.Root == nil {
		return nil, fmt.Errorf("%w: missing root", ErrInvalidSchema)
	}
	if len(schema.Root.Directories) == 0 {
		return nil, ErrNoGroups
	}

	run := &importRun{
		Importer: im,
		baseURL:  baseURL,
		now:      im.clock.Now(),
		summary:  &ImportSummary{},
		seen:     make(map[string]string),
	}

	for _, groupNode := range schema.Root.Directories {
		plan, err := PlanGroup(groupNode)
		if err != nil {
			return run.summary, err
		}
		if err := run.applyGroup(plan); err != nil {
			return run.summary, fmt.Errorf("importing group %s: %w", groupNode.Name, err)
		}
	}

	im.logger.Info("manuals import completed",
		"groups", run.summary.Groups.Total(),
		"paths", run.summary.Paths.Total(),
		"lessons", run.summary.Lessons.Total(),
	)
	return run.summary, nil
}

func (r *importRun) applyGroup(plan *GroupPlan) error {
	group, outcome, err := r.store.UpsertGroup(model.GroupParams{
		Code:       plan.Code,
		Name:       truncate(plan.Name, maxNameLength),
		IsExplorer: plan.IsExplorer,
	}, r.now)
	if err != nil {
		return fmt.Errorf("upserting group %02d: %w", plan.Code, err)
	}
	r.record(EntityGroup, outcome, &r.summary.Groups)
	r.logger.Debug("group upserted", "code", plan.Code, "explorer", plan.IsExplorer, "outcome", outcome.String())

	if plan.IsExplorer {
		for _, lp := range plan.Lessons {
			if err := r.applyLesson(lp, group.ID, nil, nil); err != nil {
				return err
			}
		}
		return nil
	}

	for _, tp := range plan.Terms {
		path, outcome, err := r.store.UpsertPath(model.PathParams{
			Code: tp.PathCode,
			Name: truncate(tp.PathName, maxNameLength),
		}, r.now)
		if err != nil {
			return fmt.Errorf("upserting path %s: %w", tp.PathCode, err)
		}
		r.record(EntityPath, outcome, &r.summary.Paths)

		for _, lp := range tp.Lessons {
			if err := r.applyLesson(lp, group.ID, &path.ID, &tp.TermInfo); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyLesson upserts one lesson. term is nil for explorer lessons.
func (r *importRun) applyLesson(lp LessonPlan, groupID int64, pathID *int64, term *TermInfo) error {
	if prev, ok := r.seen[lp.Code]; ok && prev != lp.SourceFile.RelativePath {
		r.logger.Warn("lesson code reused in this run, later file overwrites earlier",
			"code", lp.Code, "previous", prev, "current", lp.SourceFile.RelativePath)
	}
	r.seen[lp.Code] = lp.SourceFile.RelativePath

	params := model.LessonParams{
		Code:               lp.Code,
		Name:               lp.Name,
		PathID:             pathID,
		GroupID:            groupID,
		FileURL:            BuildFileURL(r.baseURL, lp.SourceFile.RelativePath),
		SourceFileName:     lp.SourceFile.Name,
		SourceRelativePath: lp.SourceFile.RelativePath,
	}
	if term != nil {
		year, t := term.Stage, term.Term
		params.Year = &year
		params.Term = &t
	}

	_, outcome, err := r.store.UpsertLesson(params, r.now)
	if err != nil {
		return fmt.Errorf("upserting lesson %s: %w", lp.Code, err)
	}
	r.record(EntityLesson, outcome, &r.summary.Lessons)
	r.logger.Debug("lesson upserted", "code", lp.Code, "file", lp.SourceFile.RelativePath, "outcome", outcome.String())
	return nil
}

func (r *importRun) record(entity string, outcome model.UpsertOutcome, counts *OutcomeCounts) {
	counts.add(outcome)
	r.recorder.RecordUpsert(entity, outcome)
}
