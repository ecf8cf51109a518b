package database

import (
	"database/sql"
	"time"

	"manuals-go/internal/database/sqlc"
	"manuals-go/internal/model"
)

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullIntPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullInt64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func toNullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func toNullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func groupFromRow(g sqlc.Group) *model.Group {
	return &model.Group{
		ID:         g.ID,
		Code:       int(g.Code),
		Name:       g.Name,
		IsExplorer: g.IsExplorer,
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
		DeletedAt:  nullTimePtr(g.DeletedAt),
	}
}

func pathFromRow(p sqlc.Path) *model.Path {
	return &model.Path{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		DeletedAt: nullTimePtr(p.DeletedAt),
	}
}

func lessonFromRow(l sqlc.Lesson) *model.Lesson {
	return &model.Lesson{
		ID:                 l.ID,
		Code:               l.Code,
		Name:               l.Name,
		Year:               nullIntPtr(l.Year),
		Term:               nullIntPtr(l.Term),
		PathID:             nullInt64Ptr(l.PathID),
		GroupID:            l.GroupID,
		FileURL:            l.FileUrl,
		SourceFileName:     l.SourceFileName,
		SourceRelativePath: l.SourceRelativePath,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
		DeletedAt:          nullTimePtr(l.DeletedAt),
	}
}

func runFromRow(r sqlc.Run) *model.Run {
	return &model.Run{
		ID:         r.ID,
		Operation:  r.Operation,
		Parameters: r.Parameters,
		StartedAt:  r.StartedAt,
		FinishedAt: nullTimePtr(r.FinishedAt),
		Status:     r.Status,
	}
}

// upsertOutcome decides what an upsert must do with the stored record, if any.
// A live record that already matches is left alone.
func upsertOutcome(found, deleted, matches bool) model.UpsertOutcome {
	switch {
	case !found:
		return model.Created
	case !deleted && matches:
		return model.Unchanged
	default:
		return model.Updated
	}
}
