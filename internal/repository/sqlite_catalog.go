package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/haven/internal/db"
	"github.com/alexanderramin/haven/internal/domain"
)

// SQLiteCatalogRepo implements CatalogRepo. Scalar constraints are applied
// in SQL; tag matching runs on the decoded rows.
type SQLiteCatalogRepo struct {
	db db.DBTX
}

func NewSQLiteCatalogRepo(conn db.DBTX) *SQLiteCatalogRepo {
	return &SQLiteCatalogRepo{db: conn}
}

func (r *SQLiteCatalogRepo) UpsertContent(ctx context.Context, c domain.ContentItem) error {
	tags, err := encodeStrings(c.Tags)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO content_items (id, title, type, approach, duration_sec, tags, immediate_relief, effectiveness, popularity, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title, type = excluded.type, approach = excluded.approach,
			duration_sec = excluded.duration_sec, tags = excluded.tags,
			immediate_relief = excluded.immediate_relief, effectiveness = excluded.effectiveness,
			popularity = excluded.popularity, description = excluded.description`,
		c.ID, c.Title, domain.CoalesceStr(string(c.Type), string(domain.ItemContent)),
		string(domain.ParseApproach(string(c.Approach))), c.DurationSec, tags,
		boolToInt(c.ImmediateRelief), c.EffectivenessScore, c.Popularity, c.Description)
	if err != nil {
		return fmt.Errorf("upserting content item %s: %w", c.ID, err)
	}
	return nil
}

func (r *SQLiteCatalogRepo) UpsertPractice(ctx context.Context, p domain.PracticeItem) error {
	tags, err := encodeStrings(p.Tags)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO practices (id, title, approach, duration_sec, tags, effectiveness, instructions)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title, approach = excluded.approach, duration_sec = excluded.duration_sec,
			tags = excluded.tags, effectiveness = excluded.effectiveness, instructions = excluded.instructions`,
		p.ID, p.Title, string(domain.ParseApproach(string(p.Approach))), p.DurationSec, tags,
		p.EffectivenessScore, p.Instructions)
	if err != nil {
		return fmt.Errorf("upserting practice %s: %w", p.ID, err)
	}
	return nil
}

// FindContent orders by popularity when requested, otherwise by
// effectiveness; ties break on id.
func (r *SQLiteCatalogRepo) FindContent(ctx context.Context, f domain.CatalogFilter) ([]domain.ContentItem, error) {
	where, args := scalarConditions(f)
	if len(f.Types) > 0 {
		where = append(where, "type IN ("+inClause(len(f.Types))+")")
		for _, t := range f.Types {
			args = append(args, string(t))
		}
	}
	if f.ImmediateRelief {
		where = append(where, "immediate_relief = 1")
	}

	order := "effectiveness DESC, id ASC"
	if f.ByPopularity {
		order = "popularity DESC, id ASC"
	}
	query := `SELECT id, title, type, approach, duration_sec, tags, immediate_relief, effectiveness, popularity, description
		FROM content_items` + whereClause(where) + " ORDER BY " + order

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying content items: %w", err)
	}
	defer rows.Close()

	out := []domain.ContentItem{}
	for rows.Next() {
		var c domain.ContentItem
		var itemType, approach, tags string
		var relief int
		if err := rows.Scan(&c.ID, &c.Title, &itemType, &approach, &c.DurationSec, &tags,
			&relief, &c.EffectivenessScore, &c.Popularity, &c.Description); err != nil {
			return nil, fmt.Errorf("scanning content item: %w", err)
		}
		c.Type = domain.ItemType(itemType)
		c.Approach = domain.Approach(approach)
		c.ImmediateRelief = intToBool(relief)
		if c.Tags, err = decodeStrings(tags); err != nil {
			return nil, fmt.Errorf("content item %s: %w", c.ID, err)
		}
		if !f.MatchesContent(c) {
			continue
		}
		out = append(out, c)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, rows.Err()
}

func (r *SQLiteCatalogRepo) FindPractices(ctx context.Context, f domain.CatalogFilter) ([]domain.PracticeItem, error) {
	where, args := scalarConditions(f)
	query := `SELECT id, title, approach, duration_sec, tags, effectiveness, instructions
		FROM practices` + whereClause(where) + " ORDER BY effectiveness DESC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying practices: %w", err)
	}
	defer rows.Close()

	out := []domain.PracticeItem{}
	for rows.Next() {
		var p domain.PracticeItem
		var approach, tags string
		if err := rows.Scan(&p.ID, &p.Title, &approach, &p.DurationSec, &tags, &p.EffectivenessScore, &p.Instructions); err != nil {
			return nil, fmt.Errorf("scanning practice: %w", err)
		}
		p.Approach = domain.Approach(approach)
		if p.Tags, err = decodeStrings(tags); err != nil {
			return nil, fmt.Errorf("practice %s: %w", p.ID, err)
		}
		if !f.MatchesPractice(p) {
			continue
		}
		out = append(out, p)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, rows.Err()
}

// scalarConditions covers the filter fields shared by content and practices.
func scalarConditions(f domain.CatalogFilter) ([]string, []any) {
	var where []string
	var args []any
	if f.Approach != "" && f.Approach != domain.ApproachHybrid {
		where = append(where, "approach IN (?, 'hybrid')")
		args = append(args, string(f.Approach))
	}
	if f.MaxDurationSec > 0 {
		where = append(where, "duration_sec <= ?")
		args = append(args, f.MaxDurationSec)
	}
	if f.MinEffectiveness > 0 {
		where = append(where, "effectiveness >= ?")
		args = append(args, f.MinEffectiveness)
	}
	if len(f.ExcludeIDs) > 0 {
		ids := uniqueSorted(f.ExcludeIDs)
		where = append(where, "id NOT IN ("+inClause(len(ids))+")")
		for _, id := range ids {
			args = append(args, id)
		}
	}
	return where, args
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
