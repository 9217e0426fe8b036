package views

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/docsieve/docsieve/internal/core/db"
	"github.com/docsieve/docsieve/internal/filter"
	"github.com/docsieve/docsieve/internal/types"
)

// Store is the local saved-view cache over the named-query layer. It keeps
// the raw JSON rule list per view so a cached view round-trips exactly what
// the server sent, including rules this build does not understand.
type Store struct {
	q *db.Queries
}

// NewStore wraps a loaded query set.
func NewStore(q *db.Queries) *Store {
	return &Store{q: q}
}

// savedViewRow is the database shape of one cached view. synced_at is kept
// as RFC3339 text so the row scans identically on both drivers.
type savedViewRow struct {
	ID              uint   `db:"id"`
	Name            string `db:"name"`
	ShowOnDashboard bool   `db:"show_on_dashboard"`
	ShowInSidebar   bool   `db:"show_in_sidebar"`
	SortField       string `db:"sort_field"`
	SortReverse     bool   `db:"sort_reverse"`
	FilterRules     string `db:"filter_rules"`
	SyncedAt        string `db:"synced_at"`
}

func toRow(v SavedView, syncedAt time.Time) (savedViewRow, error) {
	rules, err := filter.EncodeRules(v.FilterRules)
	if err != nil {
		return savedViewRow{}, fmt.Errorf("encode filter rules: %w", err)
	}
	return savedViewRow{
		ID:              v.ID,
		Name:            v.Name,
		ShowOnDashboard: v.ShowOnDashboard,
		ShowInSidebar:   v.ShowInSidebar,
		SortField:       v.SortField,
		SortReverse:     v.SortReverse,
		FilterRules:     string(rules),
		SyncedAt:        syncedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (r savedViewRow) toView() (SavedView, error) {
	rules, err := filter.DecodeRules([]byte(r.FilterRules))
	if err != nil {
		return SavedView{}, fmt.Errorf("decode filter rules for view %d: %w", r.ID, err)
	}
	return SavedView{
		ID:              r.ID,
		Name:            r.Name,
		ShowOnDashboard: r.ShowOnDashboard,
		ShowInSidebar:   r.ShowInSidebar,
		SortField:       r.SortField,
		SortReverse:     r.SortReverse,
		FilterRules:     rules,
	}, nil
}

// Upsert inserts or replaces one cached view.
func (s *Store) Upsert(v SavedView, syncedAt time.Time) error {
	row, err := toRow(v, syncedAt)
	if err != nil {
		return err
	}
	_, err = s.q.Exec("upsert-saved-view",
		row.ID, row.Name, row.ShowOnDashboard, row.ShowInSidebar,
		row.SortField, row.SortReverse, row.FilterRules, row.SyncedAt)
	return err
}

// Get returns one cached view by id.
func (s *Store) Get(id uint) (SavedView, error) {
	var row savedViewRow
	if err := s.q.Get("get-saved-view", &row, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SavedView{}, fmt.Errorf("view %d: %w", id, types.ErrViewNotFound)
		}
		return SavedView{}, err
	}
	return row.toView()
}

// List returns all cached views ordered by name.
func (s *Store) List() ([]SavedView, error) {
	var rows []savedViewRow
	if err := s.q.Select("list-saved-views", &rows); err != nil {
		return nil, err
	}

	views := make([]SavedView, 0, len(rows))
	for _, row := range rows {
		v, err := row.toView()
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// Delete removes one cached view. Deleting an absent view is not an error.
func (s *Store) Delete(id uint) error {
	_, err := s.q.Exec("delete-saved-view", id)
	return err
}

// ReplaceAll swaps the whole cache for a fresh server snapshot.
func (s *Store) ReplaceAll(views []SavedView, syncedAt time.Time) error {
	if _, err := s.q.Exec("clear-saved-views"); err != nil {
		return err
	}
	for _, v := range views {
		if err := s.Upsert(v, syncedAt); err != nil {
			return err
		}
	}
	return nil
}
