package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/edusuivi/hebdo/core/report"
)

type reportRepository struct {
	db *reportTable
}

var _ report.Repository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(db *DB) *reportRepository {
	return &reportRepository{db: db.report}
}

func (repo *reportRepository) CreateReport(_ context.Context, rpt report.WeeklyReport) (report.WeeklyReport, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	rpt.ID = uuid.New().String()
	repo.db.seq++
	repo.db.table[rpt.ID] = &reportEntry{rpt: rpt, seq: repo.db.seq}
	return rpt, nil
}

func (repo *reportRepository) QueryReportsByOwner(_ context.Context, ownerID string) ([]report.WeeklyReport, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries := make([]*reportEntry, 0, len(repo.db.table))
	for _, entry := range repo.db.table {
		if entry.rpt.UserID == ownerID {
			entries = append(entries, entry)
		}
	}

	// most recent first; same-instant creations fall back to insertion order
	sort.Slice(entries, func(i, j int) bool {
		ti, tj := entries[i].rpt.CreatedAt, entries[j].rpt.CreatedAt
		if ti.Equal(tj) {
			return entries[i].seq > entries[j].seq
		}
		return ti.After(tj)
	})

	reports := make([]report.WeeklyReport, 0, len(entries))
	for _, entry := range entries {
		reports = append(reports, entry.rpt)
	}
	return reports, nil
}

func (repo *reportRepository) GetReportByID(_ context.Context, id string) (report.WeeklyReport, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if entry, ok := repo.db.table[id]; ok {
		return entry.rpt, nil
	}
	return report.WeeklyReport{}, report.ErrNotFound
}

func (repo *reportRepository) UpdateReport(_ context.Context, rpt report.WeeklyReport) (report.WeeklyReport, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	entry, ok := repo.db.table[rpt.ID]
	if !ok {
		return report.WeeklyReport{}, report.ErrNotFound
	}
	entry.rpt = rpt
	return rpt, nil
}

func (repo *reportRepository) DeleteReport(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return report.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
