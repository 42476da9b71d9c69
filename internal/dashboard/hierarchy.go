package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/agency-pulse/internal/common"
	"github.com/Veraticus/agency-pulse/internal/hierarchy"
	"github.com/Veraticus/agency-pulse/internal/model"
)

// ImportReport is the outcome of a hierarchy import.
type ImportReport struct {
	RowErrors []string `json:"rowErrors,omitempty"`
	Failures  []string `json:"failures,omitempty"`
	Cleared   int      `json:"cleared"`
	Imported  int      `json:"imported"`
}

// Team is a person together with the people below them.
type Team struct {
	Chain         []model.HierarchyEntry `json:"chain"`
	DirectReports []model.HierarchyEntry `json:"directReports"`
	Members       []model.HierarchyEntry `json:"members"`
	Leader        model.HierarchyEntry   `json:"leader"`
}

// ImportHierarchy replaces the agency's hierarchy with one resolved from
// pasted rows. Unusable rows and entries that fail to save are reported
// while the rest are kept.
func (s *Service) ImportHierarchy(ctx context.Context, actor Actor, text string) Result[ImportReport] {
	const op = "import hierarchy"
	var report ImportReport
	if err := actor.require(PermManageHierarchy); err != nil {
		return fail(op, report, err)
	}
	if err := s.requireAgency(); err != nil {
		return fail(op, report, err)
	}

	rows, rowErrs, err := hierarchy.ParseImport(text)
	if err != nil {
		return fail(op, report, common.NewUserErrorWithHint("could not read the pasted hierarchy",
			"Paste rows with a header naming the unit manager, supervisor and agent columns.", err))
	}
	for _, re := range rowErrs {
		report.RowErrors = append(report.RowErrors, re.Error())
	}

	entries := hierarchy.Resolve(rows, s.config.Agency)
	if len(entries) == 0 {
		return fail(op, report, fmt.Errorf("%w: no hierarchy rows found", common.ErrInvalidInput))
	}

	report.Cleared, err = s.store.ClearHierarchy(ctx, s.config.Agency)
	if err != nil {
		return fail(op, report, err)
	}

	batchErr := s.saveEntries(ctx, op, entries)
	report.Imported = batchErr.Succeeded
	report.Failures = batchErr.Messages()

	s.logger.Info("Imported hierarchy",
		"agency", s.config.Agency,
		"imported", report.Imported,
		"row_errors", len(report.RowErrors),
		"failures", len(report.Failures))

	if err := batchErr.Err(); err != nil {
		r := fail(op, report, err)
		r.Warnings = report.RowErrors
		return r
	}
	return ok(report, report.RowErrors...)
}

// InitializeHierarchy loads the built-in starting organization. It refuses
// to overwrite an existing hierarchy.
func (s *Service) InitializeHierarchy(ctx context.Context, actor Actor) Result[[]model.HierarchyEntry] {
	const op = "initialize hierarchy"
	if err := actor.require(PermManageHierarchy); err != nil {
		return fail[[]model.HierarchyEntry](op, nil, err)
	}
	if err := s.requireAgency(); err != nil {
		return fail[[]model.HierarchyEntry](op, nil, err)
	}

	existing, err := s.store.GetHierarchy(ctx, s.config.Agency)
	if err != nil {
		return fail[[]model.HierarchyEntry](op, nil, err)
	}
	if len(existing) > 0 {
		return fail(op, existing, common.NewUserErrorWithHint(
			fmt.Sprintf("agency %s already has %d hierarchy entries", s.config.Agency, len(existing)),
			"Use hierarchy import to replace it.", common.ErrInvalidInput))
	}

	entries, err := hierarchy.Seed(s.config.Agency)
	if err != nil {
		return fail[[]model.HierarchyEntry](op, nil, err)
	}
	if err := s.saveEntries(ctx, op, entries).Err(); err != nil {
		return fail[[]model.HierarchyEntry](op, nil, err)
	}
	return ok(entries)
}

func (s *Service) saveEntries(ctx context.Context, op string, entries []model.HierarchyEntry) *common.BatchError {
	batchErr := &common.BatchError{Op: op}
	for i := range entries {
		if err := s.store.SaveHierarchyEntry(ctx, &entries[i]); err != nil {
			batchErr.Add(entries[i].Name, err)
			continue
		}
		batchErr.Succeeded++
	}
	return batchErr
}

// Hierarchy lists the agency's hierarchy entries.
func (s *Service) Hierarchy(ctx context.Context, actor Actor) Result[[]model.HierarchyEntry] {
	if err := actor.require(PermView); err != nil {
		return fail[[]model.HierarchyEntry]("hierarchy", nil, err)
	}
	entries, err := s.store.GetHierarchy(ctx, s.config.Agency)
	if err != nil {
		return fail[[]model.HierarchyEntry]("hierarchy", nil, err)
	}
	return ok(entries)
}

// DeleteHierarchyEntries deletes entries by id. Entries that cannot be
// deleted are reported and the rest are still removed.
func (s *Service) DeleteHierarchyEntries(ctx context.Context, actor Actor, ids []string) Result[int] {
	const op = "delete hierarchy entries"
	if err := actor.require(PermManageHierarchy); err != nil {
		return fail(op, 0, err)
	}
	err := s.store.DeleteHierarchyEntries(ctx, ids)
	if err == nil {
		return ok(len(ids))
	}
	var batchErr *common.BatchError
	if errors.As(err, &batchErr) {
		r := fail(op, batchErr.Succeeded, err)
		r.Warnings = batchErr.Messages()
		return r
	}
	return fail(op, 0, err)
}

// TeamOf returns the chain of command above a person and everyone below them.
func (s *Service) TeamOf(ctx context.Context, actor Actor, name string) Result[Team] {
	const op = "team"
	if err := actor.require(PermView); err != nil {
		return fail(op, Team{}, err)
	}
	entries, err := s.store.GetHierarchy(ctx, s.config.Agency)
	if err != nil {
		return fail(op, Team{}, err)
	}
	tree := hierarchy.BuildTree(entries)
	leader, found := tree.Entry(name)
	if !found {
		return fail(op, Team{}, notFound("hierarchy entry", name))
	}
	return ok(Team{
		Leader:        leader,
		Chain:         tree.ChainOfCommand(name),
		DirectReports: tree.DirectReports(name),
		Members:       tree.Subordinates(name),
	})
}

func (s *Service) requireAgency() error {
	if s.config.Agency == "" {
		return common.NewUserErrorWithHint("no agency selected",
			"Set agency.name in the config file or pass --agency.", common.ErrMissingConfig)
	}
	return nil
}
