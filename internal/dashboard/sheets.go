package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/agency-pulse/internal/common"
	"github.com/Veraticus/agency-pulse/internal/comparison"
	"github.com/Veraticus/agency-pulse/internal/ingest"
	"github.com/Veraticus/agency-pulse/internal/model"
	"github.com/Veraticus/agency-pulse/internal/names"
)

// SheetResult reports the sync of one sheet.
type SheetResult struct {
	Kind    model.SheetKind `json:"kind"`
	Error   string          `json:"error,omitempty"`
	Hint    string          `json:"hint,omitempty"`
	Records int             `json:"records"`
	Skipped bool            `json:"skipped"`
}

// SyncReport is the outcome of a sync across every configured sheet.
type SyncReport struct {
	Sheets []SheetResult `json:"sheets"`
}

// Failed returns the sheets that could not be synced.
func (r SyncReport) Failed() []SheetResult {
	var out []SheetResult
	for _, s := range r.Sheets {
		if s.Error != "" {
			out = append(out, s)
		}
	}
	return out
}

// Sources returns the configured sheet sources.
func (s *Service) Sources(ctx context.Context, actor Actor) Result[*model.SheetsConfig] {
	if err := actor.require(PermView); err != nil {
		return fail[*model.SheetsConfig]("sources", nil, err)
	}
	cfg, err := s.store.LoadSheetsConfig(ctx)
	if err != nil {
		return fail[*model.SheetsConfig]("sources", nil, err)
	}
	return ok(cfg)
}

// ConfigureSource sets the source for one sheet kind.
func (s *Service) ConfigureSource(ctx context.Context, actor Actor, kind, name, url string, active bool) Result[model.SheetSource] {
	const op = "configure source"
	if err := actor.require(PermManageSources); err != nil {
		return fail[model.SheetSource](op, model.SheetSource{}, err)
	}
	k, err := model.ParseSheetKind(strings.ToLower(strings.TrimSpace(kind)))
	if err != nil {
		return fail[model.SheetSource](op, model.SheetSource{}, fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
	}
	url = strings.TrimSpace(url)
	if active && url == "" {
		return fail[model.SheetSource](op, model.SheetSource{},
			fmt.Errorf("%w: an active source needs a URL", common.ErrInvalidInput))
	}

	cfg, err := s.store.LoadSheetsConfig(ctx)
	if err != nil {
		return fail[model.SheetSource](op, model.SheetSource{}, err)
	}
	src, _ := cfg.Source(k)
	if strings.TrimSpace(name) != "" {
		src.Name = strings.TrimSpace(name)
	}
	if src.Name == "" {
		src.Name = string(k)
	}
	src.URL = url
	src.Active = active
	cfg.SetSource(k, src)
	if err := s.store.SaveSheetsConfig(ctx, cfg); err != nil {
		return fail[model.SheetSource](op, model.SheetSource{}, err)
	}

	s.logger.Info("Configured sheet source", "kind", k, "active", active)
	return ok(src)
}

// SyncSheets pulls every active source. A sheet that fails is reported and
// the others still sync. Hand-entered targets and forecasts carry over to
// the synced records, and summary overrides survive.
func (s *Service) SyncSheets(ctx context.Context, actor Actor) Result[SyncReport] {
	const op = "sync sheets"
	var report SyncReport
	if err := actor.require(PermSync); err != nil {
		return fail(op, report, err)
	}
	if s.fetcher == nil {
		return fail(op, report, common.NewUserError("no sheet fetcher configured", common.ErrMissingConfig))
	}

	cfg, err := s.store.LoadSheetsConfig(ctx)
	if err != nil {
		return fail(op, report, err)
	}

	var warnings []string
	for _, kind := range model.SheetKinds() {
		if s.config.OnSheet != nil {
			s.config.OnSheet(kind)
		}
		src, found := cfg.Source(kind)
		if !found || !src.Active || src.URL == "" {
			report.Sheets = append(report.Sheets, SheetResult{Kind: kind, Skipped: true})
			continue
		}

		n, sheetWarnings, err := s.syncSheet(ctx, kind, src.URL)
		result := SheetResult{Kind: kind, Records: n}
		if err != nil {
			common.LogError(err, "Sheet sync failed", common.Fields{"kind": kind})
			result.Error = message(err)
			result.Hint = common.HintFor(err)
		} else {
			src.LastUpdated = s.config.Now()
			cfg.SetSource(kind, src)
			warnings = append(warnings, sheetWarnings...)
		}
		report.Sheets = append(report.Sheets, result)
	}

	saveErr := s.store.SaveSheetsConfig(ctx, cfg)
	s.store.ClearCache()
	if saveErr != nil {
		return fail(op, report, saveErr)
	}

	if failed := report.Failed(); len(failed) > 0 {
		kinds := make([]string, 0, len(failed))
		for _, f := range failed {
			kinds = append(kinds, string(f.Kind))
		}
		r := fail(op, report, fmt.Errorf("%w: %s", common.ErrFetchFailed, strings.Join(kinds, ", ")))
		r.Warnings = warnings
		return r
	}
	return ok(report, warnings...)
}

func (s *Service) syncSheet(ctx context.Context, kind model.SheetKind, url string) (int, []string, error) {
	grid, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return 0, nil, err
	}

	switch kind {
	case model.SheetAgency:
		summary, err := ingest.ParseAgencySummary(grid, s.config.Now())
		if err != nil {
			return 0, nil, err
		}
		return 1, nil, s.store.SaveAgencySummary(ctx, summary)

	case model.SheetLeaders:
		leaders, err := ingest.ParseLeaders(grid)
		if err != nil {
			return 0, nil, err
		}
		err = s.store.UpdateDashboard(ctx, func(d *model.Dashboard) error {
			d.Leaders = mergeLeaders(d.Leaders, leaders)
			return nil
		})
		return len(leaders), nil, err

	case model.SheetAgents:
		agents, err := ingest.ParseAgents(grid)
		if err != nil {
			return 0, nil, err
		}
		var warnings []string
		err = s.store.UpdateDashboard(ctx, func(d *model.Dashboard) error {
			d.Agents = mergeAgents(d.Agents, agents)
			for _, o := range comparison.FindOrphans(d.Leaders, d.Agents) {
				warnings = append(warnings, o.String())
			}
			return nil
		})
		return len(agents), warnings, err
	}
	return 0, nil, fmt.Errorf("%w: unknown sheet kind %q", common.ErrInvalidInput, kind)
}

// mergeLeaders replaces the stored leaders with synced ones, carrying over
// inputs from stored records with the same normalized name.
func mergeLeaders(stored, synced []model.Leader) []model.Leader {
	prev := make(map[string]*model.Leader, len(stored))
	for i := range stored {
		prev[names.Normalize(stored[i].Name)] = &stored[i]
	}
	for i := range synced {
		if p, found := prev[names.Normalize(synced[i].Name)]; found {
			synced[i].CarryOverInputs(p)
		}
	}
	return synced
}

// mergeAgents carries inputs over by id, which is name plus leader, so
// namesakes in different units keep their own targets. An agent who moved
// units is matched by name, but only when exactly one stored agent has it.
func mergeAgents(stored, synced []model.Agent) []model.Agent {
	byID := make(map[string]*model.Agent, len(stored))
	byName := make(map[string]*model.Agent, len(stored))
	namesakes := make(map[string]int, len(stored))
	for i := range stored {
		byID[stored[i].ID] = &stored[i]
		key := names.Normalize(stored[i].Name)
		byName[key] = &stored[i]
		namesakes[key]++
	}
	for i := range synced {
		if p, found := byID[synced[i].ID]; found {
			synced[i].CarryOverInputs(p)
			continue
		}
		key := names.Normalize(synced[i].Name)
		if namesakes[key] == 1 {
			synced[i].CarryOverInputs(byName[key])
		}
	}
	return synced
}
