package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/agency-pulse/internal/model"
	"github.com/Veraticus/agency-pulse/internal/report"
)

type pulseEnv struct {
	t      *testing.T
	dir    string
	config string
}

func newPulseEnv(t *testing.T) *pulseEnv {
	t.Helper()
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	config := filepath.Join(dir, "config.yaml")
	body := "database:\n  path: " + filepath.Join(dir, "pulse.db") + "\n" +
		"agency:\n  name: North\n" +
		"logging:\n  level: error\n"
	require.NoError(t, os.WriteFile(config, []byte(body), 0o600))
	return &pulseEnv{t: t, dir: dir, config: config}
}

func (e *pulseEnv) write(name, body string) string {
	e.t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(e.t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func (e *pulseEnv) run(stdin string, args ...string) (string, string, error) {
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (e *pulseEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, errOut, err := e.run("", args...)
	require.NoError(e.t, err, errOut)
	return out
}

func TestVersion(t *testing.T) {
	env := newPulseEnv(t)
	assert.Equal(t, "pulse dev\n", env.mustRun("version"))
}

func TestMigrateStatus(t *testing.T) {
	env := newPulseEnv(t)
	env.mustRun("migrate")
	out := env.mustRun("migrate", "--status")
	assert.Contains(t, out, "Current version")
	assert.NotContains(t, out, "pulse migrate")
}

func TestSyncAndCompare(t *testing.T) {
	env := newPulseEnv(t)
	leaders := env.write("leaders.csv", "UM NAME,UNIT,ANP\nUM_A,Alpha,1000\n")
	agents := env.write("agents.csv", "AGENT NAME,UM NAME,ANP,FYC TARGET\nJose Reyes,UM_A,0,25000\n")

	env.mustRun("sources", "set", "leaders", leaders)
	env.mustRun("sources", "set", "agents", agents)
	out := env.mustRun("sources", "list")
	assert.Contains(t, out, leaders)
	assert.Contains(t, out, "not set", "agency sheet has no source")

	out = env.mustRun("sync")
	assert.Contains(t, out, "1 records")
	assert.Contains(t, out, "skipped")

	out = env.mustRun("compare", "units")
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "110,000")
	assert.Contains(t, out, "over", "no forecast yet")

	leaderID := model.StableID("leader", "UM_A")
	env.mustRun("leaders", "forecast", leaderID, "nov", "--anp", "60000")
	env.mustRun("leaders", "forecast", leaderID, "dec", "--anp", "50000")
	out = env.mustRun("compare", "units")
	assert.Contains(t, out, "aligned")
	assert.Contains(t, out, "100.0%")

	out = env.mustRun("--json", "compare", "agency")
	var res struct {
		Data    model.AgencyTotals `json:"data"`
		Success bool               `json:"success"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Data.AgentCount)
	assert.InDelta(t, 110000, res.Data.LeadersANPForecast, 1e-9)

	path := filepath.Join(env.dir, "comparison.xlsx")
	env.mustRun("compare", "export", path)
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	label, err := f.GetCellValue(report.UnitsSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", label)
}

func TestAgentTargetDerivation(t *testing.T) {
	env := newPulseEnv(t)
	agents := env.write("agents.csv", "AGENT NAME,UM NAME\nJose Reyes,UM_A\n")
	env.mustRun("sources", "set", "agents", agents)
	env.mustRun("sync")

	out := env.mustRun("agents", "target", model.StableID("agent", "JOSE REYES", "UM_A"), "₱12,500")
	assert.Contains(t, out, "premium 50,000")
	assert.Contains(t, out, "ANP 55,000")
}

func TestFailuresAreReported(t *testing.T) {
	env := newPulseEnv(t)

	_, errOut, err := env.run("", "leaders", "target", "missing", "--anp", "1", "--recruits", "1")
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "leader missing not found")

	env.mustRun("users", "add", "staff-1", "--name", "Sam Staff")
	_, errOut, err = env.run("", "--as", "staff-1", "compare", "adjust-agency", "--anp", "5")
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "a staff may not")

	_, _, err = env.run("", "agents", "target", "x", "lots")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errReported)
}

func TestHierarchyAndGoals(t *testing.T) {
	env := newPulseEnv(t)

	out, errOut, err := env.run("UM NAME,SUPERVISOR,AGENT NAME\nUM_A,SUM_Y,Ben Lim\nUM_B,SUM_Y,\n", "hierarchy", "import")
	require.NoError(t, err, errOut)
	assert.Contains(t, out, "Imported 3 entries")
	assert.Contains(t, errOut, "line 3: missing agent name")

	out = env.mustRun("hierarchy", "team", "UM_A")
	assert.Contains(t, out, "SUM_Y")
	assert.Contains(t, out, "Ben Lim")

	env.mustRun("users", "add", "ben", "--name", "Ben Lim", "--rank", "adv")
	goal := "months:\n  jan: {premium: 1000, manpower: 2}\n  feb: {premium: 500}\n"
	out, errOut, err = env.run(goal, "--as", "ben", "goals", "submit")
	require.NoError(t, err, errOut)
	assert.Contains(t, out, "UM_A - North")

	out = env.mustRun("goals", "unit", "UM_A")
	assert.Contains(t, out, "Ben Lim")
	assert.Contains(t, out, "1,500")
	assert.Contains(t, env.mustRun("goals", "list"), "Ben Lim")

	out, _, err = env.run("n\n", "hierarchy", "delete", "some-id")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing deleted")
}

func TestParseGoal(t *testing.T) {
	goal, err := parseGoal([]byte(`
user: ben
rank: um
months:
  jan: {premium: 1000, cases: 2}
  Dec: {recruits: 1}
quarters:
  q2: {premium: 9000}
`))
	require.NoError(t, err)
	assert.Equal(t, "ben", goal.UserID)
	assert.Equal(t, model.RankUM, goal.Rank)
	assert.InDelta(t, 1000, goal.Months[0].Premium, 1e-9)
	assert.InDelta(t, 2, goal.Months[0].Cases, 1e-9)
	assert.InDelta(t, 1, goal.Months[11].Recruits, 1e-9)
	assert.InDelta(t, 9000, goal.Quarters[1].Premium, 1e-9)

	_, err = parseGoal([]byte("months:\n  smarch: {premium: 1}\n"))
	assert.ErrorContains(t, err, "unknown month")

	_, err = parseGoal([]byte("quarters:\n  q5: {premium: 1}\n"))
	assert.ErrorContains(t, err, "unknown quarter")

	_, err = parseGoal([]byte("rank: boss\n"))
	assert.ErrorContains(t, err, "unknown rank")
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1,234,567", formatNumber(1234567))
	assert.Equal(t, "-5,000", formatNumber(-5000))
	assert.Equal(t, "12.50", formatNumber(12.5))
}
