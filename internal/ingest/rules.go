package ingest

// Fields shared by leader and agent sheets.
const (
	FieldName     Field = "name"
	FieldUnit     Field = "unit"
	FieldLeader   Field = "leader"
	FieldANP      Field = "anp"
	FieldRecruits Field = "recruits"
	FieldCases    Field = "cases"
	FieldFYP      Field = "fyp"
	FieldFYC      Field = "fyc"
	FieldYTDANP   Field = "ytd_anp"
	FieldYTDFYP   Field = "ytd_fyp"
	FieldYTDFYC   Field = "ytd_fyc"
	FieldYTDCases Field = "ytd_cases"

	FieldANPTarget        Field = "anp_target"
	FieldRecruitsTarget   Field = "recruits_target"
	FieldCommissionTarget Field = "commission_target"
)

var targetWords = []string{"TARGET", "GOAL", "FORECAST", "QUOTA", "NOV", "DEC"}

func excluding(extra ...string) []string {
	out := append([]string{}, targetWords...)
	return append(out, extra...)
}

// metricRules builds the usual three-tier rule set for a performance figure:
// keyword plus MTD, keyword alone outside YTD and target columns, then a
// spelled-out synonym.
func metricRules(f Field, keyword, spelled string) []Rule {
	rules := []Rule{
		{Field: f, All: []string{keyword, "MTD"}, None: targetWords, Weight: 3},
		{Field: f, All: []string{keyword}, None: excluding("YTD"), Weight: 2},
	}
	if spelled != "" {
		rules = append(rules, Rule{Field: f, All: []string{spelled}, None: excluding("YTD"), Weight: 1})
	}
	return rules
}

func ytdRules(f Field, keyword, spelled string) []Rule {
	rules := []Rule{{Field: f, All: []string{keyword, "YTD"}, None: targetWords, Weight: 3}}
	if spelled != "" {
		rules = append(rules, Rule{Field: f, All: []string{spelled, "YTD"}, None: targetWords, Weight: 2})
	}
	return rules
}

func concat(sets ...[]Rule) []Rule {
	var out []Rule
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}

var performanceWords = []string{"ANP", "FYP", "FYC", "CASE", "RECRUIT", "PREMIUM", "COMMISSION"}

// LeaderRules locates the columns of a leaders sheet.
var LeaderRules = concat(
	[]Rule{
		{Field: FieldName, Any: []string{"UM NAME", "LEADER NAME", "UNIT MANAGER", "MANAGER NAME"}, Weight: 3},
		{Field: FieldName, All: []string{"NAME"}, None: append([]string{"UNIT", "AGENCY"}, performanceWords...), Weight: 2},
		{Field: FieldName, Any: []string{"LEADER", "UM"}, None: performanceWords, Weight: 1},
		{Field: FieldUnit, All: []string{"UNIT"}, None: append([]string{"MANAGER"}, performanceWords...), Weight: 3},
		{Field: FieldUnit, Any: []string{"TEAM", "GROUP"}, None: performanceWords, Weight: 1},
	},
	metricRules(FieldANP, "ANP", "ANNUALIZED"),
	ytdRules(FieldYTDANP, "ANP", "ANNUALIZED"),
	metricRules(FieldRecruits, "RECRUIT", ""),
	metricRules(FieldCases, "CASE", "NOC"),
	ytdRules(FieldYTDCases, "CASE", "NOC"),
	metricRules(FieldFYP, "FYP", "FIRST YEAR PREMIUM"),
	ytdRules(FieldYTDFYP, "FYP", "FIRST YEAR PREMIUM"),
	metricRules(FieldFYC, "FYC", "FIRST YEAR COMMISSION"),
	ytdRules(FieldYTDFYC, "FYC", "FIRST YEAR COMMISSION"),
	[]Rule{
		{Field: FieldANPTarget, All: []string{"ANP", "TARGET"}, Weight: 3},
		{Field: FieldANPTarget, All: []string{"ANP", "GOAL"}, Weight: 2},
		{Field: FieldRecruitsTarget, All: []string{"RECRUIT", "TARGET"}, Weight: 3},
		{Field: FieldRecruitsTarget, All: []string{"RECRUIT", "GOAL"}, Weight: 2},
	},
)

// AgentRules locates the columns of an agents sheet.
var AgentRules = concat(
	[]Rule{
		{Field: FieldName, Any: []string{"AGENT NAME", "ADVISOR NAME", "ADVISER NAME"}, Weight: 4},
		{Field: FieldName, Any: []string{"AGENT", "ADVISOR", "ADVISER"}, None: append([]string{"CODE", "UM", "LEADER", "MANAGER"}, performanceWords...), Weight: 3},
		{Field: FieldName, All: []string{"NAME"}, None: append([]string{"UM", "LEADER", "MANAGER", "UNIT", "AGENCY"}, performanceWords...), Weight: 2},
		{Field: FieldLeader, Any: []string{"UM NAME", "UNIT MANAGER", "LEADER NAME", "MANAGER NAME"}, Weight: 3},
		{Field: FieldLeader, Any: []string{"UM", "LEADER", "MANAGER"}, None: performanceWords, Weight: 2},
		{Field: FieldLeader, All: []string{"UNIT"}, None: performanceWords, Weight: 1},
	},
	metricRules(FieldANP, "ANP", "ANNUALIZED"),
	metricRules(FieldFYP, "FYP", "FIRST YEAR PREMIUM"),
	metricRules(FieldCases, "CASE", "NOC"),
	[]Rule{
		{Field: FieldCommissionTarget, All: []string{"FYC", "TARGET"}, Weight: 3},
		{Field: FieldCommissionTarget, All: []string{"COMMISSION", "TARGET"}, Weight: 3},
		{Field: FieldCommissionTarget, All: []string{"FYC", "GOAL"}, Weight: 2},
		{Field: FieldRecruitsTarget, All: []string{"RECRUIT", "TARGET"}, Weight: 3},
		{Field: FieldRecruitsTarget, All: []string{"RECRUIT", "GOAL"}, Weight: 2},
	},
)

// Agency summary columns are named after the summary fields, e.g. "mtd.anp".
var summaryKeywords = []struct {
	metric  string
	keyword string
	spelled string
	exclude []string
}{
	{metric: "anp", keyword: "ANP", spelled: "ANNUALIZED"},
	{metric: "premium", keyword: "FYP", spelled: "PREMIUM", exclude: []string{"ANNUALIZED", "ANP"}},
	{metric: "commission", keyword: "FYC", spelled: "COMMISSION"},
	{metric: "cases", keyword: "CASE", spelled: "NOC"},
	{metric: "producing_advisors", keyword: "PRODUCING", spelled: "PA"},
	{metric: "manpower", keyword: "MANPOWER", spelled: "MP"},
	{metric: "persistency", keyword: "PERSISTENCY", spelled: "PERSIST"},
}

// FieldLabel is the optional row-label column of the agency sheet.
const FieldLabel Field = "label"

// AgencyRules locates the columns of the agency summary sheet.
var AgencyRules = func() []Rule {
	rules := []Rule{
		{Field: FieldLabel, Any: []string{"AGENCY", "UNIT", "BRANCH", "NAME", "LABEL"}, None: performanceWords, Weight: 1},
	}
	for _, k := range summaryKeywords {
		mtd := Field("mtd." + k.metric)
		ytd := Field("ytd." + k.metric)
		rules = append(rules,
			Rule{Field: mtd, All: []string{k.keyword, "MTD"}, Weight: 3},
			Rule{Field: ytd, All: []string{k.keyword, "YTD"}, Weight: 3},
			Rule{Field: mtd, All: []string{k.keyword}, None: []string{"YTD"}, Weight: 2},
			Rule{Field: ytd, All: []string{k.spelled, "YTD"}, None: k.exclude, Weight: 2},
			Rule{Field: mtd, All: []string{k.spelled}, None: append([]string{"YTD"}, k.exclude...), Weight: 1},
		)
	}
	return rules
}()
