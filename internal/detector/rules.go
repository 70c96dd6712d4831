package detector

// SampleText is scanned when the CLI runs without input.
const SampleText = "我们按装了新系统，但既使如此，人潮依然穿流不息。"

// catalog is the built-in rule table. Order matters: findings are grouped by
// rule in this order.
var catalog = [...]Rule{
	// 错别字
	{Original: "按装", Corrected: "安装", Category: Misspelling},
	{Original: "既使", Corrected: "即使", Category: Misspelling},
	{Original: "穿流不息", Corrected: "川流不息", Category: Misspelling},
	// 语法错误
	{Original: "香蕉，和橙子", Corrected: "香蕉和橙子", Category: Grammar},
	{Original: "不仅学习好，但是", Corrected: "不仅学习好，而且", Category: Grammar},
	// 优化建议
	{Original: "进行了详细的分析，我们", Corrected: "通过对项目进行详细分析，我们", Category: Suggestion},
	{Original: "具有一定的竞争力", Corrected: "具备较强竞争力", Category: Suggestion},
}

// Catalog returns a copy of the built-in rules in scan order.
func Catalog() []Rule {
	out := make([]Rule, len(catalog))
	copy(out, catalog[:])
	return out
}
