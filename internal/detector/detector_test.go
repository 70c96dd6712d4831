package detector

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typoguard/pkg/options"
)

func TestScan_SampleText(t *testing.T) {
	got := DetectTypos(SampleText)
	require.Len(t, got, 3)

	want := []Finding{
		{Category: Misspelling, Original: "按装", Corrected: "安装", Context: "我们按装了新系统，但既使如此", Position: 2},
		{Category: Misspelling, Original: "既使", Corrected: "即使", Context: "我们按装了新系统，但既使如此，人潮依然穿流不", Position: 10},
		{Category: Misspelling, Original: "穿流不息", Corrected: "川流不息", Context: "但既使如此，人潮依然穿流不息。", Position: 19},
	}
	assert.Equal(t, want, got)
}

func TestScan_EmptyInput(t *testing.T) {
	got := DetectTypos("")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestScan_NoMatch(t *testing.T) {
	for _, text := range []string{"hello world", "安装了新系统", "香蕉和橙子", "\xff\xfe"} {
		got := DetectTypos(text)
		require.NotNil(t, got, text)
		assert.Empty(t, got, text)
	}
}

func TestScan_OverlappingOccurrences(t *testing.T) {
	d := New(options.WithCatalog(options.RuleSpec{Original: "aa", Corrected: "a", Category: "misspelling"}))

	got := d.Scan("aaa")
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Position)
	assert.Equal(t, 1, got[1].Position)
	assert.Equal(t, "aaa", got[0].Context)
}

func TestScan_OverlapAdvancesOneCharacter(t *testing.T) {
	d := New(options.WithCatalog(options.RuleSpec{Original: "哈哈", Corrected: "哈", Category: "suggestion"}))

	got := d.Scan("哈哈哈哈")
	require.Len(t, got, 3)
	for i, f := range got {
		assert.Equal(t, i, f.Position)
	}
}

func TestScan_GroupedByRuleNotByPosition(t *testing.T) {
	// 具有一定的竞争力 is the last catalog rule but appears first in the text.
	text := "产品具有一定的竞争力，我们按装了新系统，又按装了一次。"
	got := DetectTypos(text)
	require.Len(t, got, 3)

	assert.Equal(t, "按装", got[0].Original)
	assert.Equal(t, "按装", got[1].Original)
	assert.Less(t, got[0].Position, got[1].Position)
	assert.Equal(t, "具有一定的竞争力", got[2].Original)
	assert.Equal(t, Suggestion, got[2].Category)
	assert.Less(t, got[2].Position, got[0].Position)
}

func TestScan_AllCategories(t *testing.T) {
	text := "我买了苹果，香蕉，和橙子。他不仅学习好，但是也爱运动。我们对项目进行了详细的分析，我们认为它具有一定的竞争力。"
	got := DetectTypos(text)
	require.Len(t, got, 4)

	assert.Equal(t, Grammar, got[0].Category)
	assert.Equal(t, "香蕉和橙子", got[0].Corrected)
	assert.Equal(t, Grammar, got[1].Category)
	assert.Equal(t, Suggestion, got[2].Category)
	assert.Equal(t, "通过对项目进行详细分析，我们", got[2].Corrected)
	assert.Equal(t, Suggestion, got[3].Category)
}

func TestScan_ContextWindow(t *testing.T) {
	text := "0123456789abcdefghij按装klmnopqrstuvwxyz"
	got := DetectTypos(text)
	require.Len(t, got, 1)
	assert.Equal(t, 20, got[0].Position)
	assert.Equal(t, "abcdefghij按装klmnopqrst", got[0].Context)

	// clipped at both ends
	got = DetectTypos("x按装y")
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Position)
	assert.Equal(t, "x按装y", got[0].Context)
}

func TestScan_ContextMatchesCharacterSlice(t *testing.T) {
	texts := []string{
		SampleText,
		strings.Repeat("按装", 7),
		"前缀 mixed ASCII 按装 and 既使 then 穿流不息 end",
		"按装",
	}
	for _, text := range texts {
		runes := []rune(text)
		for _, f := range DetectTypos(text) {
			l := utf8.RuneCountInString(f.Original)
			start := max(0, f.Position-10)
			end := min(len(runes), f.Position+l+10)
			assert.Equal(t, string(runes[start:end]), f.Context, text)
			assert.Equal(t, f.Original, string(runes[f.Position:f.Position+l]), text)
		}
	}
}

func TestScan_PerRuleAscendingPositions(t *testing.T) {
	text := strings.Repeat("既使按装，", 5)
	got := DetectTypos(text)
	require.Len(t, got, 10)

	last := map[string]int{}
	seen := map[string]bool{}
	order := []string{}
	for _, f := range got {
		if seen[f.Original] {
			assert.Greater(t, f.Position, last[f.Original])
		} else {
			order = append(order, f.Original)
		}
		seen[f.Original] = true
		last[f.Original] = f.Position
	}
	assert.Equal(t, []string{"按装", "既使"}, order)
}

func TestNew_ExtraRulesScannedAfterCatalog(t *testing.T) {
	d := New(options.WithExtraRules(
		options.RuleSpec{Original: "新系统", Corrected: "新版系统", Category: "优化建议"},
		options.RuleSpec{Original: "", Corrected: "dropped", Category: "grammar"},
		options.RuleSpec{Original: "人潮", Corrected: "人流", Category: "nonsense"},
	))
	rules := d.Rules()
	require.Len(t, rules, len(Catalog())+1)
	assert.Equal(t, "新系统", rules[len(rules)-1].Original)

	got := d.Scan(SampleText)
	require.Len(t, got, 4)
	assert.Equal(t, "新系统", got[3].Original)
	assert.Equal(t, 5, got[3].Position)
}

func TestNew_ContextRadius(t *testing.T) {
	d := New(options.WithContextRadius(1))
	got := d.Scan(SampleText)
	require.Len(t, got, 3)
	assert.Equal(t, "们按装了", got[0].Context)
}

func TestCatalog_ReturnsCopy(t *testing.T) {
	c := Catalog()
	require.Len(t, c, 7)
	c[0].Original = "changed"
	assert.Equal(t, "按装", Catalog()[0].Original)
	assert.Len(t, DetectTypos(SampleText), 3)
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{in: "错别字", want: Misspelling},
		{in: "语法错误", want: Grammar},
		{in: "优化建议", want: Suggestion},
		{in: "Misspelling", want: Misspelling},
		{in: " grammar ", want: Grammar},
		{in: "SUGGESTION", want: Suggestion},
		{in: "typo", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFinding_JSONFieldOrder(t *testing.T) {
	f := DetectTypos(SampleText)[0]
	b, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"错别字","original":"按装","corrected":"安装","context":"我们按装了新系统，但既使如此","position":2}`, string(b))

	var back Finding
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, f, back)
}

func TestScan_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, DetectTypos(SampleText), 3)
		}()
	}
	wg.Wait()
}
