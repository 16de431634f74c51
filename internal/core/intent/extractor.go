package intent

import (
	"regexp"
	"strings"
)

// ingredientSeparator 以逗號、"and" 或 "&" 切分食材子句
var ingredientSeparator = regexp.MustCompile(`(?i)\s*(?:,|&|\band\b)\s*`)

// ExtractIngredients 從文字片段中抽取食材詞。
// 切分後逐項去除空白、轉小寫、丟棄空詞；保留首次出現順序，不去重。
func ExtractIngredients(fragment string) []string {
	parts := ingredientSeparator.Split(fragment, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ExtractDietTags 掃描文字中的五種固定飲食短語。
// 採子字串比對（"veganism" 也會命中 "vegan"），不做模糊匹配；
// 回傳結果已去重並依枚舉順序排列。
func ExtractDietTags(text string) []Diet {
	lower := strings.ToLower(text)
	var tags []Diet
	for _, dp := range dietPhrases {
		if strings.Contains(lower, dp.phrase) {
			tags = append(tags, dp.diet)
		}
	}
	return tags
}

// ContainsDiet 檢查標籤集合是否包含指定標籤
func ContainsDiet(tags []Diet, d Diet) bool {
	for _, t := range tags {
		if t == d {
			return true
		}
	}
	return false
}
