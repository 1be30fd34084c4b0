package souvenir

import (
	"fmt"
	"strings"
)

// prefectureSuffixes are the administrative suffixes of Japan's 47 prefectures.
var prefectureSuffixes = []string{"都", "道", "府", "県"}

// BuildPrompt returns the Japanese instruction sent to the model for a prefecture.
func BuildPrompt(prefecture string) string {
	return fmt.Sprintf(
		"%sの代表的なお土産候補と、お土産を選ぶ際のポイントを3つ程度、分かりやすく具体的に教えてください。箇条書きでお願いします。",
		withPrefectureSuffix(prefecture),
	)
}

// withPrefectureSuffix appends 県 unless the name already carries a suffix,
// so "東京都" and "大阪府" are not turned into "東京都県".
func withPrefectureSuffix(name string) string {
	for _, suffix := range prefectureSuffixes {
		if strings.HasSuffix(name, suffix) {
			return name
		}
	}
	return name + "県"
}
