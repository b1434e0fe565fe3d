package vocab

// Seed data shown to a first-time account and restored whenever
// sanitization leaves a list empty, so the UI always has content.

type seedWord struct {
	word    string
	meaning string
}

type seedSentence struct {
	sentence     string
	romanization string
	meaning      string
	term         string
	gloss        string
}

var seedWords = []seedWord{
	{"apple", "苹果"},
	{"journey", "旅程"},
	{"weather", "天气"},
	{"library", "图书馆"},
	{"breakfast", "早餐"},
	{"practice", "练习"},
	{"bridge", "桥"},
	{"quiet", "安静的"},
	{"improve", "改善"},
	{"newspaper", "报纸"},
}

var seedSentences = []seedSentence{
	{"おはようございます。", "ohayougozaimasu.", "早上好。", "おはよう", "早上好"},
	{"これはペンです。", "korehapendesu.", "这是一支笔。", "ペン", "笔"},
	{"今日は天気がいいですね。", "kyou wa tenki ga ii desu ne.", "今天天气真好。", "天気", "天气"},
	{"水をください。", "mizu o kudasai.", "请给我一杯水。", "水", "水"},
	{"駅はどこですか。", "eki wa doko desu ka.", "车站在哪里？", "駅", "车站"},
	{"ありがとうございました。", "arigatougozaimashita.", "非常感谢。", "ありがとう", "谢谢"},
}

// SeedVocabulary generates the starter vocabulary list. Each call mints
// fresh ids so re-seeding never collides with exported copies.
func SeedVocabulary() []VocabularyItem {
	items := make([]VocabularyItem, 0, len(seedWords))
	for _, w := range seedWords {
		items = append(items, VocabularyItem{
			ID:      NewID(),
			Word:    w.word,
			Meaning: w.meaning,
			Tags:    []string{"starter"},
		})
	}
	return items
}

// SeedSentences generates the starter sentence list.
func SeedSentences() []SentenceItem {
	items := make([]SentenceItem, 0, len(seedSentences))
	for _, s := range seedSentences {
		items = append(items, SentenceItem{
			ID:           NewID(),
			Sentence:     s.sentence,
			Romanization: s.romanization,
			Meaning:      s.meaning,
			Tags:         []string{"starter"},
			VocabularyGlosses: []VocabularyGloss{
				{Term: s.term, Gloss: s.gloss},
			},
		})
	}
	return items
}
