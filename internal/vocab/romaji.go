package vocab

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Romanize derives a Hepburn reading from Japanese text, rune by rune.
// Input is NFC-normalized first so decomposed kana (base plus combining
// dakuten) hit the reading tables. Katakana is folded to hiragana; the
// sokuon doubles the following consonant; the long-vowel mark repeats
// the preceding vowel. Runes with no kana reading (kanji included) pass
// through unchanged, so the result is never empty for non-empty input.
func Romanize(s string) string {
	runes := []rune(norm.NFC.String(s))
	var b strings.Builder
	geminate := false
	for i := 0; i < len(runes); i++ {
		r := foldKatakana(runes[i])
		if r == 'っ' {
			geminate = true
			continue
		}
		if r == 'ー' {
			if v := lastVowel(b.String()); v != 0 {
				b.WriteByte(v)
			}
			continue
		}
		roma, found := "", false
		if i+1 < len(runes) {
			if d, ok := kanaDigraphs[[2]rune{r, foldKatakana(runes[i+1])}]; ok {
				roma, found = d, true
				i++
			}
		}
		if !found {
			roma, found = kanaSingles[r]
		}
		if !found {
			geminate = false
			b.WriteRune(runes[i])
			continue
		}
		if geminate {
			switch {
			case strings.HasPrefix(roma, "ch"):
				b.WriteByte('t')
			case len(roma) > 0 && !isVowel(roma[0]):
				b.WriteByte(roma[0])
			}
			geminate = false
		}
		b.WriteString(roma)
	}
	return b.String()
}

// HasJapanese reports whether s contains kana or CJK ideographs.
func HasJapanese(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			return true
		}
	}
	return false
}

// foldKatakana maps katakana letters onto their hiragana counterparts.
func foldKatakana(r rune) rune {
	if r >= 'ァ' && r <= 'ヶ' {
		return r - 0x60
	}
	return r
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

func lastVowel(s string) byte {
	for i := len(s) - 1; i >= 0; i-- {
		if isVowel(s[i]) {
			return s[i]
		}
	}
	return 0
}

var kanaSingles = map[rune]string{
	'あ': "a", 'い': "i", 'う': "u", 'え': "e", 'お': "o",
	'か': "ka", 'き': "ki", 'く': "ku", 'け': "ke", 'こ': "ko",
	'さ': "sa", 'し': "shi", 'す': "su", 'せ': "se", 'そ': "so",
	'た': "ta", 'ち': "chi", 'つ': "tsu", 'て': "te", 'と': "to",
	'な': "na", 'に': "ni", 'ぬ': "nu", 'ね': "ne", 'の': "no",
	'は': "ha", 'ひ': "hi", 'ふ': "fu", 'へ': "he", 'ほ': "ho",
	'ま': "ma", 'み': "mi", 'む': "mu", 'め': "me", 'も': "mo",
	'や': "ya", 'ゆ': "yu", 'よ': "yo",
	'ら': "ra", 'り': "ri", 'る': "ru", 'れ': "re", 'ろ': "ro",
	'わ': "wa", 'ゐ': "wi", 'ゑ': "we", 'を': "o", 'ん': "n",
	'が': "ga", 'ぎ': "gi", 'ぐ': "gu", 'げ': "ge", 'ご': "go",
	'ざ': "za", 'じ': "ji", 'ず': "zu", 'ぜ': "ze", 'ぞ': "zo",
	'だ': "da", 'ぢ': "ji", 'づ': "zu", 'で': "de", 'ど': "do",
	'ば': "ba", 'び': "bi", 'ぶ': "bu", 'べ': "be", 'ぼ': "bo",
	'ぱ': "pa", 'ぴ': "pi", 'ぷ': "pu", 'ぺ': "pe", 'ぽ': "po",
	'ぁ': "a", 'ぃ': "i", 'ぅ': "u", 'ぇ': "e", 'ぉ': "o",
	'ゃ': "ya", 'ゅ': "yu", 'ょ': "yo", 'ゔ': "vu",
	'。': ".", '、': ", ", '・': " ", '　': " ",
	'「': "", '」': "", '『': "", '』': "",
	'！': "!", '？': "?",
}

var kanaDigraphs = map[[2]rune]string{
	{'き', 'ゃ'}: "kya", {'き', 'ゅ'}: "kyu", {'き', 'ょ'}: "kyo",
	{'し', 'ゃ'}: "sha", {'し', 'ゅ'}: "shu", {'し', 'ょ'}: "sho",
	{'ち', 'ゃ'}: "cha", {'ち', 'ゅ'}: "chu", {'ち', 'ょ'}: "cho",
	{'に', 'ゃ'}: "nya", {'に', 'ゅ'}: "nyu", {'に', 'ょ'}: "nyo",
	{'ひ', 'ゃ'}: "hya", {'ひ', 'ゅ'}: "hyu", {'ひ', 'ょ'}: "hyo",
	{'み', 'ゃ'}: "mya", {'み', 'ゅ'}: "myu", {'み', 'ょ'}: "myo",
	{'り', 'ゃ'}: "rya", {'り', 'ゅ'}: "ryu", {'り', 'ょ'}: "ryo",
	{'ぎ', 'ゃ'}: "gya", {'ぎ', 'ゅ'}: "gyu", {'ぎ', 'ょ'}: "gyo",
	{'じ', 'ゃ'}: "ja", {'じ', 'ゅ'}: "ju", {'じ', 'ょ'}: "jo",
	{'ぢ', 'ゃ'}: "ja", {'ぢ', 'ゅ'}: "ju", {'ぢ', 'ょ'}: "jo",
	{'び', 'ゃ'}: "bya", {'び', 'ゅ'}: "byu", {'び', 'ょ'}: "byo",
	{'ぴ', 'ゃ'}: "pya", {'ぴ', 'ゅ'}: "pyu", {'ぴ', 'ょ'}: "pyo",
}
