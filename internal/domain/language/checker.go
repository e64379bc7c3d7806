package language

import (
	"regexp"
	"strings"
	"unicode"
)

// 校验阈值
const (
	urduScriptRatio     = 0.8
	urduMaxLatinLetters = 5
	romanUrduMinMatches = 2
	otherMaxLatinRatio  = 0.5
)

var romanUrduWords = regexp.MustCompile(`(?i)\b(ek|aur|hai|ka|ki|ke|se|me|ko|ne|tha|thi|the|kya|koi|sab|yeh|ye|woh|wo|is|us|do|teen|bhi|nahi|haan|na|kahani|bacha|bache|ghar|pani|din|raat|aam|sundar|pyara|pyari|chhota|bada|khush|udas|dekh|sun|bol|kar|le|de|aa|ja|ho|hum|tum|ap|main|uska|hamara|tumhara|dost|dil|kaam|naam|saal)\b`)

func isArabicScript(r rune) bool { return r >= 0x0600 && r <= 0x06FF }

func isDevanagari(r rune) bool { return r >= 0x0900 && r <= 0x097F }

func isLatinLetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

// isCommonPunct 统计时忽略的标点，urdu 为 true 时额外忽略阿拉伯文逗号、分号和问号
func isCommonPunct(r rune, urdu bool) bool {
	if strings.ContainsRune(`.,!?;:()-"'`, r) {
		return true
	}
	return urdu && (r == '،' || r == '؛' || r == '؟')
}

// scriptCounts 文本中各书写系统的字符计数
type scriptCounts struct {
	latin      int
	arabic     int
	devanagari int
	meaningful int
}

func count(text string, urdu bool) scriptCounts {
	var c scriptCounts
	for _, r := range text {
		switch {
		case isLatinLetter(r):
			c.latin++
		case isArabicScript(r):
			c.arabic++
		case isDevanagari(r):
			c.devanagari++
		}
		if unicode.IsSpace(r) || isASCIIDigit(r) || isCommonPunct(r, urdu) {
			continue
		}
		c.meaningful++
	}
	return c
}

// isUrdu 乌尔都语：拉丁字母不超过 5 个、无天城文，且阿拉伯字母占有效字符 80% 以上
func isUrdu(text string) bool {
	c := count(text, true)
	if c.latin > urduMaxLatinLetters || c.devanagari > 0 {
		return false
	}
	if c.meaningful == 0 {
		return true
	}
	return float64(c.arabic) > float64(c.meaningful)*urduScriptRatio
}

// isRomanUrdu 罗马乌尔都语：不得含阿拉伯字母，且至少命中两个常用词
func isRomanUrdu(text string) bool {
	if strings.IndexFunc(text, isArabicScript) >= 0 {
		return false
	}
	return len(romanUrduWords.FindAllStringIndex(text, romanUrduMinMatches)) >= romanUrduMinMatches
}

// isMostlyNonLatin 其他语言：拉丁字母占比低于一半
func isMostlyNonLatin(text string) bool {
	c := count(text, false)
	if c.meaningful == 0 {
		return true
	}
	return float64(c.latin)/float64(c.meaningful) < otherMaxLatinRatio
}

// IsCorrectLanguage 按语言标签校验文本
func IsCorrectLanguage(text, tag string) bool {
	return Parse(tag).IsCorrect(text)
}
