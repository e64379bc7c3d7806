// Package language 定义故事目标语言及其提示词、系统消息与语言校验规则
package language

import (
	"fmt"
	"strings"
)

// Kind 语言类别
type Kind int

const (
	KindEnglish Kind = iota
	KindUrdu
	KindRomanUrdu
	KindOther
)

// String 返回类别名称
func (k Kind) String() string {
	switch k {
	case KindEnglish:
		return "english"
	case KindUrdu:
		return "urdu"
	case KindRomanUrdu:
		return "roman_urdu"
	default:
		return "other"
	}
}

// profile 某一语言类别的全部文案与校验器，%[1]s 为语言名
type profile struct {
	storyInstruction   string
	titleInstruction   string
	rawPromptPrefix    string
	systemMessage      string
	titleSystemMessage string
	skipVerification   bool
	validate           func(text string) bool
}

var profiles = map[Kind]profile{
	KindEnglish: {
		systemMessage:      "You are a storyteller who writes only in English language.",
		titleSystemMessage: "You are a storyteller who creates titles only in English language.",
		validate:           func(string) bool { return true },
	},
	KindUrdu: {
		storyInstruction: "آپ کو مکمل کہانی صرف اردو زبان میں لکھنی ہے۔ کوئی انگریزی یا ہندی الفاظ بالکل استعمال نہ کریں۔ " +
			"Write the ENTIRE story ONLY in Urdu language using Arabic/Urdu script. Do not mix English, Hindi, or Devanagari script. " +
			"Every single word must be pure Urdu. Avoid mixed script characters completely. ",
		titleInstruction: "آپ کو صرف اردو زبان میں جواب دینا ہے۔ کوئی انگریزی یا ہندی الفاظ استعمال نہ کریں۔ " +
			"Write ONLY in Urdu language using Arabic/Urdu script. Do not use any English, Hindi, or Devanagari characters. ",
		rawPromptPrefix: "آپ کو مکمل کہانی صرف اردو زبان میں لکھنی ہے۔ انگریزی یا ہندی کے الفاظ بالکل استعمال نہ کریں۔ " +
			"Write ONLY in pure Urdu language using Arabic script. Avoid mixing scripts. ",
		systemMessage: "You are a storyteller who writes only in Urdu language. Never use English words or sentences. " +
			"Every response must be completely in Urdu script.",
		titleSystemMessage: "You are a storyteller who creates titles only in pure Urdu language using Arabic script. " +
			"Never use English, Hindi, or Devanagari characters.",
		validate: isUrdu,
	},
	KindRomanUrdu: {
		storyInstruction: "Write the COMPLETE story ONLY in Roman Urdu using Latin alphabet. Use Urdu words and grammar written in English letters. " +
			"Examples: 'Ek din ek chhota sa bacha tha', 'Woh bahut khush tha', 'Us ke paas ek sundar khilona tha'. Do NOT write in English. " +
			"Every sentence must be Urdu vocabulary written in Roman script. " +
			"Use words like: tha, thi, the, hai, hain, ka, ki, ke, me, se, ko, ne, aur, lekin, phir, jab, etc. ",
		titleInstruction: "Write ONLY in Roman Urdu using Latin alphabet. Use Urdu words written in English letters like 'Ek Sundar Kahani' or 'Bachon Ki Duniya'. " +
			"Examples: 'Ek Chhota Hero', 'Pyari Si Titli'. Never use pure English words. ",
		rawPromptPrefix: "Write ONLY in Roman Urdu using Latin letters. Use Urdu vocabulary written in English alphabet " +
			"(like 'ek sundar din tha', 'bacha bahut khush tha'). Do NOT write in pure English. Every word must be Urdu written in Roman script. ",
		systemMessage: "You are a storyteller who writes ONLY in Roman Urdu. Write Urdu words using English/Latin alphabet. " +
			"Use Urdu grammar and vocabulary but write everything in Roman script. " +
			"Examples: 'Ek din ek bacha tha', 'Woh bahut pyara tha', 'Us ka naam Ali tha'. Never write in pure English. " +
			"Every sentence must use Urdu words written in Latin letters.",
		titleSystemMessage: "You are a storyteller who creates titles ONLY in Roman Urdu using Latin alphabet. " +
			"Write Urdu words in English letters like 'Ek Sundar Kahani', 'Bachon Ki Duniya', 'Pyari Si Titli'. Never use pure English words.",
		skipVerification: true,
		validate:         isRomanUrdu,
	},
	KindOther: {
		storyInstruction:   "Write ONLY in %[1]s language. Do not use English. Every word must be in %[1]s. ",
		titleInstruction:   "Write ONLY in %[1]s language. Do not use English. Every word must be in %[1]s. ",
		systemMessage:      "You are a storyteller who writes only in %[1]s language. Never use English unless specifically requested.",
		titleSystemMessage: "You are a storyteller who creates titles only in %[1]s language.",
		validate:           isMostlyNonLatin,
	},
}

// Language 目标语言，零值等价于英语
type Language struct {
	name string
	kind Kind
}

// English 默认语言
var English = Language{name: "English", kind: KindEnglish}

// Parse 解析用户提交的语言标签，大小写与分隔符不敏感
func Parse(tag string) Language {
	name := strings.TrimSpace(tag)
	switch normalize(name) {
	case "", "english", "en":
		return English
	case "urdu", "ur":
		return Language{name: name, kind: KindUrdu}
	case "roman urdu", "roman-urdu", "romanurdu", "roman_urdu":
		return Language{name: name, kind: KindRomanUrdu}
	default:
		return Language{name: name, kind: KindOther}
	}
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Name 用户提交的语言名，未指定时为 English
func (l Language) Name() string {
	if l.name == "" {
		return English.name
	}
	return l.name
}

// Kind 返回语言类别
func (l Language) Kind() Kind { return l.kind }

// IsEnglish 是否为英语
func (l Language) IsEnglish() bool { return l.kind == KindEnglish }

func (l Language) profile() profile { return profiles[l.kind] }

func (l Language) render(tmpl string) string {
	if tmpl == "" || !strings.Contains(tmpl, "%[1]s") {
		return tmpl
	}
	return fmt.Sprintf(tmpl, l.Name())
}

// Instruction 返回拼接在用户提示词前的语言指令，英语为空
func (l Language) Instruction(isTitle bool) string {
	p := l.profile()
	if isTitle {
		return l.render(p.titleInstruction)
	}
	return l.render(p.storyInstruction)
}

// RawPromptPrefix 自由文本提示词的语言前缀，仅乌尔都语和罗马乌尔都语有值
func (l Language) RawPromptPrefix() string {
	return l.profile().rawPromptPrefix
}

// SystemMessage 正文生成的系统消息
func (l Language) SystemMessage() string {
	return l.render(l.profile().systemMessage)
}

// TitleSystemMessage 标题生成的系统消息
func (l Language) TitleSystemMessage() string {
	return l.render(l.profile().titleSystemMessage)
}

// SkipsVerification 该语言是否跳过生成结果的语言校验
func (l Language) SkipsVerification() bool {
	return l.profile().skipVerification
}

// IsCorrect 判断文本是否符合该语言
func (l Language) IsCorrect(text string) bool {
	return l.profile().validate(text)
}
