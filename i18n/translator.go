package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "invalid_value":
			return "値が不正です"
		case "invalid_format":
			return "書式が不正です"
		case "missing_key":
			return "キーが見つかりません"
		case "unknown_key":
			return "未知のキーです"
		case "duplicate_key":
			return "キーが重複しています"
		case "no_mapping":
			return "対応する値がありません"
		case "unknown_class":
			return "未知のオブジェクト種別です"
		case "parse_error":
			return "解析エラー"
		case "no_active_module":
			return "有効なモジュールがありません"
		case "allocation_limit":
			return "空き番号が見つかりません"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "invalid_value":
			return "invalid value"
		case "invalid_format":
			return "invalid format"
		case "missing_key":
			return "missing key"
		case "unknown_key":
			return "unknown key"
		case "duplicate_key":
			return "duplicate key"
		case "no_mapping":
			return "no mapping for value"
		case "unknown_class":
			return "unknown object class"
		case "parse_error":
			return "parse error"
		case "no_active_module":
			return "no active module"
		case "allocation_limit":
			return "no free value within scan limit"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
