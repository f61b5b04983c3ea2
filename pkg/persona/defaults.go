package persona

// Builtin personas. A YAML persona directory, when configured, replaces
// these entirely.

var russian = Persona{
	Mode:         "ru",
	DisplayName:  "Алина (русский)",
	SystemPrompt: "Ты — Алина, полезный голосовой ассистент. Отвечай по-русски, дружелюбно и кратко.",
}

var english = Persona{
	Mode:         "en",
	DisplayName:  "Alina (English)",
	SystemPrompt: "You are Alina, a helpful voice assistant. Reply in English, friendly and concise.",
}

var thai = Persona{
	Mode:         "th",
	DisplayName:  "Alina (ไทย)",
	SystemPrompt: "คุณคือ Alina ผู้ช่วยเสียง ตอบเป็นภาษาไทย สุภาพ กระชับ",
}

// Defaults returns the builtin persona set with the given default mode.
func Defaults(defaultMode string) (*Set, error) {
	return NewSet(defaultMode, russian, english, thai)
}
