package conversation

// Trim returns the most recent maxTurns user/assistant pairs, dropping older
// turns from the front. The returned slice aliases the input; callers that
// need isolation should copy. maxTurns <= 0 trims everything.
func Trim(history []Turn, maxTurns int) []Turn {
	if maxTurns <= 0 {
		return nil
	}
	keep := 2 * maxTurns
	if len(history) <= keep {
		return history
	}
	return history[len(history)-keep:]
}

// BuildPrompt assembles the message sequence sent to a language model:
// the system prompt, the trimmed history, and the new user utterance.
func BuildPrompt(systemPrompt string, history []Turn, userText string, maxTurns int) []Turn {
	trimmed := Trim(history, maxTurns)
	prompt := make([]Turn, 0, len(trimmed)+2)
	prompt = append(prompt, System(systemPrompt))
	prompt = append(prompt, trimmed...)
	prompt = append(prompt, User(userText))
	return prompt
}
