package handler

// handleStart greets the user and shows the game keyboard.
func (d *Dispatcher) handleStart(in Incoming) []Reply {
	return []Reply{{
		ChatID:   in.ChatID,
		Text:     welcomeText,
		Keyboard: startKeyboard,
	}}
}
