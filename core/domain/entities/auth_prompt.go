package entities

// AuthPrompt is one step of an interactive login: wait for a prompt, then answer it
type AuthPrompt struct {
	WaitFor string // prompt suffix to wait for
	SendCmd string // line to send, empty to only wait
}
