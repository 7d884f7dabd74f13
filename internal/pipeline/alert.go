package pipeline

import "errors"

const MsgOpenChat = "Please open a chat on WhatsApp Web first."

var ErrSnapInProgress = errors.New("a snap is already running")

// Alert is a failure the user has to see. Message is the text to show.
type Alert struct {
	Message string
	Err     error
}

func (a *Alert) Error() string { return a.Message }
func (a *Alert) Unwrap() error { return a.Err }

func openChatAlert(cause error) *Alert {
	return &Alert{Message: MsgOpenChat, Err: cause}
}

func errorAlert(cause error) *Alert {
	return &Alert{Message: "Error: " + cause.Error(), Err: cause}
}
