package domain

const ParseModeHTML = "HTML"

// Button carries exactly one of CallbackData, URL or WebAppURL.
type Button struct {
	Text         string
	CallbackData string
	URL          string
	WebAppURL    string
}

func CallbackButton(text, data string) Button {
	return Button{Text: text, CallbackData: data}
}

func LinkButton(text, url string) Button {
	return Button{Text: text, URL: url}
}

func WebAppButton(text, url string) Button {
	return Button{Text: text, WebAppURL: url}
}

type OutgoingMessage struct {
	ChatID    int64
	Text      string
	Buttons   [][]Button
	ParseMode string
}
