package bulk

import "golang.org/x/text/language"

// Icon identifies the indicator drawn next to a status
type Icon string

const (
	IconProcessing Icon = "clock"
	IconCompleted  Icon = "check-circle"
	IconFailed     Icon = "x-circle"
	IconUnknown    Icon = "alert-circle"
)

// StatusView is what a renderer needs to draw a status cell
type StatusView struct {
	Status   ImportStatus
	Icon     Icon
	Label    string
	Terminal bool
}

// ProjectStatus maps a status onto its icon and localized label. It is used
// for both the live job and history rows. Unrecognized statuses render as
// unknown.
func ProjectStatus(status ImportStatus, lang language.Tag) StatusView {
	view := StatusView{Status: status, Terminal: status.IsTerminal()}

	switch status {
	case ImportStatusProcessing:
		view.Icon, view.Label = IconProcessing, Localize(lang, MsgStatusProcessing)
	case ImportStatusCompleted:
		view.Icon, view.Label = IconCompleted, Localize(lang, MsgStatusCompleted)
	case ImportStatusFailed:
		view.Icon, view.Label = IconFailed, Localize(lang, MsgStatusFailed)
	default:
		view.Icon, view.Label = IconUnknown, Localize(lang, MsgStatusUnknown)
	}

	return view
}
