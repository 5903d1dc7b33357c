package domain

// SessionState is a step of the per-user conversation state machine.
type SessionState string

const (
	StateNone SessionState = "none"

	// Registration
	StateAwaitingPhone    SessionState = "awaiting_phone"
	StateAwaitingName     SessionState = "awaiting_name"
	StateAwaitingApproval SessionState = "awaiting_approval"
	StateMainMenu         SessionState = "main_menu"

	// Driver stock report
	StateSelectingVehicleForReport SessionState = "selecting_vehicle_for_report"
	StateEnteringStock             SessionState = "entering_stock"

	// Administrator flows
	StateAdminSelectingVehicle   SessionState = "admin_selecting_vehicle"
	StateAdminEnteringStock      SessionState = "admin_entering_stock"
	StateAdminSelectingRecipient SessionState = "admin_selecting_recipient"
	StateAdminComposingMessage   SessionState = "admin_composing_message"
)

// Session holds the transient fields a flow collects before it completes.
// It lives in process memory only and is lost on restart.
type Session struct {
	UserID          int64
	State           SessionState
	Phone           string
	SelectedVehicle string
	TargetUserID    int64
	TargetName      string
	MessageID       int
}

// Active reports whether the user is inside a flow.
func (s *Session) Active() bool {
	return s != nil && s.State != StateNone
}
