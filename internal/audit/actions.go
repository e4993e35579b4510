package audit

type Action string

const (
	ActionLogin              Action = "LOGIN"
	ActionLogout             Action = "LOGOUT"
	ActionReservationCreated Action = "RESERVATION_CREATED"
	ActionReservationUpdated Action = "RESERVATION_UPDATED"
	ActionReservationStatus  Action = "RESERVATION_STATUS_REQUESTED"
	ActionReservationDeleted Action = "RESERVATION_DELETED"
	ActionEmployeeCreated    Action = "EMPLOYEE_CREATED"
	ActionEmployeeUpdated    Action = "EMPLOYEE_UPDATED"
	ActionEmployeeDeleted    Action = "EMPLOYEE_DELETED"
	ActionMenuItemCreated    Action = "MENU_ITEM_CREATED"
	ActionMenuItemUpdated    Action = "MENU_ITEM_UPDATED"
	ActionMenuItemDeleted    Action = "MENU_ITEM_DELETED"
	ActionFeedbackDeleted    Action = "FEEDBACK_DELETED"
	ActionFeedbackResponded  Action = "FEEDBACK_RESPONDED"
)
