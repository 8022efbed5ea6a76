package reservation

// Message keys for field-scoped validation failures.
const (
	msgFullNameMin      = "fullNameMin"
	msgFullNameMax      = "fullNameMax"
	msgFullNamePattern  = "fullNamePattern"
	msgFullNameParts    = "fullNameParts"
	msgPhone            = "phone"
	msgEmail            = "email"
	msgGuestMin         = "guestMin"
	msgGuestMax         = "guestMax"
	msgDateRequired     = "dateRequired"
	msgTimeRequired     = "timeRequired"
	msgNoteMax          = "noteMax"
	msgTimeInvalid      = "timeInvalid"
	msgTimeOutsideHours = "timeOutsideHours"
	msgTimePast         = "timePast"

	// MsgFormError is the summary message accompanying field errors.
	MsgFormError = "formError"
)

var messagesEn = map[string]string{
	msgFullNameMin:      "Full name must be at least 3 characters",
	msgFullNameMax:      "Full name must be at most 80 characters",
	msgFullNamePattern:  "Full name may only contain letters, spaces, apostrophes, periods and hyphens",
	msgFullNameParts:    "Please enter both first and last name",
	msgPhone:            "Please enter a valid phone number",
	msgEmail:            "Please enter a valid email address",
	msgGuestMin:         "At least 1 guest is required",
	msgGuestMax:         "We can seat at most 30 guests per reservation",
	msgDateRequired:     "Please pick a reservation date",
	msgTimeRequired:     "Please pick a reservation time",
	msgNoteMax:          "Note must be at most 400 characters",
	msgTimeInvalid:      "The selected date and time is not valid",
	msgTimeOutsideHours: "The selected time is outside our opening hours",
	msgTimePast:         "The selected time is in the past",
	MsgFormError:        "Please check the highlighted fields",
}

var messagesVi = map[string]string{
	msgFullNameMin:      "Họ tên phải có ít nhất 3 ký tự",
	msgFullNameMax:      "Họ tên không được quá 80 ký tự",
	msgFullNamePattern:  "Họ tên chỉ được chứa chữ cái, khoảng trắng, dấu nháy, dấu chấm và gạch nối",
	msgFullNameParts:    "Vui lòng nhập đầy đủ họ và tên",
	msgPhone:            "Vui lòng nhập số điện thoại hợp lệ",
	msgEmail:            "Vui lòng nhập địa chỉ email hợp lệ",
	msgGuestMin:         "Cần ít nhất 1 khách",
	msgGuestMax:         "Mỗi lượt đặt bàn tối đa 30 khách",
	msgDateRequired:     "Vui lòng chọn ngày đặt bàn",
	msgTimeRequired:     "Vui lòng chọn giờ đặt bàn",
	msgNoteMax:          "Ghi chú không được quá 400 ký tự",
	msgTimeInvalid:      "Ngày giờ đã chọn không hợp lệ",
	msgTimeOutsideHours: "Giờ đã chọn nằm ngoài giờ mở cửa",
	msgTimePast:         "Thời gian đã chọn đã qua",
	MsgFormError:        "Vui lòng kiểm tra lại các trường được đánh dấu",
}

// Message resolves a message key for a locale. Unknown locales fall back to
// English; unknown keys are returned as-is so a missing translation is visible
// rather than silent.
func Message(locale, key string) string {
	catalog := messagesEn
	if locale == "vi" {
		catalog = messagesVi
	}
	if msg, ok := catalog[key]; ok {
		return msg
	}
	return key
}
