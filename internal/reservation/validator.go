package reservation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	playground "github.com/go-playground/validator/v10"
)

// RawInput carries the reservation form fields exactly as submitted,
// plus caller-supplied metadata. Parsing the transport (JSON, form data)
// into this struct is the caller's job; validation starts here.
type RawInput struct {
	FullName        string `json:"fullName"`
	PhoneNumber     string `json:"phoneNumber"`
	Email           string `json:"email"`
	GuestCount      int    `json:"guestCount"`
	ReservationDate string `json:"reservationDate"` // YYYY-MM-DD
	ReservationTime string `json:"reservationTime"` // HH:MM
	Note            string `json:"note"`
	Source          string `json:"source"`
	Locale          string `json:"locale"`
}

// Normalized is the API-ready payload produced from a valid RawInput.
type Normalized struct {
	FullName        string `json:"fullName"`
	PhoneNumber     string `json:"phoneNumber"` // local format, leading 0, 10 digits
	Email           string `json:"email,omitempty"`
	GuestCount      int    `json:"guestCount"`
	ReservationDate string `json:"reservationDate"`
	ReservationTime string `json:"reservationTime"`
	Note            string `json:"note,omitempty"`
	Source          string `json:"source"`
	Locale          string `json:"locale"`
}

// FieldErrors maps a field name to one or more localized messages.
type FieldErrors map[string][]string

func (e FieldErrors) add(locale, field, key string) {
	e[field] = append(e[field], Message(locale, key))
}

const (
	minGuestCount = 1
	maxGuestCount = 30

	minNameLength = 3
	maxNameLength = 80
	maxNoteLength = 400
)

// Letters (including accented ones), then letters, spaces, apostrophes,
// periods or hyphens.
var namePattern = regexp.MustCompile(`^[\p{L}][\p{L}\s'.-]*$`)

var nonDigits = regexp.MustCompile(`\D`)

var emailCheck = playground.New()

// Validate checks a raw submission against the business rules and returns
// either a normalized payload or field-scoped errors. It is pure apart from
// the injected clock; opening hours come from configuration.
func Validate(input RawInput, now time.Time, hours OpeningHours) (*Normalized, FieldErrors) {
	locale := input.Locale
	if locale != "vi" {
		locale = "en"
	}
	errs := make(FieldErrors)

	fullName := validateFullName(input.FullName, locale, errs)
	localPhone := validatePhone(input.PhoneNumber, locale, errs)
	email := validateEmail(input.Email, locale, errs)
	validateGuestCount(input.GuestCount, locale, errs)
	validateDateTime(input, now, hours, locale, errs)
	note := validateNote(input.Note, locale, errs)

	if len(errs) > 0 {
		return nil, errs
	}

	return &Normalized{
		FullName:        fullName,
		PhoneNumber:     "0" + localPhone,
		Email:           email,
		GuestCount:      input.GuestCount,
		ReservationDate: strings.TrimSpace(input.ReservationDate),
		ReservationTime: strings.TrimSpace(input.ReservationTime),
		Note:            note,
		Source:          input.Source,
		Locale:          locale,
	}, nil
}

// NormalizeName collapses internal runs of whitespace to single spaces and trims.
func NormalizeName(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

func validateFullName(raw, locale string, errs FieldErrors) string {
	name := NormalizeName(raw)

	// Each failed sub-rule reports its own message; they are not exclusive.
	if utf8.RuneCountInString(name) < minNameLength {
		errs.add(locale, "fullName", msgFullNameMin)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		errs.add(locale, "fullName", msgFullNameMax)
	}
	if !namePattern.MatchString(name) {
		errs.add(locale, "fullName", msgFullNamePattern)
	}
	if len(strings.Fields(name)) < 2 {
		errs.add(locale, "fullName", msgFullNameParts)
	}
	return name
}

// validatePhone strips every non-digit, drops a leading country code ("84")
// or trunk zero, and requires a 9-digit subscriber number not starting with 0.
// It returns the 9-digit local number on success.
func validatePhone(raw, locale string, errs FieldErrors) string {
	digits := nonDigits.ReplaceAllString(raw, "")

	var local string
	switch {
	case strings.HasPrefix(digits, "84"):
		local = digits[2:]
	case strings.HasPrefix(digits, "0"):
		local = digits[1:]
	default:
		local = digits
	}

	if len(local) != 9 || local[0] == '0' {
		errs.add(locale, "phoneNumber", msgPhone)
		return ""
	}
	for _, c := range local {
		if c < '0' || c > '9' {
			errs.add(locale, "phoneNumber", msgPhone)
			return ""
		}
	}
	return local
}

func validateEmail(raw, locale string, errs FieldErrors) string {
	email := strings.TrimSpace(raw)
	if email == "" {
		return ""
	}
	if err := emailCheck.Var(email, "email"); err != nil {
		errs.add(locale, "email", msgEmail)
	}
	return email
}

func validateGuestCount(count int, locale string, errs FieldErrors) {
	if count < minGuestCount {
		errs.add(locale, "guestCount", msgGuestMin)
	}
	if count > maxGuestCount {
		errs.add(locale, "guestCount", msgGuestMax)
	}
}

func validateDateTime(input RawInput, now time.Time, hours OpeningHours, locale string, errs FieldErrors) {
	dateStr := strings.TrimSpace(input.ReservationDate)
	timeStr := strings.TrimSpace(input.ReservationTime)

	missing := false
	if dateStr == "" {
		errs.add(locale, "reservationDate", msgDateRequired)
		missing = true
	}
	if timeStr == "" {
		errs.add(locale, "reservationTime", msgTimeRequired)
		missing = true
	}
	if missing {
		return
	}

	when, ok := buildDateTime(dateStr, timeStr, now.Location())
	if !ok {
		errs.add(locale, "reservationTime", msgTimeInvalid)
		return
	}

	timeMinutes, ok := TimeToMinutes(timeStr)
	if !ok {
		errs.add(locale, "reservationTime", msgTimeInvalid)
		return
	}
	startMinutes, startOK := TimeToMinutes(hours.Start)
	endMinutes, endOK := TimeToMinutes(hours.End)
	if !startOK || !endOK {
		errs.add(locale, "reservationTime", msgTimeInvalid)
		return
	}

	// Inclusive window: both boundaries are bookable.
	if timeMinutes < startMinutes || timeMinutes > endMinutes {
		errs.add(locale, "reservationTime", msgTimeOutsideHours)
	}

	// Full date-time comparison, so a same-day reservation earlier than the
	// current time of day is rejected too.
	if when.Before(now) {
		errs.add(locale, "reservationDate", msgTimePast)
	}
}

// buildDateTime constructs a calendar date-time from "YYYY-MM-DD" and "HH:MM"
// and rejects combinations that do not round-trip, so day 31 in a 30-day month
// never rolls over into the next month.
func buildDateTime(dateStr, timeStr string, loc *time.Location) (time.Time, bool) {
	dateParts := strings.Split(dateStr, "-")
	if len(dateParts) != 3 {
		return time.Time{}, false
	}
	year, err1 := strconv.Atoi(dateParts[0])
	month, err2 := strconv.Atoi(dateParts[1])
	day, err3 := strconv.Atoi(dateParts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 {
		return time.Time{}, false
	}

	hourStr, minuteStr, found := strings.Cut(timeStr, ":")
	if !found {
		return time.Time{}, false
	}
	hour, err1 := strconv.Atoi(hourStr)
	minute, err2 := strconv.Atoi(minuteStr)
	if err1 != nil || err2 != nil {
		return time.Time{}, false
	}

	candidate := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
	if candidate.Year() != year || candidate.Month() != time.Month(month) || candidate.Day() != day ||
		candidate.Hour() != hour || candidate.Minute() != minute {
		return time.Time{}, false
	}
	return candidate, true
}

func validateNote(raw, locale string, errs FieldErrors) string {
	note := strings.TrimSpace(raw)
	if utf8.RuneCountInString(note) > maxNoteLength {
		errs.add(locale, "note", msgNoteMax)
	}
	return note
}
