package ticket

import (
	"math"
	"strconv"
	"strings"

	"ticketqr/internal/models"
)

const (
	// EmailSuffix is the institutional address pattern for the 2024 EE batch.
	EmailSuffix = ".ee.24@nitj.ac.in"

	RollNumberMin = 24126001
	RollNumberMax = 24126060
)

const (
	MsgRequired      = "Please fill in all required fields before submitting"
	MsgEmailMismatch = "Your details do not match our database"
	MsgRollMismatch  = "Your details does not match our database"
)

// Validate checks every rule against d and returns the full set of field errors.
// ok is true only when no rule fired. The image is never inspected.
func Validate(d models.Draft) (errs models.ValidationErrors, ok bool) {
	errs = models.ValidationErrors{}

	if d.FirstName == "" {
		errs[models.FieldFirstName] = MsgRequired
	}
	if d.LastName == "" {
		errs[models.FieldLastName] = MsgRequired
	}

	// Both email checks write the same slot; the suffix message wins.
	if d.Email == "" {
		errs[models.FieldEmail] = MsgRequired
	}
	if d.Email == "" || !strings.HasSuffix(d.Email, EmailSuffix) {
		errs[models.FieldEmail] = MsgEmailMismatch
	}

	if d.RollNumber == "" || !rollInRange(d.RollNumber) {
		errs[models.FieldRollNumber] = MsgRollMismatch
	}

	if !d.Gender.Valid() {
		errs[models.FieldGender] = MsgRequired
	}

	return errs, errs.OK()
}

// rollInRange reports whether s reads as a number in [RollNumberMin, RollNumberMax].
// Text that does not parse behaves like NaN and is out of range.
func rollInRange(s string) bool {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) {
		return false
	}
	return n >= RollNumberMin && n <= RollNumberMax
}
